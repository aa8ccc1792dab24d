package chat

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pfcmatch/backend/internal/app"
	"github.com/pfcmatch/backend/internal/auth"
	apperr "github.com/pfcmatch/backend/internal/errors"
	"github.com/pfcmatch/backend/internal/utils/response"
)

// Registrar ties the chat service into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(api *gin.RouterGroup) {
	svc := NewService(r.appCtx)
	authed := api.Group("/chats", auth.Middleware(r.appCtx.Tokens))

	authed.GET("/:id", func(c *gin.Context) {
		id, _ := auth.CurrentUser(c)
		info, err := svc.GetInfo(c.Request.Context(), id.ID, c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"chat": info})
	})

	authed.GET("/:id/messages", func(c *gin.Context) {
		id, _ := auth.CurrentUser(c)

		limit := 0
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}
		var token *string
		if v := c.Query("cursor"); v != "" {
			token = &v
		}

		messages, next, err := svc.GetMessages(c.Request.Context(), id.ID, c.Param("id"), token, limit)
		if err != nil {
			response.Error(c, err)
			return
		}
		payload := gin.H{"messages": messages}
		if next != nil {
			payload["next_cursor"] = *next
		}
		response.OK(c, payload)
	})

	authed.POST("/:id/messages", func(c *gin.Context) {
		id, _ := auth.CurrentUser(c)
		var req struct {
			Body string `json:"body" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, apperr.Invalid("body is required"))
			return
		}

		msg, err := svc.SendMessage(c.Request.Context(), id.ID, c.Param("id"), req.Body)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"message": msg})
	})
}
