package swipe

import (
	"github.com/gin-gonic/gin"

	"github.com/pfcmatch/backend/internal/app"
	"github.com/pfcmatch/backend/internal/auth"
	apperr "github.com/pfcmatch/backend/internal/errors"
	"github.com/pfcmatch/backend/internal/utils/response"
)

// Registrar ties the swipe service into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(api *gin.RouterGroup) {
	svc := NewService(r.appCtx)
	authed := api.Group("", auth.Middleware(r.appCtx.Tokens))

	authed.POST("/swipes", func(c *gin.Context) {
		id, _ := auth.CurrentUser(c)
		var req struct {
			SwipeeID string `json:"swipee_id" binding:"required"`
			Decision string `json:"decision" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, apperr.Invalid("swipee_id and decision are required"))
			return
		}

		result, err := svc.Swipe(c.Request.Context(), id.ID, req.SwipeeID, req.Decision)
		if err != nil {
			r.appCtx.Logger.Error("swipe failed", "user", id.ID, "err", err)
			response.Error(c, err)
			return
		}

		payload := gin.H{"matched": result.Matched}
		if result.Matched {
			payload["match_id"] = result.MatchID
			payload["chat_id"] = result.ChatID
		}
		response.OK(c, payload)
	})

	authed.GET("/swipes/liked-me/count", func(c *gin.Context) {
		id, _ := auth.CurrentUser(c)
		count, err := svc.LikedMeCount(c.Request.Context(), id.ID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"count": count})
	})
}
