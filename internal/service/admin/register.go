package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/pfcmatch/backend/internal/app"
	apperr "github.com/pfcmatch/backend/internal/errors"
	"github.com/pfcmatch/backend/internal/middleware"
	"github.com/pfcmatch/backend/internal/utils/response"
)

// Registrar ties the admin login into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(api *gin.RouterGroup) {
	svc := NewService(r.appCtx)

	// brute-force protection on the credential check
	login := api.Group("/auth/admin", middleware.RateLimit(10, 5))

	login.POST("/login", func(c *gin.Context) {
		var req struct {
			Username string `json:"username" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, apperr.Invalid("username and password are required"))
			return
		}

		token, err := svc.Login(req.Username, req.Password)
		if err != nil {
			response.Fail(c, apperr.HTTPStatus(err), "invalid username or password")
			return
		}
		response.OK(c, gin.H{"token": token})
	})
}
