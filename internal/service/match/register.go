package match

import (
	"github.com/gin-gonic/gin"

	"github.com/pfcmatch/backend/internal/app"
	"github.com/pfcmatch/backend/internal/auth"
	"github.com/pfcmatch/backend/internal/utils/response"
)

// Registrar ties the match service into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(api *gin.RouterGroup) {
	svc := NewService(r.appCtx)
	authed := api.Group("", auth.Middleware(r.appCtx.Tokens))

	authed.GET("/matches", func(c *gin.Context) {
		id, _ := auth.CurrentUser(c)
		active, expired, err := svc.GetMatchesForUser(c.Request.Context(), id.ID)
		if err != nil {
			r.appCtx.Logger.Error("list matches failed", "user", id.ID, "err", err)
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{
			"active_matches":  active,
			"expired_matches": expired,
		})
	})

	authed.POST("/matches/:id/confirm", func(c *gin.Context) {
		id, _ := auth.CurrentUser(c)
		both, err := svc.ConfirmDate(c.Request.Context(), id.ID, c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"both_confirmed": both})
	})
}
