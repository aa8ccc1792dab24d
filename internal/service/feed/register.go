package feed

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pfcmatch/backend/internal/app"
	"github.com/pfcmatch/backend/internal/auth"
	"github.com/pfcmatch/backend/internal/utils/response"
)

// Registrar ties the feed service into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(api *gin.RouterGroup) {
	svc := NewService(r.appCtx)
	authed := api.Group("", auth.Middleware(r.appCtx.Tokens))

	// Gating by pool status is the caller flow's job (waiting/paused
	// screens); the feed itself only applies matching rules.
	authed.GET("/candidates", func(c *gin.Context) {
		id, _ := auth.CurrentUser(c)

		limit := 0
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}
		includeSkipped := c.Query("include_skipped") == "true"

		candidates, err := svc.GetCandidates(c.Request.Context(), id.ID, limit, includeSkipped)
		if err != nil {
			r.appCtx.Logger.Error("candidate query failed", "user", id.ID, "err", err)
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"candidates": candidates})
	})
}
