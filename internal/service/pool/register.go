package pool

import (
	"github.com/gin-gonic/gin"

	"github.com/pfcmatch/backend/internal/app"
	"github.com/pfcmatch/backend/internal/auth"
	apperr "github.com/pfcmatch/backend/internal/errors"
	"github.com/pfcmatch/backend/internal/utils/response"
)

// Registrar ties the pool service into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(api *gin.RouterGroup) {
	svc := NewService(r.appCtx)

	public := api.Group("/pool")
	{
		public.GET("/validate", func(c *gin.Context) {
			response.OK(c, gin.H{"valid": svc.IsValidCode(c.Request.Context(), c.Query("code"))})
		})
		public.GET("/status", func(c *gin.Context) {
			response.OK(c, gin.H{"status": svc.GetStatus(c.Request.Context(), c.Query("code"))})
		})
		public.GET("/display-count", func(c *gin.Context) {
			count, err := svc.GetDisplayCount(c.Request.Context(), c.Query("code"))
			if err != nil {
				r.appCtx.Logger.Error("display count failed", "err", err)
				response.Error(c, err)
				return
			}
			response.OK(c, gin.H{"count": count})
		})
		public.GET("/signup-count", func(c *gin.Context) {
			count, err := svc.GetSignupCount(c.Request.Context(), c.Query("code"))
			if err != nil {
				r.appCtx.Logger.Error("signup count failed", "err", err)
				response.Error(c, err)
				return
			}
			response.OK(c, gin.H{"count": count})
		})
	}

	authed := api.Group("/pool", auth.Middleware(r.appCtx.Tokens))
	{
		// Pool status of the caller's own pool, for the waiting/paused flow.
		authed.GET("/me", func(c *gin.Context) {
			id, _ := auth.CurrentUser(c)
			status, code, err := svc.StatusForUser(c.Request.Context(), id.ID)
			if err != nil {
				response.Error(c, err)
				return
			}
			response.OK(c, gin.H{"status": status, "pool_code": code})
		})
	}

	admin := api.Group("/admin/pool", auth.Middleware(r.appCtx.Tokens), auth.RequireAdmin())
	{
		admin.PUT("/status", func(c *gin.Context) {
			var req struct {
				PoolCode string `json:"pool_code" binding:"required"`
				Status   string `json:"status" binding:"required"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				response.Error(c, apperr.Invalid("pool_code and status are required"))
				return
			}
			if err := svc.SetStatus(c.Request.Context(), req.PoolCode, req.Status); err != nil {
				response.Error(c, err)
				return
			}
			response.OK(c, nil)
		})

		admin.PUT("/display-count", func(c *gin.Context) {
			var req struct {
				PoolCode string `json:"pool_code" binding:"required"`
				Count    *int64 `json:"count" binding:"required"`
			}
			if err := c.ShouldBindJSON(&req); err != nil || req.Count == nil {
				response.Error(c, apperr.Invalid("pool_code and count are required"))
				return
			}
			if err := svc.SetDisplayCount(c.Request.Context(), req.PoolCode, *req.Count); err != nil {
				response.Error(c, err)
				return
			}
			response.OK(c, nil)
		})
	}
}
