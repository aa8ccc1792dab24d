package profile

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/pfcmatch/backend/internal/app"
	"github.com/pfcmatch/backend/internal/auth"
	apperr "github.com/pfcmatch/backend/internal/errors"
	"github.com/pfcmatch/backend/internal/utils/response"
)

// Registrar ties the profile service into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(api *gin.RouterGroup) {
	svc := NewService(r.appCtx)
	authed := api.Group("", auth.Middleware(r.appCtx.Tokens))

	authed.POST("/profile", func(c *gin.Context) {
		id, _ := auth.CurrentUser(c)
		var req struct {
			Name         string   `json:"name" binding:"required"`
			Age          int      `json:"age" binding:"required"`
			Gender       string   `json:"gender" binding:"required"`
			Frat         string   `json:"frat"`
			HeightCM     int      `json:"height_cm" binding:"required"`
			InterestedIn string   `json:"interested_in" binding:"required"`
			OneLiner     string   `json:"one_liner"`
			Photos       []string `json:"photos" binding:"required"`
			PoolCode     string   `json:"pool_code" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, apperr.Invalid(err.Error()))
			return
		}
		created, err := svc.Create(c.Request.Context(), id.ID, id.Email, CreateInput{
			Name:         req.Name,
			Age:          req.Age,
			Gender:       req.Gender,
			Frat:         req.Frat,
			HeightCM:     req.HeightCM,
			InterestedIn: req.InterestedIn,
			OneLiner:     req.OneLiner,
			Photos:       req.Photos,
			PoolCode:     req.PoolCode,
		})
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"profile": created})
	})

	authed.GET("/profile/me", func(c *gin.Context) {
		id, _ := auth.CurrentUser(c)
		p, err := svc.Get(c.Request.Context(), id.ID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"profile": p})
	})

	authed.GET("/profile/:id", func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"profile": p})
	})

	authed.POST("/profile/photos", func(c *gin.Context) {
		id, _ := auth.CurrentUser(c)
		file, header, err := c.Request.FormFile("photo")
		if err != nil {
			response.Error(c, apperr.Invalid("photo file is required"))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, MaxPhotoSize+1))
		if err != nil {
			response.Error(c, apperr.Invalid("failed to read photo"))
			return
		}
		url, err := svc.UploadPhoto(c.Request.Context(), id.ID, data, header.Header.Get("Content-Type"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"url": url})
	})

	authed.PUT("/profile/photos", func(c *gin.Context) {
		id, _ := auth.CurrentUser(c)
		var req struct {
			Photos []string `json:"photos" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, apperr.Invalid("photos are required"))
			return
		}
		if err := svc.UpdatePhotos(c.Request.Context(), id.ID, req.Photos); err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, nil)
	})

	authed.GET("/preferences", func(c *gin.Context) {
		id, _ := auth.CurrentUser(c)
		pref, err := svc.GetPreference(c.Request.Context(), id.ID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"preferences": pref})
	})

	authed.PUT("/preferences", func(c *gin.Context) {
		id, _ := auth.CurrentUser(c)
		var req struct {
			AgeMin        int      `json:"age_min" binding:"required"`
			AgeMax        int      `json:"age_max" binding:"required"`
			HeightMin     int      `json:"height_min" binding:"required"`
			HeightMax     int      `json:"height_max" binding:"required"`
			InterestedIn  string   `json:"interested_in" binding:"required"`
			FratWhitelist []string `json:"frat_whitelist"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, apperr.Invalid(err.Error()))
			return
		}
		err := svc.SetPreference(c.Request.Context(), id.ID, PreferenceInput{
			AgeMin:        req.AgeMin,
			AgeMax:        req.AgeMax,
			HeightMin:     req.HeightMin,
			HeightMax:     req.HeightMax,
			InterestedIn:  req.InterestedIn,
			FratWhitelist: req.FratWhitelist,
		})
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, nil)
	})

	authed.DELETE("/account", func(c *gin.Context) {
		id, _ := auth.CurrentUser(c)
		if err := svc.DeleteAccount(c.Request.Context(), id.ID); err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, nil)
	})
}
