package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pfcmatch/backend/internal/config"
	"github.com/pfcmatch/backend/internal/middleware"
)

// NewRouter builds the engine and attaches all provided services under /api.
func NewRouter(registrars ...Registrar) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), middleware.RequestLogger())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	api := engine.Group("/api")
	for _, r := range registrars {
		r.Register(api)
	}

	return engine
}

// StartHTTPServer boots the HTTP server and blocks until it exits.
func StartHTTPServer(cfg *config.Config, registrars ...Registrar) error {
	engine := NewRouter(registrars...)

	addr := fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return srv.ListenAndServe()
}
