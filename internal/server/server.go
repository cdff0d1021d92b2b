// Package server exposes capacity, conceal and reveal over HTTP for a browser frontend.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/andresmejia3/stg/internal/config"
)

// maxUploadBytes bounds the multipart body of a single request.
const maxUploadBytes = 64 << 20

// Server is the stg HTTP API.
type Server struct {
	cfg    config.Config
	engine *gin.Engine
}

// New builds the router. cfg supplies the defaults for every form field a request omits.
func New(cfg config.Config) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	router.MaxMultipartMemory = maxUploadBytes

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", "X-Stego-PSNR", "X-Stego-Capacity", "X-Stego-Required", "X-Stego-Variant", "X-Stego-Complete"}
	if len(corsConfig.AllowOrigins) > 0 {
		router.Use(cors.New(corsConfig))
	}

	s := &Server{cfg: cfg, engine: router}

	api := router.Group("/api/v1")
	{
		api.GET("/health", s.health)
		api.POST("/capacity", s.capacity)

		stego := api.Group("/stego")
		{
			stego.POST("/conceal", s.conceal)
			stego.POST("/reveal", s.reveal)
		}
	}
	return s
}

// Handler returns the router for use with net/http or httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on cfg.Server.Addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP API listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("Shutting down HTTP API")
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("Request")
	}
}
