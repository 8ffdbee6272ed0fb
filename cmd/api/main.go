package main

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/creser-psicologia/creser-api/internal/cache"
	"github.com/creser-psicologia/creser-api/internal/config"
	"github.com/creser-psicologia/creser-api/internal/db"
	"github.com/creser-psicologia/creser-api/internal/logger"
	"github.com/creser-psicologia/creser-api/internal/middleware"
	"github.com/creser-psicologia/creser-api/internal/payments"
	"github.com/creser-psicologia/creser-api/internal/routes"
)

func main() {
	logger.Init()

	cfg := config.Load()
	database := db.NewDB(cfg)

	sessions := cache.New(cfg)
	gateway := payments.NewGateway(cfg)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware())
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Proofs saved to local disk are served directly; S3 objects are not.
	if cfg.S3Bucket == "" {
		r.Static("/uploads", cfg.UploadDir)
	}

	routes.RegisterRoutes(r, database, cfg, sessions, gateway)

	log.Info().Str("addr", cfg.Addr()).Msg("starting server")
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
