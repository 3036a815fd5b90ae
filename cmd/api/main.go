package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recipefinder/backend/config"
	"github.com/pageza/recipefinder/backend/internal/assets"
	"github.com/pageza/recipefinder/backend/internal/database"
	"github.com/pageza/recipefinder/backend/internal/logging"
	"github.com/pageza/recipefinder/backend/internal/router"
	"github.com/pageza/recipefinder/backend/internal/server"
	"github.com/pageza/recipefinder/backend/internal/service"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close(db)

	if cfg.Database.AutoMigrate {
		if _, err := database.MigrateGorm(ctx, db); err != nil {
			logging.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = database.NewRedisClient(cfg.Redis)
		if err != nil {
			// Continue with per-process rate limits if Redis is not available
			logging.Warn().Err(err).Msg("redis unavailable, using in-process rate limiting")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	resolver, err := assets.New(ctx, cfg.Assets)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to configure image URLs")
	}

	engine := router.SetupRouter(router.Dependencies{
		Config:   cfg,
		DB:       db,
		Redis:    redisClient,
		Recipes:  service.NewRecipeService(db),
		Resolver: resolver,
	})

	srv := server.New(cfg.Server, engine)
	if err := srv.Run(ctx); err != nil {
		logging.Error().Err(err).Msg("server error")
		return
	}
	logging.Info().Msg("server stopped")
}
