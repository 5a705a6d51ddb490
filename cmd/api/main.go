package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Igsankya24/krishna-tech-solutions/internal/config"
	dbpkg "github.com/Igsankya24/krishna-tech-solutions/internal/db"
	"github.com/Igsankya24/krishna-tech-solutions/internal/events"
	"github.com/Igsankya24/krishna-tech-solutions/internal/logger"
	"github.com/Igsankya24/krishna-tech-solutions/internal/routes"
	"github.com/Igsankya24/krishna-tech-solutions/internal/secrets"
)

func main() {

	_ = godotenv.Load()

	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	db := dbpkg.NewDB(cfg)

	box, err := secrets.NewBox(cfg.CredentialKey)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid CREDENTIAL_KEY")
	}

	deps := routes.Deps{Box: box}

	// The change feed is optional; without Redis the dashboard just polls.
	if cfg.RedisAddr != "" {
		client, err := events.Connect(context.Background(), events.Config{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, change feed disabled")
		} else {
			deps.Publisher = events.NewPublisher(client)
			deps.Subscriber = events.NewSubscriber(client)
		}
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, db, cfg, deps)

	log.Info().Str("addr", cfg.Addr()).Str("env", cfg.Env).Msg("server starting")
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
