package main

import (
	"context"

	"condo/config"
	"condo/di"
	"condo/helper"
	"condo/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Condo Booking API
// @version 1.0
// @description Short-stay booking engine for condominium units.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.Configure(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Runner(cfg, helper.ActionUp); err != nil {
			log.Fatal().Err(err).Msg("failed to apply migrations")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := di.InitializeApp()

	app.Scheduler.Start(ctx)
	app.HTTP.RegisterOnShutdown(app.Scheduler.Stop)

	app.HTTP.Serve()
}
