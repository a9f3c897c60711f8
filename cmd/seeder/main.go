// cmd/seeder/main.go
package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/unclebandit/customer-service/internal/config"
	"github.com/unclebandit/customer-service/internal/db"
	"github.com/unclebandit/customer-service/internal/logger"
	"github.com/unclebandit/customer-service/internal/repository"
	"github.com/unclebandit/customer-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(cfg.LogLevel, cfg.AppEnv)

	ctx := context.Background()

	conn, err := db.Open(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to DB")
	}
	defer conn.Close()

	if err := db.Migrate(ctx, conn, cfg.DB.Driver); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate DB")
	}

	seeded, err := service.NewSeeder(repository.NewCustomerRepository(conn, cfg.DB.Driver)).Seed(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}

	for _, c := range seeded {
		log.Info().Int64("id", c.ID).Str("email", c.Email).Msg("Seeded")
	}
}
