package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/unclebandit/customer-service/internal/config"
	"github.com/unclebandit/customer-service/internal/logger"
	"github.com/unclebandit/customer-service/internal/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(cfg.LogLevel, cfg.AppEnv)

	if cfg.AMQPURL == "" {
		log.Fatal().Msg("AMQP_URL is required for the worker")
	}

	q, err := queue.NewAMQPQueue(cfg.AMQPURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer q.Close()

	if err := queue.StartCustomerEventLogger(q); err != nil {
		log.Fatal().Err(err).Msg("failed to register consumer")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("topic", queue.TopicCustomerEvents).Msg("Worker running, waiting for messages...")
	select {
	case <-ctx.Done():
		log.Info().Msg("worker shutting down")
	case amqpErr := <-q.NotifyClose():
		log.Fatal().Interface("reason", amqpErr).Msg("broker connection closed")
	}
}
