package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modguard/guardrail-relay/internal/setup"
	setuplogger "github.com/modguard/guardrail-relay/internal/setup/logger"
	"github.com/modguard/guardrail-relay/internal/stream"
	streamredis "github.com/modguard/guardrail-relay/internal/stream/redis"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logging: structured JSON for the long-running consumer
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = setuplogger.New(os.Getenv("LOG_LEVEL"))
	logger := log.Logger

	// Load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load Config and wire the guardrail pipeline
	cfg := setup.LoadConfig()
	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to load dependencies")
	}

	streamName := os.Getenv("GUARDRAIL_STREAM")
	if streamName == "" {
		streamName = "guardrail:requests"
	}
	resultsStream := os.Getenv("GUARDRAIL_RESULTS_STREAM")
	if resultsStream == "" {
		resultsStream = "guardrail:results"
	}

	streamCfg := &stream.StreamConfig{
		Provider: os.Getenv("STREAM_PROVIDER"),
		RedisConfig: streamredis.NewRedisStreamConfig(
			os.Getenv("REDIS_ADDR"),
			os.Getenv("REDIS_PASSWORD"),
			streamName,
			resultsStream,
			"guardrail-group",
			os.Getenv("HOSTNAME"),
		),
	}

	consumer, err := stream.NewStreamConsumer(ctx, streamCfg, deps.Executor, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create stream consumer")
	}

	if err := consumer.Setup(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to setup consumer")
	}

	go func() {
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Consumer stopped with error")
		}
	}()

	// Wait for context to be done
	<-ctx.Done()
	logger.Info().Msg("Shutting down...")

	log.Info().Msg("Guardrail stream consumer stopped")
}
