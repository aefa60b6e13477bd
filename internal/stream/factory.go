package stream

import (
	"context"
	"fmt"

	"github.com/modguard/guardrail-relay/internal/executor"
	internalredis "github.com/modguard/guardrail-relay/internal/redis"
	streamredis "github.com/modguard/guardrail-relay/internal/stream/redis"
	"github.com/rs/zerolog"
)

type StreamConfig struct {
	Provider    string // redis today; kafka/sqs are candidates
	RedisConfig *streamredis.RedisStreamConfig
}

func NewStreamConsumer(
	ctx context.Context,
	cfg *StreamConfig,
	exec *executor.Executor,
	logger *zerolog.Logger,
) (StreamConsumer, error) {

	// If provider is empty, fallback to the default configuration.
	provider := cfg.Provider
	if provider == "" {
		provider = "redis"
	}

	switch provider {
	case "redis":
		if cfg.RedisConfig == nil {
			return nil, fmt.Errorf("redis config required")
		}

		client, err := internalredis.ConnectRedis(
			ctx,
			cfg.RedisConfig.RedisAddr,
			cfg.RedisConfig.RedisPassword,
			5,
			logger,
		)
		if err != nil {
			return nil, err
		}

		return streamredis.NewConsumer(
			client,
			cfg.RedisConfig.Stream,
			cfg.RedisConfig.ResultsStream,
			cfg.RedisConfig.Group,
			cfg.RedisConfig.ConsumerName,
			exec,
			logger,
		), nil

	default:
		return nil, fmt.Errorf("unsupported stream provider: %s", provider)
	}
}
