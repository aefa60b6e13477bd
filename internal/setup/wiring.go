package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/modguard/guardrail-relay/internal/check"
	"github.com/modguard/guardrail-relay/internal/config"
	"github.com/modguard/guardrail-relay/internal/evaluator"
	"github.com/modguard/guardrail-relay/internal/evaluator/bedrockguard"
	"github.com/modguard/guardrail-relay/internal/evaluator/qualifire"
	"github.com/modguard/guardrail-relay/internal/executor"
	"github.com/modguard/guardrail-relay/internal/models"
	"github.com/rs/zerolog"
)

type Config struct {
	WebhookSecret           string
	QualifireAPIKey         string
	QualifireEvalURL        string
	Provider                string
	AWSRegion               string
	BedrockGuardrailID      string
	BedrockGuardrailVersion string
	UpstreamTimeout         time.Duration
}

type Dependencies struct {
	Executor      *executor.Executor
	CheckExecutor *executor.CheckExecutor
	Logger        *zerolog.Logger
	Provider      string
	CheckCount    int
	APIKeySet     bool
}

func LoadConfig() *Config {
	return &Config{
		WebhookSecret:           getEnv("WEBHOOK_SECRET", ""),
		QualifireAPIKey:         getEnv("QUALIFIRE_API_KEY", ""),
		QualifireEvalURL:        getEnv("QUALIFIRE_EVAL_URL", qualifire.DefaultEvalURL),
		Provider:                getEnv("GUARDRAIL_PROVIDER", "qualifire"),
		AWSRegion:               getEnv("AWS_REGION", "us-east-1"),
		BedrockGuardrailID:      getEnv("BEDROCK_GUARDRAIL_ID", ""),
		BedrockGuardrailVersion: getEnv("BEDROCK_GUARDRAIL_VERSION", "1"),
		UpstreamTimeout:         time.Duration(getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 15)) * time.Second,
	}
}

func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	ev, err := createEvaluator(ctx, cfg.Provider, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluator: %w", err)
	}

	// Load checks configuration from YAML
	checksConfig, err := config.LoadChecksConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load checks config: %w", err)
	}

	// Build check pool from config
	pool := check.NewPool(ev, logger)
	checks, err := pool.BuildFromConfig(checksConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build checks from config: %w", err)
	}

	runner := check.NewRunner(checks)
	factory := check.NewFactory(checks)

	enabled := make(map[models.CheckName]bool)
	for _, chk := range checks {
		enabled[chk.Name()] = true
	}

	blockResponses, defaultBlock := blockMessages(checksConfig)

	exec := executor.NewExecutor(runner, enabled, blockResponses, defaultBlock, cfg.UpstreamTimeout, logger)
	checkExec := executor.NewCheckExecutor(factory, blockResponses, defaultBlock, cfg.UpstreamTimeout, logger)

	return &Dependencies{
		Executor:      exec,
		CheckExecutor: checkExec,
		Logger:        logger,
		Provider:      cfg.Provider,
		CheckCount:    len(checks),
		APIKeySet:     cfg.QualifireAPIKey != "",
	}, nil
}

func blockMessages(cfg *config.ChecksConfig) (map[models.CheckName]string, string) {
	blocks := make(map[models.CheckName]string)
	for _, checkCfg := range cfg.Checks {
		name, ok := models.ParseCheckName(checkCfg.Name)
		if !ok {
			continue
		}
		blocks[name] = checkCfg.BlockResponse
	}
	return blocks, cfg.Defaults.BlockResponse
}

func createEvaluator(ctx context.Context, provider string, cfg *Config, logger *zerolog.Logger) (evaluator.Evaluator, error) {
	switch provider {
	case "bedrock":
		return bedrockguard.NewClient(ctx, cfg.AWSRegion, cfg.BedrockGuardrailID, cfg.BedrockGuardrailVersion, logger)
	case "qualifire":
		return qualifire.NewClient(cfg.QualifireAPIKey, cfg.QualifireEvalURL, cfg.UpstreamTimeout, logger)
	default:
		return qualifire.NewClient(cfg.QualifireAPIKey, cfg.QualifireEvalURL, cfg.UpstreamTimeout, logger)
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		value = defaultValue
	}

	return value
}
