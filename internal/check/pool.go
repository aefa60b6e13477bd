package check

import (
	"fmt"

	"github.com/modguard/guardrail-relay/internal/config"
	"github.com/modguard/guardrail-relay/internal/evaluator"
	"github.com/rs/zerolog"
)

// Pool builds the collection of guardrail checks from configuration
type Pool struct {
	evaluator evaluator.Evaluator
	logger    *zerolog.Logger
}

func NewPool(ev evaluator.Evaluator, logger *zerolog.Logger) *Pool {
	return &Pool{
		evaluator: ev,
		logger:    logger,
	}
}

func (p *Pool) BuildFromConfig(cfg *config.ChecksConfig) ([]Check, error) {
	if cfg == nil {
		return nil, fmt.Errorf("checks config is nil")
	}

	var checks []Check

	for _, checkCfg := range cfg.Checks {
		if !checkCfg.Enabled {
			p.logger.Info().
				Str("check", checkCfg.Name).
				Msg("check disabled in config, skipping")
			continue
		}

		chk, err := NewGuardrailCheck(checkCfg, p.evaluator, p.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create check %s: %w", checkCfg.Name, err)
		}

		checks = append(checks, chk)

		p.logger.Info().
			Str("check", checkCfg.Name).
			Str("kind", checkCfg.Kind).
			Msg("check created successfully")
	}

	if len(checks) == 0 {
		return nil, fmt.Errorf("no enabled checks found in config")
	}

	p.logger.Info().
		Int("total_checks", len(checks)).
		Msg("check pool built successfully")

	return checks, nil
}
