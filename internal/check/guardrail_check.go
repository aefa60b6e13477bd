package check

import (
	"context"
	"fmt"
	"time"

	"github.com/modguard/guardrail-relay/internal/config"
	"github.com/modguard/guardrail-relay/internal/evaluator"
	"github.com/modguard/guardrail-relay/internal/models"
	"github.com/rs/zerolog"
)

// GuardrailCheck is the config-driven check implementation: it forwards
// the text to the upstream evaluator under its canonical identifier and
// maps the provider verdict into the caller's shape. Errors propagate;
// a failed upstream call fails the whole request, never a partial one.
type GuardrailCheck struct {
	name      models.CheckName
	kind      models.CheckKind
	assertion string
	evaluator evaluator.Evaluator
	logger    *zerolog.Logger
}

func NewGuardrailCheck(
	checkCfg config.CheckConfiguration,
	ev evaluator.Evaluator,
	logger *zerolog.Logger,
) (*GuardrailCheck, error) {
	name, ok := models.ParseCheckName(checkCfg.Name)
	if !ok {
		return nil, fmt.Errorf("unknown check name: %s", checkCfg.Name)
	}

	kind := models.CheckKind(checkCfg.Kind)
	if kind == models.KindAssertion && checkCfg.Assertion == "" {
		return nil, fmt.Errorf("check %s requires an assertion text", checkCfg.Name)
	}

	return &GuardrailCheck{
		name:      name,
		kind:      kind,
		assertion: checkCfg.Assertion,
		evaluator: ev,
		logger:    logger,
	}, nil
}

func (c *GuardrailCheck) Name() models.CheckName {
	return c.name
}

func (c *GuardrailCheck) Evaluate(ctx context.Context, text string) (*models.CheckVerdict, error) {
	now := time.Now()

	verdict, err := c.evaluator.Evaluate(ctx, evaluator.Request{
		Check:     c.name,
		Kind:      c.kind,
		Assertion: c.assertion,
		Text:      text,
	})
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("check", string(c.name)).
			Msg("upstream evaluation failed")
		return nil, fmt.Errorf("check %s: %w", c.name, err)
	}

	c.logger.Info().
		Str("check", string(c.name)).
		Bool("flagged", verdict.Flagged).
		Float64("score", verdict.Score).
		Dur("duration", time.Since(now)).
		Msg("check completed")

	return &models.CheckVerdict{
		Flagged: verdict.Flagged,
		Reason:  verdict.Reason,
	}, nil
}
