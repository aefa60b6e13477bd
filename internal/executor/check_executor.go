package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modguard/guardrail-relay/internal/check"
	"github.com/modguard/guardrail-relay/internal/models"
	"github.com/modguard/guardrail-relay/internal/translator"
	"github.com/rs/zerolog"
)

type CheckFactory interface {
	Get(name string) (check.Check, error)
}

var ErrCheckNotFound = errors.New("check not found")

// CheckExecutor runs exactly one named check against the text. The
// response keeps the full outbound shape: the other checks come back
// unmonitored.
type CheckExecutor struct {
	checks               CheckFactory
	blockResponses       map[models.CheckName]string
	defaultBlockResponse string
	timeout              time.Duration
	logger               *zerolog.Logger
}

func NewCheckExecutor(
	checks CheckFactory,
	blockResponses map[models.CheckName]string,
	defaultBlockResponse string,
	timeout time.Duration,
	logger *zerolog.Logger,
) *CheckExecutor {
	return &CheckExecutor{
		checks:               checks,
		blockResponses:       blockResponses,
		defaultBlockResponse: defaultBlockResponse,
		timeout:              timeout,
		logger:               logger,
	}
}

func (e *CheckExecutor) Execute(ctx context.Context, checkName string, mc models.ModerationContext) (models.GuardrailResponse, error) {
	e.logger.Info().
		Str("requestID", mc.RequestID).
		Str("check", checkName).
		Msg("starting single-check evaluation")

	chk, err := e.checks.Get(checkName)
	if err != nil {
		e.logger.Error().Err(err).Str("check", checkName).Msg("check not found")
		return nil, ErrCheckNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	verdict, err := chk.Evaluate(ctx, mc.Text)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	requested := map[models.CheckName]bool{chk.Name(): true}
	verdicts := map[models.CheckName]*models.CheckVerdict{chk.Name(): verdict}

	return translator.Compose(requested, verdicts, e.blockResponses, e.defaultBlockResponse), nil
}
