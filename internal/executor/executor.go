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

var (
	// ErrUpstream marks a failed upstream evaluation: network error,
	// non-2xx status or malformed payload. Surfaced as a gateway failure.
	ErrUpstream = errors.New("upstream evaluation failed")
	// ErrUpstreamTimeout marks an evaluation that hit the per-request
	// deadline. Surfaced as a gateway timeout.
	ErrUpstreamTimeout = errors.New("upstream evaluation timed out")
	// ErrCheckDisabled marks a request for a recognized check that this
	// deployment has disabled. Every recognized check requested true must
	// get a definite verdict, so the request is rejected up front rather
	// than reported unmonitored.
	ErrCheckDisabled = errors.New("requested check is not enabled")
)

// CheckRunner fans requested checks out and joins their outcomes.
type CheckRunner interface {
	Run(ctx context.Context, text string, requested map[models.CheckName]bool) []check.Outcome
}

// Executor runs one moderation request end to end: fan the requested
// checks out, join, and compose the outbound response. There is no
// partial-success mode; the caller expects one verdict set per call, so
// any check error fails the request.
type Executor struct {
	runner               CheckRunner
	enabled              map[models.CheckName]bool
	blockResponses       map[models.CheckName]string
	defaultBlockResponse string
	timeout              time.Duration
	logger               *zerolog.Logger
}

func NewExecutor(
	runner CheckRunner,
	enabled map[models.CheckName]bool,
	blockResponses map[models.CheckName]string,
	defaultBlockResponse string,
	timeout time.Duration,
	logger *zerolog.Logger,
) *Executor {
	return &Executor{
		runner:               runner,
		enabled:              enabled,
		blockResponses:       blockResponses,
		defaultBlockResponse: defaultBlockResponse,
		timeout:              timeout,
		logger:               logger,
	}
}

func (e *Executor) Execute(ctx context.Context, mc models.ModerationContext) (models.GuardrailResponse, error) {
	e.logger.Info().
		Str("requestID", mc.RequestID).
		Int("text_len", len(mc.Text)).
		Int("requested", len(mc.Requested)).
		Msg("starting guardrail evaluation")

	for name, on := range mc.Requested {
		if on && !e.enabled[name] {
			return nil, fmt.Errorf("%w: %s", ErrCheckDisabled, name)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	outcomes := e.runner.Run(ctx, mc.Text, mc.Requested)

	verdicts := make(map[models.CheckName]*models.CheckVerdict)
	var firstErr error
	timedOut := false

	for _, outcome := range outcomes {
		if outcome.Err != nil {
			if errors.Is(outcome.Err, context.DeadlineExceeded) {
				timedOut = true
			}
			if firstErr == nil {
				firstErr = outcome.Err
			}
			continue
		}
		verdicts[outcome.Name] = outcome.Verdict
	}

	if timedOut {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamTimeout, firstErr)
	}
	if firstErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, firstErr)
	}

	response := translator.Compose(mc.Requested, verdicts, e.blockResponses, e.defaultBlockResponse)

	e.logger.Info().
		Str("requestID", mc.RequestID).
		Interface("verdict", response["verdict"]).
		Msg("guardrail evaluation complete")

	return response, nil
}
