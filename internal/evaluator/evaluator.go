package evaluator

import (
	"context"

	"github.com/modguard/guardrail-relay/internal/models"
)

// Evaluator invokes one guardrail evaluation against the upstream
// provider. This is an interface so tests can substitute a counting mock
// without making real API calls.
//
// Calls are single-shot on purpose: moderation calls are billed and the
// upstream does not guarantee idempotency, so no retry wrapper exists.
type Evaluator interface {
	Evaluate(ctx context.Context, request Request) (*Verdict, error)
}

// Request describes one check evaluation.
type Request struct {
	Check     models.CheckName
	Kind      models.CheckKind
	Assertion string
	Text      string
}

// Verdict is the provider's outcome for one check.
type Verdict struct {
	Flagged bool
	Reason  string
	Score   float64
}
