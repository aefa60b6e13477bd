package check

import (
	"context"

	"github.com/modguard/guardrail-relay/internal/models"
)

type Check interface {
	Name() models.CheckName
	Evaluate(ctx context.Context, text string) (*models.CheckVerdict, error)
}
