package check

import (
	"context"
	"sync"

	"github.com/modguard/guardrail-relay/internal/models"
)

// Outcome is one check's result after the fan-out join. Err is set when
// the upstream call failed; Verdict and Err are mutually exclusive.
type Outcome struct {
	Name    models.CheckName
	Verdict *models.CheckVerdict
	Err     error
}

// Runner fans the requested checks out concurrently and joins before
// returning. Checks are independent: one failing does not stop the
// others, the caller decides what a failure means for the request.
type Runner struct {
	Checks []Check
}

func NewRunner(checks []Check) *Runner {
	return &Runner{
		Checks: checks,
	}
}

func (r *Runner) Run(ctx context.Context, text string, requested map[models.CheckName]bool) []Outcome {
	results := make(chan Outcome, len(r.Checks))
	var wg sync.WaitGroup

	for _, chk := range r.Checks {
		if !requested[chk.Name()] {
			continue
		}
		wg.Add(1)
		go func(c Check) {
			defer wg.Done()
			verdict, err := c.Evaluate(ctx, text)
			results <- Outcome{Name: c.Name(), Verdict: verdict, Err: err}
		}(chk)
	}

	wg.Wait()
	close(results)

	var outcomes []Outcome
	for outcome := range results {
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}
