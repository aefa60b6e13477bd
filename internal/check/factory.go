package check

import (
	"fmt"

	"github.com/modguard/guardrail-relay/internal/models"
)

// Factory indexes checks by name for single-check execution.
type Factory struct {
	checks map[models.CheckName]Check
}

func NewFactory(checks []Check) *Factory {
	byName := make(map[models.CheckName]Check)
	for _, c := range checks {
		byName[c.Name()] = c
	}

	return &Factory{
		checks: byName,
	}
}

func (f *Factory) Get(name string) (Check, error) {
	checkName, ok := models.ParseCheckName(name)
	if !ok {
		return nil, fmt.Errorf("check not found")
	}

	chk, exist := f.checks[checkName]
	if !exist {
		return nil, fmt.Errorf("check not found")
	}

	return chk, nil
}
