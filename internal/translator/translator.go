package translator

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/modguard/guardrail-relay/internal/models"
)

var (
	ErrMissingText        = errors.New("text is required and must be a non-empty string")
	ErrNoRecognizedChecks = errors.New("no recognized guardrail check keys in request")
	ErrNonBooleanFlag     = errors.New("guardrail check flag must be a boolean")
)

// ParseRequest decodes an inbound guardrail payload and resolves the
// requested checks against the allow-list. Unrecognized keys, including
// camelCase variants of known checks, are dropped here, which is the
// documented legacy contract: those checks come back "unmonitored", never
// an error. A recognized key bound to a non-boolean value is a validation
// error.
func ParseRequest(body []byte) (models.ModerationContext, error) {
	mc := models.ModerationContext{
		Requested: make(map[models.CheckName]bool),
		CreatedAt: time.Now(),
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return mc, fmt.Errorf("invalid request body: %w", err)
	}

	text, ok := raw["text"].(string)
	if !ok || text == "" {
		return mc, ErrMissingText
	}
	mc.Text = text

	for _, name := range models.CanonicalChecks() {
		value, present := raw[string(name)]
		if !present {
			continue
		}
		flag, ok := value.(bool)
		if !ok {
			return mc, fmt.Errorf("%w: %s", ErrNonBooleanFlag, name)
		}
		mc.Requested[name] = flag
	}

	if len(mc.Requested) == 0 {
		return mc, ErrNoRecognizedChecks
	}

	return mc, nil
}

// Compose builds the outbound response from the per-check verdicts.
// Every canonical check appears: requested checks carry their verdict,
// the rest the "unmonitored" marker. The overall verdict is false when
// any requested check flagged, and the block response of the first
// flagged check (canonical order) is attached as revised_response.
func Compose(
	requested map[models.CheckName]bool,
	verdicts map[models.CheckName]*models.CheckVerdict,
	blockResponses map[models.CheckName]string,
	defaultBlockResponse string,
) models.GuardrailResponse {
	resp := models.GuardrailResponse{}

	allowed := true
	revised := ""

	for _, name := range models.CanonicalChecks() {
		verdict := verdicts[name]
		if !requested[name] || verdict == nil {
			resp[string(name)] = models.StatusUnmonitored
			continue
		}

		resp[string(name)] = verdict

		if verdict.Flagged && allowed {
			allowed = false
			revised = blockResponses[name]
			if revised == "" {
				revised = defaultBlockResponse
			}
		}
	}

	resp["verdict"] = allowed
	if !allowed {
		resp["revised_response"] = revised
	}

	return resp
}
