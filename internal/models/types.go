package models

import (
	"time"
)

// CheckName identifies a guardrail check. The set is closed: callers must
// send these exact snake_case names, any other key is ignored by contract.
type CheckName string

const (
	CheckPromptInjections CheckName = "prompt_injections"
	CheckFinancialAdvice  CheckName = "financial_legal_tax_advice"
	CheckMedical          CheckName = "medical"
)

// CanonicalChecks returns every recognized check in response order. The
// order also decides which block response wins when several checks flag.
func CanonicalChecks() []CheckName {
	return []CheckName{
		CheckPromptInjections,
		CheckFinancialAdvice,
		CheckMedical,
	}
}

// ParseCheckName matches a raw key against the allow-list. Matching is
// exact: a camelCase rendition of a known check does not parse.
func ParseCheckName(raw string) (CheckName, bool) {
	for _, name := range CanonicalChecks() {
		if raw == string(name) {
			return name, true
		}
	}
	return "", false
}

type CheckKind string

const (
	KindPromptInjection CheckKind = "prompt_injection"
	KindAssertion       CheckKind = "assertion"
)

// StatusUnmonitored marks a check that was not evaluated this call,
// either because it was not requested or requested under an
// unrecognized key.
const StatusUnmonitored = "unmonitored"

// CheckVerdict is the upstream outcome for one evaluated check.
type CheckVerdict struct {
	Flagged bool   `json:"flagged"`
	Reason  string `json:"reason,omitempty"`
}

// Normalized internal object, built once per request.
type ModerationContext struct {
	RequestID string
	Text      string
	Requested map[CheckName]bool
	CreatedAt time.Time
}

// GuardrailResponse maps every canonical check name to either a
// *CheckVerdict or the StatusUnmonitored marker, plus the top-level
// "verdict" and, when blocked, "revised_response" keys. A plain map so
// json.Marshal emits sorted keys and identical inputs serialize to
// identical bytes.
type GuardrailResponse map[string]any
