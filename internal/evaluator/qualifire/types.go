package qualifire

// Wire types for the evaluate API. Field names follow the provider's
// contract, not ours.

type evaluationRequest struct {
	PromptInjections bool      `json:"prompt_injections,omitempty"`
	Assertions       []string  `json:"assertions,omitempty"`
	AssertionsMode   string    `json:"assertions_mode,omitempty"`
	PolicyTarget     string    `json:"policy_target,omitempty"`
	Messages         []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type evaluationResponse struct {
	Status            string             `json:"status"`
	Score             *float64           `json:"score"`
	EvaluationResults []evaluationResult `json:"evaluationResults"`
}

type evaluationResult struct {
	Type    string      `json:"type"`
	Results []subResult `json:"results"`
}

type subResult struct {
	Name   string   `json:"name"`
	Label  string   `json:"label"`
	Score  *float64 `json:"score"`
	Reason string   `json:"reason"`
}
