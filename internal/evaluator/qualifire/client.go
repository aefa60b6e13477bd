package qualifire

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/modguard/guardrail-relay/internal/evaluator"
	"github.com/modguard/guardrail-relay/internal/models"
	"github.com/rs/zerolog"
)

const DefaultEvalURL = "https://api.qualifire.ai/api/v1/evaluation/evaluate"

const (
	defaultAssertionsMode = "balanced"
	defaultPolicyTarget   = "both"
)

// Scores at or below this mark the content as flagged even when the
// status field does not say fail.
const flaggedScoreCeiling = 50.0

// Client evaluates guardrail checks against the Qualifire evaluate API.
// It holds no connections: each Evaluate call builds its own scoped
// http.Client and releases it on every exit path.
type Client struct {
	apiKey         string
	evalURL        string
	assertionsMode string
	policyTarget   string
	timeout        time.Duration
	logger         *zerolog.Logger
}

func NewClient(apiKey string, evalURL string, timeout time.Duration, logger *zerolog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("qualifire API key is required")
	}
	if evalURL == "" {
		evalURL = DefaultEvalURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		apiKey:         apiKey,
		evalURL:        evalURL,
		assertionsMode: defaultAssertionsMode,
		policyTarget:   defaultPolicyTarget,
		timeout:        timeout,
		logger:         logger,
	}, nil
}

func (c *Client) Evaluate(ctx context.Context, request evaluator.Request) (*evaluator.Verdict, error) {
	payload := evaluationRequest{
		Messages: []message{
			{Role: "user", Content: request.Text},
			{Role: "assistant", Content: ""},
		},
	}

	switch request.Kind {
	case models.KindPromptInjection:
		payload.PromptInjections = true
	case models.KindAssertion:
		payload.Assertions = []string{request.Assertion}
		payload.AssertionsMode = c.assertionsMode
		payload.PolicyTarget = c.policyTarget
	default:
		return nil, fmt.Errorf("unsupported check kind: %s", request.Kind)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("unable to serialize evaluate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.evalURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("unable to build evaluate request: %w", err)
	}
	req.Header.Set("X-Qualifire-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	httpClient := &http.Client{Timeout: c.timeout}
	defer httpClient.CloseIdleConnections()

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("evaluate call failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("check", string(request.Check)).
		Int("status_code", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("evaluate call returned")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("evaluate call returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read evaluate response: %w", err)
	}

	var result evaluationResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("malformed evaluate response: %w", err)
	}

	return interpret(result), nil
}

// interpret applies the provider's verdict rule: flagged when status is
// fail/failed or the overall score is at or below the ceiling. The
// reason comes from the first failing sub-result.
func interpret(result evaluationResponse) *evaluator.Verdict {
	verdict := &evaluator.Verdict{}
	if result.Score != nil {
		verdict.Score = *result.Score
	}

	status := strings.ToLower(result.Status)
	if status == "fail" || status == "failed" {
		verdict.Flagged = true
	}
	if result.Score != nil && *result.Score <= flaggedScoreCeiling {
		verdict.Flagged = true
	}

	if verdict.Flagged {
		verdict.Reason = failureReason(result)
	}

	return verdict
}

func failureReason(result evaluationResponse) string {
	for _, evalResult := range result.EvaluationResults {
		for _, sub := range evalResult.Results {
			if !subResultFailed(sub) {
				continue
			}
			if sub.Reason != "" {
				return sub.Reason
			}
			if sub.Name != "" {
				return fmt.Sprintf("%s check failed", sub.Name)
			}
		}
	}
	return "content flagged by evaluation policy"
}

func subResultFailed(sub subResult) bool {
	switch strings.ToLower(sub.Label) {
	case "fail", "unsafe", "detected", "true":
		return true
	}
	return sub.Score != nil && *sub.Score < flaggedScoreCeiling
}
