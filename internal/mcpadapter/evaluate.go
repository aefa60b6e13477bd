package mcpadapter

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/modguard/guardrail-relay/internal/executor"
	"github.com/modguard/guardrail-relay/internal/models"
)

// EvaluateInput is the MCP tool input schema.
type EvaluateInput struct {
	Text   string   `json:"text" jsonschema:"text to run the guardrail checks against"`
	Checks []string `json:"checks" jsonschema:"check names: prompt_injections, financial_legal_tax_advice, medical"`
}

// NewEvaluateHandler returns a tool handler that uses the given executor.
// Pass the returned function to mcp.AddTool.
func NewEvaluateHandler(exec *executor.Executor) func(context.Context, *mcp.CallToolRequest, EvaluateInput) (*mcp.CallToolResult, models.GuardrailResponse, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input EvaluateInput) (*mcp.CallToolResult, models.GuardrailResponse, error) {
		return EvaluateGuardrails(ctx, exec, req, input)
	}
}

// EvaluateGuardrails runs the requested checks and returns the outbound
// response map. Unknown check names are ignored, same rule as the HTTP
// path; a request with none recognized is an error.
func EvaluateGuardrails(
	ctx context.Context,
	exec *executor.Executor,
	req *mcp.CallToolRequest,
	input EvaluateInput,
) (*mcp.CallToolResult, models.GuardrailResponse, error) {
	if input.Text == "" {
		return nil, nil, fmt.Errorf("text is required")
	}

	requested := make(map[models.CheckName]bool)
	for _, raw := range input.Checks {
		if name, ok := models.ParseCheckName(raw); ok {
			requested[name] = true
		}
	}
	if len(requested) == 0 {
		return nil, nil, fmt.Errorf("no recognized check names")
	}

	mc := models.ModerationContext{
		Text:      input.Text,
		Requested: requested,
		CreatedAt: time.Now(),
	}

	result, err := exec.Execute(ctx, mc)
	if err != nil {
		return nil, nil, err
	}
	return nil, result, nil
}
