package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modguard/guardrail-relay/internal/executor/mocks"
	"github.com/modguard/guardrail-relay/internal/models"
	"go.uber.org/mock/gomock"
)

type stubCheck struct {
	name    models.CheckName
	verdict *models.CheckVerdict
	err     error
}

func (s *stubCheck) Name() models.CheckName {
	return s.name
}

func (s *stubCheck) Evaluate(ctx context.Context, text string) (*models.CheckVerdict, error) {
	return s.verdict, s.err
}

func newTestCheckExecutor(factory CheckFactory) *CheckExecutor {
	return NewCheckExecutor(factory, nil, "default block", 5*time.Second, testLogger())
}

func TestCheckExecutor_Execute_SingleCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFactory := mocks.NewMockCheckFactory(ctrl)
	mockFactory.EXPECT().
		Get("medical").
		Return(&stubCheck{
			name:    models.CheckMedical,
			verdict: &models.CheckVerdict{Flagged: true, Reason: "dosage advice"},
		}, nil)

	exec := newTestCheckExecutor(mockFactory)

	resp, err := exec.Execute(context.Background(), "medical", models.ModerationContext{
		Text: "what dosage should I take?",
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	verdict, ok := resp["medical"].(*models.CheckVerdict)
	if !ok || !verdict.Flagged {
		t.Errorf("Expected flagged medical verdict, got %v", resp["medical"])
	}
	if resp["prompt_injections"] != models.StatusUnmonitored {
		t.Errorf("Expected prompt_injections unmonitored, got %v", resp["prompt_injections"])
	}
	if resp["financial_legal_tax_advice"] != models.StatusUnmonitored {
		t.Errorf("Expected financial_legal_tax_advice unmonitored, got %v", resp["financial_legal_tax_advice"])
	}
	if resp["verdict"] != false {
		t.Errorf("Expected overall verdict false, got %v", resp["verdict"])
	}
	if resp["revised_response"] != "default block" {
		t.Errorf("Expected default block response, got %v", resp["revised_response"])
	}
}

func TestCheckExecutor_Execute_UnknownCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFactory := mocks.NewMockCheckFactory(ctrl)
	mockFactory.EXPECT().
		Get("promptInjections").
		Return(nil, errors.New("check not found"))

	exec := newTestCheckExecutor(mockFactory)

	_, err := exec.Execute(context.Background(), "promptInjections", models.ModerationContext{Text: "hello"})
	if !errors.Is(err, ErrCheckNotFound) {
		t.Errorf("Expected ErrCheckNotFound, got %v", err)
	}
}

func TestCheckExecutor_Execute_UpstreamError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockFactory := mocks.NewMockCheckFactory(ctrl)
	mockFactory.EXPECT().
		Get("medical").
		Return(&stubCheck{
			name: models.CheckMedical,
			err:  errors.New("connection refused"),
		}, nil)

	exec := newTestCheckExecutor(mockFactory)

	_, err := exec.Execute(context.Background(), "medical", models.ModerationContext{Text: "hello"})
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("Expected ErrUpstream, got %v", err)
	}
}
