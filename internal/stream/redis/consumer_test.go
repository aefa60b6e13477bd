package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/modguard/guardrail-relay/internal/check"
	"github.com/modguard/guardrail-relay/internal/executor"
	"github.com/modguard/guardrail-relay/internal/models"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type stubRunner struct {
	outcomes []check.Outcome
}

func (s *stubRunner) Run(ctx context.Context, text string, requested map[models.CheckName]bool) []check.Outcome {
	return s.outcomes
}

func newTestConsumer(client *goredis.Client, outcomes []check.Outcome) *Consumer {
	logger := zerolog.Nop()
	enabled := map[models.CheckName]bool{
		models.CheckPromptInjections: true,
		models.CheckFinancialAdvice:  true,
		models.CheckMedical:          true,
	}
	exec := executor.NewExecutor(&stubRunner{outcomes: outcomes}, enabled, nil, "default block", 5*time.Second, &logger)
	return NewConsumer(client, "guardrail:requests", "guardrail:results", "guardrail-group", "consumer-1", exec, &logger)
}

func TestConsumer_Process_PublishesResultAndAcks(t *testing.T) {
	client, mock := redismock.NewClientMock()
	consumer := newTestConsumer(client, []check.Outcome{
		{Name: models.CheckMedical, Verdict: &models.CheckVerdict{}},
	})

	payload := `{"financial_legal_tax_advice":"unmonitored","medical":{"flagged":false},"prompt_injections":"unmonitored","verdict":true}`
	mock.ExpectXAdd(&goredis.XAddArgs{
		Stream: "guardrail:results",
		Values: map[string]any{
			"job_id":  "job-1",
			"payload": payload,
		},
	}).SetVal("1700000000001-0")
	mock.ExpectXAck("guardrail:requests", "guardrail-group", "1700000000000-0").SetVal(1)

	consumer.process(context.Background(), goredis.XMessage{
		ID: "1700000000000-0",
		Values: map[string]any{
			"payload": `{"id":"job-1","text":"what is aspirin?","checks":["medical"]}`,
		},
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet redis expectations: %v", err)
	}
}

func TestConsumer_Process_EvaluationFailurePublishesErrorAndAcks(t *testing.T) {
	client, mock := redismock.NewClientMock()
	consumer := newTestConsumer(client, []check.Outcome{
		{Name: models.CheckMedical, Err: errors.New("connection refused")},
	})

	// The failure outcome is published and the message is acked; nothing
	// reads the pending entries list, so leaving it unacked would strand
	// the job there forever.
	mock.ExpectXAdd(&goredis.XAddArgs{
		Stream: "guardrail:results",
		Values: map[string]any{
			"job_id": "1700000000000-0",
			"error":  "upstream evaluation failed: connection refused",
		},
	}).SetVal("1700000000001-0")
	mock.ExpectXAck("guardrail:requests", "guardrail-group", "1700000000000-0").SetVal(1)

	consumer.process(context.Background(), goredis.XMessage{
		ID: "1700000000000-0",
		Values: map[string]any{
			"payload": `{"id":"job-1","text":"what dosage should I take?","checks":["medical"]}`,
		},
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet redis expectations: %v", err)
	}
}

func TestConsumer_Process_BadPayloadAcksWithoutResult(t *testing.T) {
	client, mock := redismock.NewClientMock()
	consumer := newTestConsumer(client, nil)

	// Undecodable messages are skipped: acked, nothing published.
	mock.ExpectXAck("guardrail:requests", "guardrail-group", "1700000000000-0").SetVal(1)

	consumer.process(context.Background(), goredis.XMessage{
		ID: "1700000000000-0",
		Values: map[string]any{
			"payload": `{"id": `,
		},
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet redis expectations: %v", err)
	}
}

func TestNormalize_RecognizedChecks(t *testing.T) {
	mc, err := normalize(moderationJob{
		ID:     "job-42",
		Text:   "Should I invest in bonds?",
		Checks: []string{"financial_legal_tax_advice", "medical"},
	}, "1700000000000-0")
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}

	if mc.RequestID != "job-42" {
		t.Errorf("Expected job id, got '%s'", mc.RequestID)
	}
	if !mc.Requested[models.CheckFinancialAdvice] || !mc.Requested[models.CheckMedical] {
		t.Errorf("Expected both checks requested, got %v", mc.Requested)
	}
	if mc.Requested[models.CheckPromptInjections] {
		t.Error("Expected prompt_injections not requested")
	}
}

func TestNormalize_FallsBackToMessageID(t *testing.T) {
	mc, err := normalize(moderationJob{
		Text:   "hello",
		Checks: []string{"medical"},
	}, "1700000000000-0")
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if mc.RequestID != "1700000000000-0" {
		t.Errorf("Expected stream message id as request id, got '%s'", mc.RequestID)
	}
}

func TestNormalize_DropsUnknownCheckNames(t *testing.T) {
	mc, err := normalize(moderationJob{
		Text:   "hello",
		Checks: []string{"promptInjections", "toxicity", "medical"},
	}, "1-0")
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if len(mc.Requested) != 1 || !mc.Requested[models.CheckMedical] {
		t.Errorf("Expected only medical requested, got %v", mc.Requested)
	}
}

func TestNormalize_Errors(t *testing.T) {
	if _, err := normalize(moderationJob{Checks: []string{"medical"}}, "1-0"); err == nil {
		t.Error("Expected error for missing text")
	}
	if _, err := normalize(moderationJob{Text: "   ", Checks: []string{"medical"}}, "1-0"); err == nil {
		t.Error("Expected error for blank text")
	}
	if _, err := normalize(moderationJob{Text: "hello", Checks: []string{"promptInjections"}}, "1-0"); err == nil {
		t.Error("Expected error when no check name is recognized")
	}
	if _, err := normalize(moderationJob{Text: "hello"}, "1-0"); err == nil {
		t.Error("Expected error for empty checks list")
	}
}
