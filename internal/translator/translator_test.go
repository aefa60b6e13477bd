package translator

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modguard/guardrail-relay/internal/models"
)

func TestParseRequest_RecognizedChecks(t *testing.T) {
	body := []byte(`{"text": "Should I invest in bonds?", "financial_legal_tax_advice": true, "medical": false}`)

	mc, err := ParseRequest(body)
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}

	if mc.Text != "Should I invest in bonds?" {
		t.Errorf("Expected text to be preserved, got '%s'", mc.Text)
	}
	if !mc.Requested[models.CheckFinancialAdvice] {
		t.Error("Expected financial_legal_tax_advice to be requested")
	}
	if mc.Requested[models.CheckMedical] {
		t.Error("Expected medical flag to be false")
	}
	if _, present := mc.Requested[models.CheckPromptInjections]; present {
		t.Error("Expected absent prompt_injections key to stay absent")
	}
}

func TestParseRequest_CamelCaseKeysIgnored(t *testing.T) {
	// Wrong-case keys are not an error: the legacy contract reports those
	// checks as unmonitored.
	body := []byte(`{"text": "hello", "promptInjections": true, "medical": true}`)

	mc, err := ParseRequest(body)
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}

	if _, present := mc.Requested[models.CheckPromptInjections]; present {
		t.Error("Expected camelCase promptInjections to be ignored")
	}
	if !mc.Requested[models.CheckMedical] {
		t.Error("Expected medical to be requested")
	}
}

func TestParseRequest_OnlyUnrecognizedKeys(t *testing.T) {
	body := []byte(`{"text": "hello", "promptInjections": true, "financialLegalTaxAdvice": true}`)

	_, err := ParseRequest(body)
	if !errors.Is(err, ErrNoRecognizedChecks) {
		t.Errorf("Expected ErrNoRecognizedChecks, got %v", err)
	}
}

func TestParseRequest_MissingText(t *testing.T) {
	for _, body := range []string{
		`{"medical": true}`,
		`{"text": "", "medical": true}`,
		`{"text": 42, "medical": true}`,
	} {
		_, err := ParseRequest([]byte(body))
		if !errors.Is(err, ErrMissingText) {
			t.Errorf("Expected ErrMissingText for %s, got %v", body, err)
		}
	}
}

func TestParseRequest_NonBooleanFlag(t *testing.T) {
	body := []byte(`{"text": "hello", "medical": "yes"}`)

	_, err := ParseRequest(body)
	if !errors.Is(err, ErrNonBooleanFlag) {
		t.Errorf("Expected ErrNonBooleanFlag, got %v", err)
	}
}

func TestParseRequest_InvalidJSON(t *testing.T) {
	_, err := ParseRequest([]byte(`{"text": `))
	if err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestCompose_RequestedAndUnmonitored(t *testing.T) {
	requested := map[models.CheckName]bool{
		models.CheckFinancialAdvice: true,
	}
	verdicts := map[models.CheckName]*models.CheckVerdict{
		models.CheckFinancialAdvice: {Flagged: true, Reason: "investment advice requested"},
	}
	blocks := map[models.CheckName]string{
		models.CheckFinancialAdvice: "Please consult a licensed professional.",
	}

	resp := Compose(requested, verdicts, blocks, "default block")

	verdict, ok := resp["financial_legal_tax_advice"].(*models.CheckVerdict)
	if !ok {
		t.Fatalf("Expected a verdict for financial_legal_tax_advice, got %v", resp["financial_legal_tax_advice"])
	}
	if !verdict.Flagged {
		t.Error("Expected financial_legal_tax_advice to be flagged")
	}
	if verdict.Reason != "investment advice requested" {
		t.Errorf("Unexpected reason: %s", verdict.Reason)
	}

	if resp["prompt_injections"] != models.StatusUnmonitored {
		t.Errorf("Expected prompt_injections to be unmonitored, got %v", resp["prompt_injections"])
	}
	if resp["medical"] != models.StatusUnmonitored {
		t.Errorf("Expected medical to be unmonitored, got %v", resp["medical"])
	}

	if resp["verdict"] != false {
		t.Errorf("Expected overall verdict false, got %v", resp["verdict"])
	}
	if resp["revised_response"] != "Please consult a licensed professional." {
		t.Errorf("Unexpected revised_response: %v", resp["revised_response"])
	}
}

func TestCompose_AllPass(t *testing.T) {
	requested := map[models.CheckName]bool{
		models.CheckPromptInjections: true,
		models.CheckMedical:          true,
	}
	verdicts := map[models.CheckName]*models.CheckVerdict{
		models.CheckPromptInjections: {},
		models.CheckMedical:          {},
	}

	resp := Compose(requested, verdicts, nil, "default block")

	if resp["verdict"] != true {
		t.Errorf("Expected overall verdict true, got %v", resp["verdict"])
	}
	if _, present := resp["revised_response"]; present {
		t.Error("Expected no revised_response on pass")
	}
	for _, name := range []string{"prompt_injections", "medical"} {
		if _, ok := resp[name].(*models.CheckVerdict); !ok {
			t.Errorf("Expected a definite verdict for %s", name)
		}
	}
}

func TestCompose_FirstFlaggedCheckPicksBlockResponse(t *testing.T) {
	// Canonical order decides: prompt_injections comes before medical.
	requested := map[models.CheckName]bool{
		models.CheckPromptInjections: true,
		models.CheckMedical:          true,
	}
	verdicts := map[models.CheckName]*models.CheckVerdict{
		models.CheckPromptInjections: {Flagged: true},
		models.CheckMedical:          {Flagged: true},
	}
	blocks := map[models.CheckName]string{
		models.CheckPromptInjections: "injection block",
		models.CheckMedical:          "medical block",
	}

	resp := Compose(requested, verdicts, blocks, "default")

	if resp["revised_response"] != "injection block" {
		t.Errorf("Expected injection block response, got %v", resp["revised_response"])
	}
}

func TestCompose_FalseFlagIsUnmonitored(t *testing.T) {
	// A check sent with value false was recognized but not requested.
	requested := map[models.CheckName]bool{
		models.CheckMedical: false,
	}

	resp := Compose(requested, nil, nil, "default")

	if resp["medical"] != models.StatusUnmonitored {
		t.Errorf("Expected medical to be unmonitored, got %v", resp["medical"])
	}
	if resp["verdict"] != true {
		t.Errorf("Expected overall verdict true, got %v", resp["verdict"])
	}
}

func TestCompose_Idempotent(t *testing.T) {
	requested := map[models.CheckName]bool{
		models.CheckFinancialAdvice: true,
		models.CheckMedical:         true,
	}
	verdicts := map[models.CheckName]*models.CheckVerdict{
		models.CheckFinancialAdvice: {Flagged: true, Reason: "advice"},
		models.CheckMedical:         {},
	}
	blocks := map[models.CheckName]string{
		models.CheckFinancialAdvice: "block",
	}

	first, err := json.Marshal(Compose(requested, verdicts, blocks, "default"))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	second, err := json.Marshal(Compose(requested, verdicts, blocks, "default"))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("Expected byte-identical responses, got:\n%s\n%s", first, second)
	}
}
