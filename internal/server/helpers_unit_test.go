package server

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"careguide/backend/internal/guide"
)

func TestClaimHasAudience(t *testing.T) {
	if !claimHasAudience("expected", "expected") {
		t.Fatalf("expected string audience to match")
	}
	if claimHasAudience("other", "expected") {
		t.Fatalf("expected mismatched string audience to fail")
	}
	if !claimHasAudience([]any{"x", "expected", "y"}, "expected") {
		t.Fatalf("expected []any audience to match")
	}
	if !claimHasAudience([]string{"x", "expected", "y"}, "expected") {
		t.Fatalf("expected []string audience to match")
	}
	if claimHasAudience(nil, "expected") {
		t.Fatalf("expected nil audience to fail")
	}
}

func TestProviderFromClaim(t *testing.T) {
	if got := providerFromClaim("google"); got != "google" {
		t.Fatalf("expected google, got %q", got)
	}
	if got := providerFromClaim("line"); got != "line" {
		t.Fatalf("expected line, got %q", got)
	}
	if got := providerFromClaim("unknown-provider"); got != "local" {
		t.Fatalf("expected local fallback, got %q", got)
	}
	if got := providerFromClaim(nil); got != "local" {
		t.Fatalf("expected local fallback for nil, got %q", got)
	}
}

func TestToOptionalString(t *testing.T) {
	if got := toOptionalString("  value  "); got == nil || *got != "value" {
		t.Fatalf("expected trimmed value, got %v", got)
	}
	if got := toOptionalString("   "); got != nil {
		t.Fatalf("expected nil for blank string, got %v", got)
	}
	if got := toOptionalString(42); got != nil {
		t.Fatalf("expected nil for non-string, got %v", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abcd" {
		t.Fatalf("expected abcd, got %q", got)
	}
	if got := truncate("abc", 4); got != "abc" {
		t.Fatalf("expected abc unchanged, got %q", got)
	}
}

func TestExtractNumberFromMap(t *testing.T) {
	value := extractNumberFromMap(
		map[string]any{
			"str": "42.5",
			"num": json.Number("12.3"),
		},
		"missing",
		"num",
		"str",
	)
	if value != 12.3 {
		t.Fatalf("expected json.Number to parse first, got %v", value)
	}

	value = extractNumberFromMap(map[string]any{"amount": "17.25"}, "amount")
	if value != 17.25 {
		t.Fatalf("expected string number parse, got %v", value)
	}

	value = extractNumberFromMap(nil, "any")
	if value != 0 {
		t.Fatalf("expected nil map to yield 0, got %v", value)
	}
}

func TestParseJSONStringMap(t *testing.T) {
	parsed := parseJSONStringMap([]byte(`{"model":"m","usage":{"input_tokens":3}}`))
	if parsed["model"] != "m" {
		t.Fatalf("expected model key, got %v", parsed)
	}
	if got := parseJSONStringMap([]byte("not json")); len(got) != 0 {
		t.Fatalf("expected empty map for invalid JSON, got %v", got)
	}
	if got := parseJSONStringMap(nil); len(got) != 0 {
		t.Fatalf("expected empty map for nil input, got %v", got)
	}
}

func TestTruncateForLog(t *testing.T) {
	long := strings.Repeat("x", 50)
	got := truncateForLog(long, 10)
	if !strings.HasPrefix(got, "xxxxxxxxxx") || !strings.HasSuffix(got, "...(truncated)") {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := truncateForLog("  short  ", 100); got != "short" {
		t.Fatalf("expected trimmed passthrough, got %q", got)
	}
}

func TestUsageMapRoundTrip(t *testing.T) {
	usage := AIUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}
	m := usageMap(usage)
	if m["prompt_tokens"] != 10 || m["completion_tokens"] != 5 || m["total_tokens"] != 15 {
		t.Fatalf("unexpected usage map: %v", m)
	}
	if got := mustMarshalJSON(func() {}); got != "{}" {
		t.Fatalf("expected {} for unmarshalable value, got %q", got)
	}
}

func TestBuildCaseContextEmptyWithoutPlan(t *testing.T) {
	if got := buildCaseContext(GuideState{}); got != "" {
		t.Fatalf("expected empty context without a plan, got %q", got)
	}
}

func TestBuildCaseContextRendersPlanSnapshot(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	diagnosis, err := guide.RunMinimalDiagnosis(guide.OnsetSudden, guide.SituationAcuteHospital, now)
	if err != nil {
		t.Fatalf("diagnosis failed: %v", err)
	}
	plan := guide.GenerateMinimalPlan(diagnosis, now)

	caseContext := buildCaseContext(GuideState{
		MinimalDiagnosis: &diagnosis,
		Plan:             &plan,
	})
	if !strings.Contains(caseContext, "【相談者の状況】") {
		t.Fatalf("expected situation header, got %q", caseContext)
	}
	if !strings.Contains(caseContext, "急なケア") {
		t.Fatalf("expected onset label, got %q", caseContext)
	}
	if !strings.Contains(caseContext, guide.PhaseLabels[plan.Phase]) {
		t.Fatalf("expected phase label %q in context", guide.PhaseLabels[plan.Phase])
	}
	if !strings.Contains(caseContext, plan.FirstContact) {
		t.Fatalf("expected first contact, got %q", caseContext)
	}
	if !strings.Contains(caseContext, "タスク進捗: 0/") {
		t.Fatalf("expected task progress line, got %q", caseContext)
	}
}
