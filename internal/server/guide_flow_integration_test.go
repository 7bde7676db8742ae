package server

import (
	"net/http"
	"strings"
	"testing"
)

func TestGuideOptionsListsBothOnsetTypes(t *testing.T) {
	resetDatabase(t)
	router := newTestRouter(t)
	userID := seedUser(t, "")
	token := signToken(t, userID, nil)

	rec := performRequest(t, router, http.MethodGet, "/api/v1/guide/options", token, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	body := decodeJSONMap(t, rec)
	onsetTypes, ok := body["onset_types"].([]any)
	if !ok || len(onsetTypes) != 2 {
		t.Fatalf("expected 2 onset types, got %v", body["onset_types"])
	}
	situations, ok := body["situations"].(map[string]any)
	if !ok {
		t.Fatalf("expected situations map, got %v", body["situations"])
	}
	for _, onset := range []string{"sudden", "gradual"} {
		if _, present := situations[onset]; !present {
			t.Fatalf("expected situations for onset %q", onset)
		}
	}
}

func TestDiagnosisCreatesPlanAndState(t *testing.T) {
	resetDatabase(t)
	router := newTestRouter(t)
	userID := seedUser(t, "")
	token := signToken(t, userID, nil)

	rec := performRequest(t, router, http.MethodPost, "/api/v1/guide/diagnosis", token, map[string]any{
		"onset_type": "sudden",
		"situation":  "acute_hospital",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	body := decodeJSONMap(t, rec)
	plan, ok := body["plan"].(map[string]any)
	if !ok {
		t.Fatalf("expected plan in response, got %v", body)
	}
	if plan["phase"] != "acute" {
		t.Fatalf("expected acute phase, got %v", plan["phase"])
	}
	if plan["firstContact"] != "病院の医療ソーシャルワーカー（MSW）" {
		t.Fatalf("unexpected first contact: %v", plan["firstContact"])
	}

	state := performRequest(t, router, http.MethodGet, "/api/v1/guide/state", token, nil, nil)
	if state.Code != http.StatusOK {
		t.Fatalf("expected 200 from state, got %d body=%s", state.Code, state.Body.String())
	}
	stateBody := decodeJSONMap(t, state)
	if _, ok := stateBody["plan"].(map[string]any); !ok {
		t.Fatalf("expected persisted plan, got %v", stateBody)
	}
}

func TestDiagnosisRejectsMismatchedSituation(t *testing.T) {
	resetDatabase(t)
	router := newTestRouter(t)
	userID := seedUser(t, "")
	token := signToken(t, userID, nil)

	rec := performRequest(t, router, http.MethodPost, "/api/v1/guide/diagnosis", token, map[string]any{
		"onset_type": "gradual",
		"situation":  "acute_hospital",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestDetailedDiagnosisRequiresInitialDiagnosis(t *testing.T) {
	resetDatabase(t)
	router := newTestRouter(t)
	userID := seedUser(t, "")
	token := signToken(t, userID, nil)

	rec := performRequest(t, router, http.MethodPost, "/api/v1/guide/diagnosis/detailed", token, map[string]any{
		"answers":         map[string]any{"careLevel": "not_applied"},
		"completed_steps": 1,
	}, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without any state, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestDetailedDiagnosisUpgradesPlan(t *testing.T) {
	resetDatabase(t)
	router := newTestRouter(t)
	userID := seedUser(t, "")
	token := signToken(t, userID, nil)

	first := performRequest(t, router, http.MethodPost, "/api/v1/guide/diagnosis", token, map[string]any{
		"onset_type": "sudden",
		"situation":  "acute_hospital",
	}, nil)
	if first.Code != http.StatusOK {
		t.Fatalf("diagnosis failed: %d body=%s", first.Code, first.Body.String())
	}

	rec := performRequest(t, router, http.MethodPost, "/api/v1/guide/diagnosis/detailed", token, map[string]any{
		"answers": map[string]any{
			"careLevel":         "not_applied",
			"medicalDependency": "medical_procedures",
			"financialConcern":  "significant",
		},
		"completed_steps": 3,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	body := decodeJSONMap(t, rec)
	plan, ok := body["plan"].(map[string]any)
	if !ok {
		t.Fatalf("expected upgraded plan, got %v", body)
	}
	if plan["version"] != "detailed" {
		t.Fatalf("expected detailed plan version, got %v", plan["version"])
	}
	eligibilities, ok := plan["serviceEligibilities"].([]any)
	if !ok || len(eligibilities) != 6 {
		t.Fatalf("expected 6 service eligibilities, got %v", plan["serviceEligibilities"])
	}
}

func TestToggleTaskRoundTrip(t *testing.T) {
	resetDatabase(t)
	router := newTestRouter(t)
	userID := seedUser(t, "")
	token := signToken(t, userID, nil)

	diag := performRequest(t, router, http.MethodPost, "/api/v1/guide/diagnosis", token, map[string]any{
		"onset_type": "sudden",
		"situation":  "acute_hospital",
	}, nil)
	if diag.Code != http.StatusOK {
		t.Fatalf("diagnosis failed: %d body=%s", diag.Code, diag.Body.String())
	}
	diagBody := decodeJSONMap(t, diag)
	plan := diagBody["plan"].(map[string]any)
	tasks, ok := plan["tasks"].([]any)
	if !ok || len(tasks) == 0 {
		t.Fatalf("expected tasks in plan, got %v", plan["tasks"])
	}
	firstTask := tasks[0].(map[string]any)
	taskID, _ := firstTask["taskId"].(string)
	if taskID == "" {
		t.Fatalf("expected task id, got %v", firstTask)
	}

	toggle := performRequest(t, router, http.MethodPost, "/api/v1/guide/tasks/"+taskID+"/toggle", token, map[string]any{}, nil)
	if toggle.Code != http.StatusOK {
		t.Fatalf("expected 200 from toggle, got %d body=%s", toggle.Code, toggle.Body.String())
	}
	toggleBody := decodeJSONMap(t, toggle)
	updatedPlan := toggleBody["plan"].(map[string]any)
	updatedTasks := updatedPlan["tasks"].([]any)
	found := false
	for _, raw := range updatedTasks {
		task := raw.(map[string]any)
		if task["taskId"] == taskID {
			found = true
			if task["status"] != "done" {
				t.Fatalf("expected task marked done, got %v", task["status"])
			}
		}
	}
	if !found {
		t.Fatalf("toggled task missing from response")
	}

	unknown := performRequest(t, router, http.MethodPost, "/api/v1/guide/tasks/"+testID()+"/toggle", token, map[string]any{}, nil)
	if unknown.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown task id, got %d body=%s", unknown.Code, unknown.Body.String())
	}
}

func TestAssessmentAppliesToPlanWhenRequested(t *testing.T) {
	resetDatabase(t)
	router := newTestRouter(t)
	userID := seedUser(t, "")
	token := signToken(t, userID, nil)

	diag := performRequest(t, router, http.MethodPost, "/api/v1/guide/diagnosis", token, map[string]any{
		"onset_type": "gradual",
		"situation":  "not_visited",
	}, nil)
	if diag.Code != http.StatusOK {
		t.Fatalf("diagnosis failed: %d body=%s", diag.Code, diag.Body.String())
	}

	answers := map[string]any{
		"q1_target":            "親",
		"q2_age":               "75歳以上",
		"q3_status":            "在宅（通院中）",
		"q4_trouble":           []string{"生活が回らない"},
		"q5_support_level":     "見守りが必要",
		"q6_traits":            []string{},
		"q7_public_service":    "まだどちらも申請していない",
		"q8_work_status":       "仕事はしていない",
		"q9_support_structure": "主に自分ひとり",
		"q10_finance":          "当面は問題ない",
	}

	rec := performRequest(t, router, http.MethodPost, "/api/v1/guide/assessment", token, map[string]any{
		"answers":       answers,
		"apply_to_plan": true,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	body := decodeJSONMap(t, rec)
	result, ok := body["result"].(map[string]any)
	if !ok {
		t.Fatalf("expected assessment result, got %v", body)
	}
	shortSummary, _ := result["shortSummary"].(string)
	if !strings.Contains(shortSummary, "地域包括支援センター") {
		t.Fatalf("expected care-route window in summary, got %q", shortSummary)
	}
	plan, ok := body["plan"].(map[string]any)
	if !ok {
		t.Fatalf("expected bridged plan in response, got %v", body)
	}
	if plan["version"] != "detailed" {
		t.Fatalf("expected bridged plan version detailed, got %v", plan["version"])
	}
	if plan["conclusionSummary"] == "" || plan["conclusionSummary"] == nil {
		t.Fatalf("expected conclusion summary on bridged plan")
	}
}

func TestAssessmentWithoutPlanStillStoresResult(t *testing.T) {
	resetDatabase(t)
	router := newTestRouter(t)
	userID := seedUser(t, "")
	token := signToken(t, userID, nil)

	answers := map[string]any{
		"q1_target":            "配偶者・パートナー",
		"q2_age":               "39歳以下",
		"q3_status":            "在宅（通院なし）",
		"q4_trouble":           []string{"お金が不安"},
		"q5_support_level":     "見守りが必要",
		"q6_traits":            []string{},
		"q7_public_service":    "まだどちらも申請していない",
		"q8_work_status":       "フルタイムで働いている",
		"q9_support_structure": "家族で分担できる",
		"q10_finance":          "当面は問題ない",
	}

	rec := performRequest(t, router, http.MethodPost, "/api/v1/guide/assessment", token, map[string]any{
		"answers": answers,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	state := performRequest(t, router, http.MethodGet, "/api/v1/guide/state", token, nil, nil)
	stateBody := decodeJSONMap(t, state)
	if _, ok := stateBody["assessmentResult"].(map[string]any); !ok {
		t.Fatalf("expected assessment result persisted, got %v", stateBody)
	}
	if _, ok := stateBody["plan"]; ok {
		t.Fatalf("expected no plan in state, got %v", stateBody["plan"])
	}
}

func TestPreparednessStoresResult(t *testing.T) {
	resetDatabase(t)
	router := newTestRouter(t)
	userID := seedUser(t, "")
	token := signToken(t, userID, nil)

	answers := map[string]any{
		"p_target":                    "親",
		"q_info_doctor":               "できていない",
		"q_info_meds":                 "できていない",
		"q_info_cards_location":       "できていない",
		"q_info_support_contact":      "できていない",
		"q_safe_fall_prevention":      "できていない",
		"q_safe_heatshock_prevention": "できていない",
		"q_safe_outing_prevention":    "できていない",
		"q_safe_found_quickly":        "できていない",
		"q_cap_weekday_available":     "いない",
		"q_cap_helpers_exist":         "いない",
		"q_cap_roles_defined":         "決まっていない",
		"q_cap_conflict_risk":         "はい（可能性が高い）",
		"q_money_policy":              "決まっていない",
		"q_money_bills_and_accounts":  "できていない",
		"q_money_advance_rule":        "決まっていない",
		"q_money_docs_place":          "できていない",
		"q_axis_priority":             "本人の希望を最優先",
	}

	rec := performRequest(t, router, http.MethodPost, "/api/v1/guide/preparedness", token, map[string]any{
		"answers": answers,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	body := decodeJSONMap(t, rec)
	result, ok := body["result"].(map[string]any)
	if !ok {
		t.Fatalf("expected preparedness result, got %v", body)
	}
	risks, ok := result["risks"].([]any)
	if !ok || len(risks) == 0 {
		t.Fatalf("expected at least one risk, got %v", result["risks"])
	}
	if len(risks) > 3 {
		t.Fatalf("expected at most 3 risks, got %d", len(risks))
	}
}

func TestResetClearsGuideState(t *testing.T) {
	resetDatabase(t)
	router := newTestRouter(t)
	userID := seedUser(t, "")
	token := signToken(t, userID, nil)

	diag := performRequest(t, router, http.MethodPost, "/api/v1/guide/diagnosis", token, map[string]any{
		"onset_type": "sudden",
		"situation":  "rehab_hospital",
	}, nil)
	if diag.Code != http.StatusOK {
		t.Fatalf("diagnosis failed: %d body=%s", diag.Code, diag.Body.String())
	}

	reset := performRequest(t, router, http.MethodPost, "/api/v1/guide/reset", token, map[string]any{}, nil)
	if reset.Code != http.StatusOK {
		t.Fatalf("expected 200 from reset, got %d body=%s", reset.Code, reset.Body.String())
	}

	state := performRequest(t, router, http.MethodGet, "/api/v1/guide/state", token, nil, nil)
	if state.Code != http.StatusOK {
		t.Fatalf("expected 200 from state after reset, got %d", state.Code)
	}
	stateBody := decodeJSONMap(t, state)
	if _, ok := stateBody["plan"]; ok {
		t.Fatalf("expected empty state after reset, got %v", stateBody)
	}

	toggle := performRequest(t, router, http.MethodPost, "/api/v1/guide/tasks/"+testID()+"/toggle", token, map[string]any{}, nil)
	if toggle.Code != http.StatusNotFound {
		t.Fatalf("expected 404 toggling after reset, got %d body=%s", toggle.Code, toggle.Body.String())
	}
}
