package server

import (
	"encoding/json"
	"strconv"

	"careguide/backend/internal/guide"
)

type diagnosisRequest struct {
	OnsetType string `json:"onset_type"`
	Situation string `json:"situation"`
}

type detailedDiagnosisRequest struct {
	Answers        guide.DetailedDiagnosisInput `json:"answers"`
	CompletedSteps int                          `json:"completed_steps"`
}

type assessmentRequest struct {
	Answers     guide.AssessmentAnswers `json:"answers"`
	ApplyToPlan bool                    `json:"apply_to_plan"`
}

type preparednessRequest struct {
	Answers guide.PreparednessAnswers `json:"answers"`
}

type chatQueryRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
	UseCase   bool   `json:"use_case_context"`
}

type createChatSessionRequest struct {
	Title string `json:"title"`
}

func mustMarshalJSON(input any) string {
	encoded, err := json.Marshal(input)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

func usageMap(usage AIUsage) map[string]any {
	return map[string]any{
		"prompt_tokens":     usage.PromptTokens,
		"completion_tokens": usage.CompletionTokens,
		"total_tokens":      usage.TotalTokens,
	}
}

func parseJSONStringMap(input []byte) map[string]any {
	if len(input) == 0 {
		return map[string]any{}
	}
	var result map[string]any
	if err := json.Unmarshal(input, &result); err != nil || result == nil {
		return map[string]any{}
	}
	return result
}
