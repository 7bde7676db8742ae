package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"careguide/backend/internal/config"
)

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type AIModelRequest struct {
	Model        string
	SystemPrompt string
	Conversation []ChatTurn
	UserPrompt   string
}

type AIModelResponse struct {
	Answer string
	Model  string
	Usage  AIUsage
}

type AIClient interface {
	Query(ctx context.Context, req AIModelRequest) (AIModelResponse, error)
}

// AnthropicMessagesClient calls the Anthropic Messages API.
type AnthropicMessagesClient struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
}

type MockAIClient struct {
	Model string
}

func (m MockAIClient) Query(_ context.Context, req AIModelRequest) (AIModelResponse, error) {
	question := strings.TrimSpace(req.UserPrompt)
	if question == "" {
		question = "ご質問が空のようです。"
	}

	answer := "モック応答: " + question
	if strings.Contains(question, "介護保険") || strings.Contains(question, "要介護") {
		answer = strings.Join([]string{
			"介護保険サービスを使うには、まず市区町村の窓口か地域包括支援センターで要介護認定を申請します。",
			"認定結果が出るまで約30日かかるため、早めの申請がおすすめです。",
			"結果が出たらケアマネージャーと相談してケアプランを作成します。",
		}, "\n")
	}
	if strings.Contains(question, "お金") || strings.Contains(question, "費用") {
		answer = "モック応答: 高額介護サービス費や介護休業給付金など、負担を軽減する制度があります。市区町村の福祉課に確認しましょう。"
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = strings.TrimSpace(m.Model)
	}
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	return AIModelResponse{
		Answer: answer,
		Model:  model,
		Usage: AIUsage{
			PromptTokens:     120,
			CompletionTokens: 80,
			TotalTokens:      200,
		},
	}, nil
}

func NewAnthropicMessagesClient(cfg config.Config) *AnthropicMessagesClient {
	timeoutSeconds := cfg.AITimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 20
	}
	return &AnthropicMessagesClient{
		apiKey:    strings.TrimSpace(cfg.AnthropicAPIKey),
		baseURL:   strings.TrimRight(strings.TrimSpace(cfg.AnthropicBaseURL), "/"),
		model:     strings.TrimSpace(cfg.AnthropicModel),
		maxTokens: cfg.AIMaxOutputTokens,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

func (c *AnthropicMessagesClient) Query(ctx context.Context, req AIModelRequest) (AIModelResponse, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return AIModelResponse{}, errors.New("ANTHROPIC_API_KEY is not configured")
	}
	if strings.TrimSpace(c.baseURL) == "" {
		return AIModelResponse{}, errors.New("ANTHROPIC_BASE_URL is not configured")
	}
	requestModel := strings.TrimSpace(req.Model)
	if requestModel == "" {
		requestModel = strings.TrimSpace(c.model)
	}
	if requestModel == "" {
		return AIModelResponse{}, errors.New("ANTHROPIC_MODEL is not configured")
	}

	messages := make([]ChatTurn, 0, len(req.Conversation)+1)
	for _, turn := range req.Conversation {
		role := strings.ToLower(strings.TrimSpace(turn.Role))
		if role != "user" && role != "assistant" {
			continue
		}
		content := strings.TrimSpace(turn.Content)
		if content == "" {
			continue
		}
		messages = append(messages, ChatTurn{Role: role, Content: content})
	}
	if userPrompt := strings.TrimSpace(req.UserPrompt); userPrompt != "" {
		messages = append(messages, ChatTurn{Role: "user", Content: userPrompt})
	}
	if len(messages) == 0 {
		return AIModelResponse{}, errors.New("AI request input is empty")
	}

	maxTokens := c.maxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	payload := map[string]any{
		"model":      requestModel,
		"max_tokens": maxTokens,
		"messages":   messages,
	}
	if system := strings.TrimSpace(req.SystemPrompt); system != "" {
		payload["system"] = system
	}
	bodyRaw, err := json.Marshal(payload)
	if err != nil {
		return AIModelResponse{}, err
	}

	request, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/v1/messages",
		bytes.NewReader(bodyRaw),
	)
	if err != nil {
		return AIModelResponse{}, err
	}
	request.Header.Set("x-api-key", c.apiKey)
	request.Header.Set("anthropic-version", "2023-06-01")
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return AIModelResponse{}, err
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return AIModelResponse{}, err
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return AIModelResponse{}, fmt.Errorf(
			"anthropic messages error (%d): %s",
			response.StatusCode,
			strings.TrimSpace(string(responseBody)),
		)
	}

	parsed := parseJSONStringMap(responseBody)
	answer := extractMessageAnswer(parsed)
	if strings.TrimSpace(answer) == "" {
		log.Printf("anthropic response had no extractable answer: %s", truncateForLog(string(responseBody), 1200))
		return AIModelResponse{}, errors.New("anthropic response answer is empty")
	}

	usageMap, _ := parsed["usage"].(map[string]any)
	promptTokens := int(extractNumberFromMap(usageMap, "input_tokens"))
	completionTokens := int(extractNumberFromMap(usageMap, "output_tokens"))

	modelName := strings.TrimSpace(toString(parsed["model"]))
	if modelName == "" {
		modelName = requestModel
	}

	return AIModelResponse{
		Answer: answer,
		Model:  modelName,
		Usage: AIUsage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
	}, nil
}

// extractMessageAnswer joins the text content blocks of a Messages API
// response.
func extractMessageAnswer(data map[string]any) string {
	contents, ok := data["content"].([]any)
	if !ok {
		return ""
	}
	parts := make([]string, 0, len(contents))
	for _, item := range contents {
		block, ok := item.(map[string]any)
		if !ok {
			continue
		}
		blockType := strings.ToLower(strings.TrimSpace(toString(block["type"])))
		if blockType != "text" {
			continue
		}
		if text := strings.TrimSpace(toString(block["text"])); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

func extractNumberFromMap(data map[string]any, keys ...string) float64 {
	if data == nil {
		return 0
	}
	for _, key := range keys {
		raw, ok := data[key]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case float64:
			return v
		case float32:
			return float64(v)
		case int:
			return float64(v)
		case int64:
			return float64(v)
		case json.Number:
			f, err := v.Float64()
			if err == nil {
				return f
			}
		case string:
			var parsed float64
			_, err := fmt.Sscanf(v, "%f", &parsed)
			if err == nil {
				return parsed
			}
		}
	}
	return 0
}

func truncateForLog(value string, limit int) string {
	trimmed := strings.TrimSpace(value)
	if limit <= 0 || len(trimmed) <= limit {
		return trimmed
	}
	return trimmed[:limit] + "...(truncated)"
}
