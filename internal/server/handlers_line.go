package server

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	lineReplyURL       = "https://api.line.me/v2/bot/message/reply"
	lineMaxMessageLen  = 4900
	lineMaxReplyChunks = 5
)

type lineMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type lineEvent struct {
	Type       string       `json:"type"`
	ReplyToken string       `json:"replyToken,omitempty"`
	Message    *lineMessage `json:"message,omitempty"`
}

type lineWebhookBody struct {
	Events []lineEvent `json:"events"`
}

// lineCommands are the literal menu keywords. Anything else goes to the
// AI relay.
var lineCommands = map[string]string{
	"ヘルプ": "ケアガイドの使い方:\n・「診断」…最初の2問診断の始め方を案内します\n・「窓口」…まず相談すべき窓口を案内します\n・「備え」…将来への備え診断を案内します\n・「タスク」…やることリストの考え方を案内します\nそれ以外のメッセージは、AI相談員がそのままお答えします。",
	"診断":  "診断はアプリから始められます。「急なケア（入院など）」か「ゆるやかなケア（認知症・体力低下など）」かを選び、状況を1つ選ぶだけで、いまのフェーズとやることリストが作成されます。",
	"窓口":  "迷ったら、まずは次のどちらかに電話するのが近道です。\n・地域包括支援センター（高齢者の介護全般）\n・市役所の福祉の総合窓口（制度が分からないとき）\n入院中の場合は、病院の医療ソーシャルワーカー（MSW）に相談してください。",
	"備え":  "将来への備え診断では、情報共有・住まいの安全・家族の体制・お金・家族の合意の5つの観点で、いま強化すべきポイントを整理します。アプリの「将来に備える」から始められます。",
	"タスク": "やることリストは「いまのフェーズ」ごとに整理されています。優先度の高いもの、期限が近いものから進めましょう。完了したらチェックを付けると、進み具合が記録されます。",
}

func (a *App) lineWebhookStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "LINE webhook is active"})
}

func (a *App) lineWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		writeError(c, http.StatusBadRequest, "Failed to read request body")
		return
	}

	signature := c.GetHeader("X-Line-Signature")
	if !verifyLineSignature(a.cfg.LineChannelSecret, body, signature) {
		writeError(c, http.StatusUnauthorized, "Invalid signature")
		return
	}

	var payload lineWebhookBody
	if err := json.Unmarshal(body, &payload); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	ctx := c.Request.Context()
	for _, event := range payload.Events {
		if event.Type != "message" || event.Message == nil || event.Message.Type != "text" || event.ReplyToken == "" {
			continue
		}
		userText := strings.TrimSpace(event.Message.Text)

		reply := lineCommands[userText]
		if reply == "" {
			reply = a.generateLineAnswer(ctx, userText)
		}
		if err := a.replyToLine(ctx, event.ReplyToken, reply); err != nil {
			log.Printf("line webhook: reply failed err=%v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// verifyLineSignature compares the HMAC-SHA256 of the raw body against the
// platform-supplied header.
func verifyLineSignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (a *App) generateLineAnswer(ctx context.Context, userText string) string {
	if userText == "" {
		return aiApologyMessage
	}
	response, err := a.ai.Query(ctx, AIModelRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   userText,
	})
	if err != nil {
		log.Printf("line webhook: AI call failed err=%v", err)
		return aiApologyMessage
	}
	return response.Answer
}

func (a *App) replyToLine(ctx context.Context, replyToken, text string) error {
	messages := chunkLineMessages(text)
	payload := map[string]any{
		"replyToken": replyToken,
		"messages":   messages,
	}
	bodyRaw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, lineReplyURL, bytes.NewReader(bodyRaw))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+a.cfg.LineChannelAccessToken)

	response, err := http.DefaultClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(response.Body)
		log.Printf("line reply error (%d): %s", response.StatusCode, truncateForLog(string(responseBody), 600))
	}
	return nil
}

// chunkLineMessages splits long replies to fit the platform's per-message
// length limit, capped at five messages. Overflow beyond the cap is
// dropped.
func chunkLineMessages(text string) []lineMessage {
	runes := []rune(text)
	if len(runes) <= lineMaxMessageLen {
		return []lineMessage{{Type: "text", Text: text}}
	}

	messages := make([]lineMessage, 0, lineMaxReplyChunks)
	for len(runes) > 0 && len(messages) < lineMaxReplyChunks {
		chunk := runes
		if len(chunk) > lineMaxMessageLen {
			chunk = runes[:lineMaxMessageLen]
		}
		messages = append(messages, lineMessage{Type: "text", Text: string(chunk)})
		runes = runes[len(chunk):]
	}
	return messages
}
