package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const chatHistoryTurns = 20

// aiApologyMessage is returned verbatim when answer generation fails.
// There is no retry; the user simply asks again.
const aiApologyMessage = "申し訳ございません。ただいま回答の生成に問題が発生しております。\nしばらくしてからもう一度お試しください。"

type chatSessionRecord struct {
	ID        string
	UserID    string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *App) createChatSession(c *gin.Context) {
	user, ok := authUserFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var payload createChatSessionRequest
	if !mustJSON(c, &payload) {
		return
	}
	title := strings.TrimSpace(payload.Title)
	if title == "" {
		title = "新しい相談"
	}

	sessionID := uuid.NewString()
	now := time.Now().UTC()
	if _, err := a.db.Exec(
		c.Request.Context(),
		`INSERT INTO "ChatSession" (id, "userId", title, "createdAt", "updatedAt")
		 VALUES ($1, $2, $3, $4, $4)`,
		sessionID,
		user.ID,
		title,
		now,
	); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to create chat session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"title":      title,
		"created_at": now,
	})
}

func (a *App) listChatSessions(c *gin.Context) {
	user, ok := authUserFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	rows, err := a.db.Query(
		c.Request.Context(),
		`SELECT s.id, s.title, s."createdAt", s."updatedAt",
		        (SELECT COUNT(*) FROM "ChatMessage" m WHERE m."sessionId" = s.id) AS message_count
		 FROM "ChatSession" s
		 WHERE s."userId" = $1
		 ORDER BY s."updatedAt" DESC`,
		user.ID,
	)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load chat sessions")
		return
	}
	defer rows.Close()

	sessions := make([]gin.H, 0)
	for rows.Next() {
		var id, title string
		var createdAt, updatedAt time.Time
		var messageCount int
		if err := rows.Scan(&id, &title, &createdAt, &updatedAt, &messageCount); err != nil {
			writeError(c, http.StatusInternalServerError, "Failed to load chat sessions")
			return
		}
		sessions = append(sessions, gin.H{
			"session_id":    id,
			"title":         title,
			"created_at":    createdAt,
			"updated_at":    updatedAt,
			"message_count": messageCount,
		})
	}
	if rows.Err() != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load chat sessions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (a *App) getChatMessages(c *gin.Context) {
	user, ok := authUserFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	sessionID := strings.TrimSpace(c.Param("session_id"))

	if _, err := a.loadChatSessionForUser(c.Request.Context(), user.ID, sessionID); err != nil {
		a.writeChatError(c, err)
		return
	}

	rows, err := a.db.Query(
		c.Request.Context(),
		`SELECT id, role, content, model, "createdAt"
		 FROM "ChatMessage"
		 WHERE "sessionId" = $1
		 ORDER BY "createdAt" ASC`,
		sessionID,
	)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load chat messages")
		return
	}
	defer rows.Close()

	messages := make([]gin.H, 0)
	for rows.Next() {
		var id, role, content string
		var model *string
		var createdAt time.Time
		if err := rows.Scan(&id, &role, &content, &model, &createdAt); err != nil {
			writeError(c, http.StatusInternalServerError, "Failed to load chat messages")
			return
		}
		messages = append(messages, gin.H{
			"message_id": id,
			"role":       role,
			"content":    content,
			"model":      model,
			"created_at": createdAt,
		})
	}
	if rows.Err() != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load chat messages")
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "messages": messages})
}

func (a *App) chatQuery(c *gin.Context) {
	user, ok := authUserFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var payload chatQueryRequest
	if !mustJSON(c, &payload) {
		return
	}
	question := strings.TrimSpace(payload.Query)
	if question == "" {
		writeError(c, http.StatusBadRequest, "query is required")
		return
	}

	ctx := c.Request.Context()
	sessionID := strings.TrimSpace(payload.SessionID)
	if sessionID == "" {
		var err error
		sessionID, err = a.createSessionForQuestion(ctx, user.ID, question)
		if err != nil {
			writeError(c, http.StatusInternalServerError, "Failed to prepare chat session")
			return
		}
	} else if _, err := a.loadChatSessionForUser(ctx, user.ID, sessionID); err != nil {
		a.writeChatError(c, err)
		return
	}

	turns, err := a.loadSessionTurns(ctx, sessionID, chatHistoryTurns)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load chat history")
		return
	}

	system := systemPrompt
	if payload.UseCase {
		state, stateErr := a.loadGuideState(ctx, user.ID)
		if stateErr == nil {
			if caseContext := buildCaseContext(state); caseContext != "" {
				system = system + "\n\n" + caseContext
			}
		} else if !errors.Is(stateErr, errNoGuideState) {
			log.Printf("chat query: failed to load guide state user=%s err=%v", user.ID, stateErr)
		}
	}

	answer := ""
	model := ""
	usage := AIUsage{}
	response, aiErr := a.ai.Query(ctx, AIModelRequest{
		SystemPrompt: system,
		Conversation: turns,
		UserPrompt:   question,
	})
	if aiErr != nil {
		log.Printf("chat query: AI call failed session=%s err=%v", sessionID, aiErr)
		answer = aiApologyMessage
	} else {
		answer = response.Answer
		model = response.Model
		usage = response.Usage
	}

	if _, err := a.insertChatMessage(ctx, sessionID, "user", question, "", AIUsage{}); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to store chat message")
		return
	}
	assistantMessageID, err := a.insertChatMessage(ctx, sessionID, "assistant", answer, model, usage)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to store chat message")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"message_id": assistantMessageID,
		"answer":     answer,
		"model":      model,
		"usage":      usageMap(usage),
		"degraded":   aiErr != nil,
	})
}

func (a *App) createSessionForQuestion(ctx context.Context, userID, question string) (string, error) {
	title := question
	runes := []rune(title)
	if len(runes) > 30 {
		title = string(runes[:30])
	}

	sessionID := uuid.NewString()
	now := time.Now().UTC()
	_, err := a.db.Exec(
		ctx,
		`INSERT INTO "ChatSession" (id, "userId", title, "createdAt", "updatedAt")
		 VALUES ($1, $2, $3, $4, $4)`,
		sessionID,
		userID,
		title,
		now,
	)
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

func (a *App) loadChatSessionForUser(ctx context.Context, userID, sessionID string) (chatSessionRecord, error) {
	if strings.TrimSpace(sessionID) == "" {
		return chatSessionRecord{}, errChatSessionNotFound
	}
	record := chatSessionRecord{}
	err := a.db.QueryRow(
		ctx,
		`SELECT id, "userId", title, "createdAt", "updatedAt"
		 FROM "ChatSession"
		 WHERE id = $1 AND "userId" = $2`,
		sessionID,
		userID,
	).Scan(&record.ID, &record.UserID, &record.Title, &record.CreatedAt, &record.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return chatSessionRecord{}, errChatSessionNotFound
	}
	if err != nil {
		return chatSessionRecord{}, err
	}
	return record, nil
}

func (a *App) loadSessionTurns(ctx context.Context, sessionID string, limit int) ([]ChatTurn, error) {
	rows, err := a.db.Query(
		ctx,
		`SELECT role, content FROM (
		   SELECT role, content, "createdAt"
		   FROM "ChatMessage"
		   WHERE "sessionId" = $1
		   ORDER BY "createdAt" DESC
		   LIMIT $2
		 ) recent
		 ORDER BY "createdAt" ASC`,
		sessionID,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	turns := make([]ChatTurn, 0, limit)
	for rows.Next() {
		var turn ChatTurn
		if err := rows.Scan(&turn.Role, &turn.Content); err != nil {
			return nil, err
		}
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}

func (a *App) insertChatMessage(ctx context.Context, sessionID, role, content, model string, usage AIUsage) (string, error) {
	messageID := uuid.NewString()
	now := time.Now().UTC()

	var modelValue any
	if strings.TrimSpace(model) != "" {
		modelValue = model
	}

	if _, err := a.db.Exec(
		ctx,
		`INSERT INTO "ChatMessage" (id, "sessionId", role, content, model, "usageJson", "createdAt")
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		messageID,
		sessionID,
		role,
		content,
		modelValue,
		mustMarshalJSON(usage),
		now,
	); err != nil {
		return "", err
	}

	if _, err := a.db.Exec(
		ctx,
		`UPDATE "ChatSession" SET "updatedAt" = $2 WHERE id = $1`,
		sessionID,
		now,
	); err != nil {
		return "", err
	}
	return messageID, nil
}

var errChatSessionNotFound = errors.New("chat session not found")

func (a *App) writeChatError(c *gin.Context, err error) {
	if errors.Is(err, errChatSessionNotFound) {
		writeError(c, http.StatusNotFound, "Chat session not found")
		return
	}
	writeError(c, http.StatusInternalServerError, "Chat request failed")
}
