package server

import (
	"net/http"
	"strings"
	"testing"
)

func TestCreateAndListChatSessions(t *testing.T) {
	resetDatabase(t)
	router := newTestRouter(t)
	userID := seedUser(t, "")
	token := signToken(t, userID, nil)

	created := performRequest(t, router, http.MethodPost, "/api/v1/chat/sessions", token, map[string]any{
		"title": "介護保険の相談",
	}, nil)
	if created.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", created.Code, created.Body.String())
	}
	createdBody := decodeJSONMap(t, created)
	sessionID, _ := createdBody["session_id"].(string)
	if sessionID == "" {
		t.Fatalf("expected session_id, got %v", createdBody)
	}

	untitled := performRequest(t, router, http.MethodPost, "/api/v1/chat/sessions", token, map[string]any{}, nil)
	if untitled.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", untitled.Code, untitled.Body.String())
	}
	if title := decodeJSONMap(t, untitled)["title"]; title != "新しい相談" {
		t.Fatalf("expected default title, got %v", title)
	}

	list := performRequest(t, router, http.MethodGet, "/api/v1/chat/sessions", token, nil, nil)
	if list.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", list.Code, list.Body.String())
	}
	sessions, ok := decodeJSONMap(t, list)["sessions"].([]any)
	if !ok || len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %v", sessions)
	}
}

func TestChatMessagesRejectForeignSession(t *testing.T) {
	resetDatabase(t)
	router := newTestRouter(t)
	ownerID := seedUser(t, "")
	otherID := seedUser(t, "")
	sessionID := seedChatSession(t, "", ownerID, "owner session")
	seedChatMessage(t, "", sessionID, "user", "こんにちは")

	otherToken := signToken(t, otherID, nil)
	rec := performRequest(
		t,
		router,
		http.MethodGet,
		"/api/v1/chat/sessions/"+sessionID+"/messages",
		otherToken,
		nil,
		nil,
	)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign session, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestChatQueryAutoCreatesSessionAndStoresTurns(t *testing.T) {
	resetDatabase(t)
	router := newTestRouter(t)
	userID := seedUser(t, "")
	token := signToken(t, userID, nil)

	question := "介護保険はどうやって使い始めますか？"
	rec := performRequest(t, router, http.MethodPost, "/api/v1/chat/query", token, map[string]any{
		"query": question,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	body := decodeJSONMap(t, rec)
	sessionID, _ := body["session_id"].(string)
	if sessionID == "" {
		t.Fatalf("expected auto-created session id, got %v", body)
	}
	answer, _ := body["answer"].(string)
	if !strings.Contains(answer, "要介護認定") {
		t.Fatalf("unexpected answer: %q", answer)
	}
	if degraded, _ := body["degraded"].(bool); degraded {
		t.Fatalf("expected degraded=false with working AI client")
	}

	messages := performRequest(
		t,
		router,
		http.MethodGet,
		"/api/v1/chat/sessions/"+sessionID+"/messages",
		token,
		nil,
		nil,
	)
	if messages.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", messages.Code, messages.Body.String())
	}
	stored, ok := decodeJSONMap(t, messages)["messages"].([]any)
	if !ok || len(stored) != 2 {
		t.Fatalf("expected user+assistant messages, got %v", stored)
	}
	first := stored[0].(map[string]any)
	if first["role"] != "user" || first["content"] != question {
		t.Fatalf("unexpected first message: %v", first)
	}
	second := stored[1].(map[string]any)
	if second["role"] != "assistant" {
		t.Fatalf("unexpected second message role: %v", second["role"])
	}

	list := performRequest(t, router, http.MethodGet, "/api/v1/chat/sessions", token, nil, nil)
	sessions := decodeJSONMap(t, list)["sessions"].([]any)
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	session := sessions[0].(map[string]any)
	title, _ := session["title"].(string)
	if !strings.HasPrefix(question, title) {
		t.Fatalf("expected title derived from question, got %q", title)
	}
	if count, _ := session["message_count"].(float64); int(count) != 2 {
		t.Fatalf("expected message_count=2, got %v", session["message_count"])
	}
}

func TestChatQueryRejectsEmptyQuestion(t *testing.T) {
	resetDatabase(t)
	router := newTestRouter(t)
	userID := seedUser(t, "")
	token := signToken(t, userID, nil)

	rec := performRequest(t, router, http.MethodPost, "/api/v1/chat/query", token, map[string]any{
		"query": "   ",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestChatQueryRejectsForeignSession(t *testing.T) {
	resetDatabase(t)
	router := newTestRouter(t)
	ownerID := seedUser(t, "")
	otherID := seedUser(t, "")
	sessionID := seedChatSession(t, "", ownerID, "owner session")

	otherToken := signToken(t, otherID, nil)
	rec := performRequest(t, router, http.MethodPost, "/api/v1/chat/query", otherToken, map[string]any{
		"session_id": sessionID,
		"query":      "この相談の続きです",
	}, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestChatQueryWithCaseContext(t *testing.T) {
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

	rec := performRequest(t, router, http.MethodPost, "/api/v1/chat/query", token, map[string]any{
		"query":            "次に何をすればいいですか？",
		"use_case_context": true,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeJSONMap(t, rec)
	if answer, _ := body["answer"].(string); strings.TrimSpace(answer) == "" {
		t.Fatalf("expected non-empty answer")
	}
}
