package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/api/idtoken"

	"careguide/backend/internal/config"
)

type App struct {
	cfg config.Config
	db  *pgxpool.Pool
	ai  AIClient
}

type AuthUser struct {
	ID          string
	Provider    string
	ProviderUID *string
	Name        string
}

func New(cfg config.Config, db *pgxpool.Pool, ai AIClient) *App {
	return &App{cfg: cfg, db: db, ai: ai}
}

func (a *App) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", a.health)

	// LINE calls the webhook directly; it authenticates by signature,
	// not by bearer token.
	router.GET("/line/webhook", a.lineWebhookStatus)
	router.POST("/line/webhook", a.lineWebhook)

	router.POST("/dev/local-token", a.issueLocalDevToken)
	router.POST("/auth/test-login", a.testLogin)

	api := router.Group(a.cfg.APIPrefix)
	api.Use(a.authMiddleware())

	api.GET("/guide/options", a.getGuideOptions)
	api.POST("/guide/diagnosis", a.postDiagnosis)
	api.POST("/guide/diagnosis/detailed", a.postDetailedDiagnosis)
	api.POST("/guide/assessment", a.postAssessment)
	api.POST("/guide/preparedness", a.postPreparedness)
	api.GET("/guide/state", a.getGuideState)
	api.POST("/guide/tasks/:task_id/toggle", a.toggleGuideTask)
	api.POST("/guide/reset", a.resetGuideState)
	api.GET("/guide/export/tasks.csv", a.exportTasksCSV)
	api.POST("/chat/sessions", a.createChatSession)
	api.GET("/chat/sessions", a.listChatSessions)
	api.GET("/chat/sessions/:session_id/messages", a.getChatMessages)
	api.POST("/chat/query", a.chatQuery)

	return router
}

func (a *App) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "careguide-api",
	})
}

func (a *App) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			writeError(c, http.StatusUnauthorized, "Bearer token required")
			return
		}
		tokenString := strings.TrimSpace(authHeader[len("Bearer "):])
		if tokenString == "" {
			writeError(c, http.StatusUnauthorized, "Bearer token required")
			return
		}

		sub, claims, err := a.verifyToken(c.Request.Context(), tokenString)
		if err != nil {
			writeError(c, http.StatusUnauthorized, err.Error())
			return
		}

		user, err := a.getOrCreateUser(c.Request.Context(), sub, claims)
		if err != nil {
			writeError(c, http.StatusUnauthorized, err.Error())
			return
		}

		c.Set("authUser", user)
		c.Next()
	}
}

// verifyToken accepts the app's own HS256 tokens first and falls back to
// Google ID tokens when a client id is configured.
func (a *App) verifyToken(ctx context.Context, tokenString string) (string, map[string]any, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method == nil || token.Method.Alg() != a.cfg.JWTAlgorithm {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(a.cfg.JWTSecret), nil
	})
	if err == nil && token.Valid {
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return "", nil, errors.New("Invalid token payload")
		}
		if a.cfg.JWTAudience != "" && !claimHasAudience(claims["aud"], a.cfg.JWTAudience) {
			return "", nil, errors.New("Invalid token audience")
		}
		if a.cfg.JWTIssuer != "" {
			issuer, _ := claims["iss"].(string)
			if issuer != a.cfg.JWTIssuer {
				return "", nil, errors.New("Invalid token issuer")
			}
		}
		sub, _ := claims["sub"].(string)
		sub = strings.TrimSpace(sub)
		if sub == "" {
			return "", nil, errors.New("Token subject missing")
		}
		return sub, claims, nil
	}

	if a.cfg.GoogleOAuthClientID != "" {
		payload, idErr := idtoken.Validate(ctx, tokenString, a.cfg.GoogleOAuthClientID)
		if idErr == nil {
			sub := strings.TrimSpace(payload.Subject)
			if sub == "" {
				return "", nil, errors.New("Token subject missing")
			}
			claims := map[string]any{"provider": "google"}
			for key, value := range payload.Claims {
				claims[key] = value
			}
			return "google:" + sub, claims, nil
		}
	}

	return "", nil, errors.New("Invalid bearer token")
}

func claimHasAudience(value any, audience string) bool {
	switch v := value.(type) {
	case string:
		return v == audience
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == audience {
				return true
			}
		}
	case []string:
		for _, item := range v {
			if item == audience {
				return true
			}
		}
	}
	return false
}

func providerFromClaim(raw any) string {
	if s, ok := raw.(string); ok {
		switch s {
		case "google", "line", "local":
			return s
		}
	}
	return "local"
}

func toOptionalString(raw any) *string {
	if s, ok := raw.(string); ok {
		trimmed := strings.TrimSpace(s)
		if trimmed != "" {
			return &trimmed
		}
	}
	return nil
}

func (a *App) getOrCreateUser(ctx context.Context, userID string, claims map[string]any) (AuthUser, error) {
	user := AuthUser{}
	var providerUID *string

	err := a.db.QueryRow(
		ctx,
		`SELECT id, provider, "providerUid", name FROM "User" WHERE id = $1`,
		userID,
	).Scan(&user.ID, &user.Provider, &providerUID, &user.Name)
	if err == nil {
		user.ProviderUID = providerUID
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return AuthUser{}, err
	}
	if !a.cfg.AuthAutoCreateUser {
		return AuthUser{}, errors.New("User not found")
	}

	provider := providerFromClaim(claims["provider"])
	providerUID = toOptionalString(claims["provider_uid"])

	name := ""
	if rawName, ok := claims["name"].(string); ok {
		name = strings.TrimSpace(rawName)
	}
	if name == "" {
		name = fmt.Sprintf("user-%s", truncate(userID, 8))
	}

	if _, err := a.db.Exec(
		ctx,
		`INSERT INTO "User" (id, provider, "providerUid", name, "createdAt")
		 VALUES ($1, $2, $3, $4, NOW())`,
		userID,
		provider,
		providerUID,
		name,
	); err != nil {
		return AuthUser{}, err
	}

	return AuthUser{
		ID:          userID,
		Provider:    provider,
		ProviderUID: providerUID,
		Name:        name,
	}, nil
}

// ensureUserRow inserts a user row when one does not exist yet. Used by
// the dev token and test login routes, which create users explicitly
// regardless of AuthAutoCreateUser.
func (a *App) ensureUserRow(ctx context.Context, userID, provider, name string) error {
	_, err := a.db.Exec(
		ctx,
		`INSERT INTO "User" (id, provider, "providerUid", name, "createdAt")
		 VALUES ($1, $2, NULL, $3, NOW())
		 ON CONFLICT (id) DO NOTHING`,
		userID,
		provider,
		name,
	)
	return err
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return value[:limit]
}

func authUserFromContext(c *gin.Context) (AuthUser, bool) {
	raw, ok := c.Get("authUser")
	if !ok {
		return AuthUser{}, false
	}
	user, ok := raw.(AuthUser)
	return user, ok
}

func writeError(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

func mustJSON(c *gin.Context, payload any) bool {
	if err := c.ShouldBindJSON(payload); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}
