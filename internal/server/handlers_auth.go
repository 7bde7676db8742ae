package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const devTokenTTL = 24 * time.Hour

// issueLocalDevToken mints a bearer token for local frontend development.
// Hidden outside the local environment so the route cannot leak into
// deployed instances.
func (a *App) issueLocalDevToken(c *gin.Context) {
	if !strings.EqualFold(strings.TrimSpace(a.cfg.AppEnv), "local") {
		writeError(c, http.StatusNotFound, "Not found")
		return
	}

	sub := strings.TrimSpace(c.Query("sub"))
	if sub == "" {
		sub = uuid.NewString()
	} else if _, err := uuid.Parse(sub); err != nil {
		writeError(c, http.StatusBadRequest, "sub must be UUID format")
		return
	}

	if err := a.ensureUserRow(c.Request.Context(), sub, "local", "dev-"+truncate(sub, 8)); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to prepare local user")
		return
	}

	token, err := a.signUserToken(sub)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to sign token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"sub":        sub,
		"expires_in": int(devTokenTTL.Seconds()),
	})
}

type testLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// testLogin is a fixed-credential login for QA environments. Both the
// email and password come from config; the route is invisible unless
// explicitly enabled.
func (a *App) testLogin(c *gin.Context) {
	if !a.cfg.TestLoginEnabled ||
		strings.TrimSpace(a.cfg.TestLoginEmail) == "" ||
		a.cfg.TestLoginPassword == "" {
		writeError(c, http.StatusNotFound, "Not found")
		return
	}

	var payload testLoginRequest
	if !mustJSON(c, &payload) {
		return
	}

	emailOK := subtle.ConstantTimeCompare(
		[]byte(strings.ToLower(strings.TrimSpace(payload.Email))),
		[]byte(strings.ToLower(strings.TrimSpace(a.cfg.TestLoginEmail))),
	) == 1
	passwordOK := subtle.ConstantTimeCompare(
		[]byte(payload.Password),
		[]byte(a.cfg.TestLoginPassword),
	) == 1
	if !emailOK || !passwordOK {
		writeError(c, http.StatusUnauthorized, "Invalid test credentials")
		return
	}

	sub := uuid.NewSHA1(uuid.NameSpaceURL, []byte("test-login:"+strings.ToLower(a.cfg.TestLoginEmail))).String()
	name := strings.TrimSpace(a.cfg.TestLoginName)
	if name == "" {
		name = "Test User"
	}
	if err := a.ensureUserRow(c.Request.Context(), sub, "local", name); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to prepare test user")
		return
	}

	token, err := a.signUserToken(sub)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to sign token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"sub":   sub,
		"name":  name,
	})
}

func (a *App) signUserToken(sub string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": sub,
		"iat": now.Unix(),
		"exp": now.Add(devTokenTTL).Unix(),
	}
	if a.cfg.JWTAudience != "" {
		claims["aud"] = a.cfg.JWTAudience
	}
	if a.cfg.JWTIssuer != "" {
		claims["iss"] = a.cfg.JWTIssuer
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.cfg.JWTSecret))
}
