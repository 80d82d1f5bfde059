package middlewares

import (
	"net/http"
	"strings"

	"github.com/geocoder89/worklog/internal/actorctx"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type failureCounter interface {
	IncAuthFailure(source string)
}

type AuthMiddleware struct {
	jwt     TokenVerifier
	metrics failureCounter
}

func NewAuthMiddleware(jwt TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

func (m *AuthMiddleware) WithMetrics(metrics failureCounter) *AuthMiddleware {
	m.metrics = metrics
	return m
}

// Authenticate returns the user id carried by a valid bearer token. A missing
// header, another scheme, an empty token and a token that fails verification
// all look the same to the caller.
func (m *AuthMiddleware) Authenticate(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}

	raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if raw == "" {
		return "", false
	}

	userID, err := m.jwt.Verify(raw)
	if err != nil || userID == "" {
		return "", false
	}
	return userID, true
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := m.Authenticate(c.Request)
		if !ok {
			if m.metrics != nil {
				m.metrics.IncAuthFailure("token")
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Unauthorized",
				"code":      "unauthorized",
				"requestId": c.GetString(CtxRequestID),
			})
			return
		}

		c.Set(CtxUserID, userID)
		c.Request = c.Request.WithContext(actorctx.WithUserID(c.Request.Context(), userID))

		c.Next()
	}
}

// UserIDFromContext lets handlers read the authenticated id without knowing
// the context key.
func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
