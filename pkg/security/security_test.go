package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Glenne01/sneakers-sub000/internal/config"
	"github.com/Glenne01/sneakers-sub000/pkg/roles"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testTokenManager(ttl time.Duration) *TokenManager {
	return NewTokenManager(config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  ttl,
	})
}

func TestJWTMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := testTokenManager(time.Hour)

	router := gin.New()
	router.Use(tokens.JWTMiddleware())
	router.GET("/protected", func(c *gin.Context) {
		userID, _ := c.Get("userID")
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})

	t.Run("valid token passes and exposes the staff id", func(t *testing.T) {
		token, err := tokens.GenerateJWT(7, "manager", "mlambert")
		assert.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":7`)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		expired := testTokenManager(-time.Minute)
		token, err := expired.GenerateJWT(7, "manager", "mlambert")
		assert.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if role := c.GetHeader("X-Test-Role"); role != "" {
			c.Set("role", role)
		}
	})
	router.DELETE("/admin-only", Authorize(roles.Admin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name           string
		role           string
		expectedStatus int
	}{
		{"admin allowed", "admin", http.StatusOK},
		{"manager denied", "manager", http.StatusForbidden},
		{"staff denied", "staff", http.StatusForbidden},
		{"no role denied", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("DELETE", "/admin-only", nil)
			if tt.role != "" {
				req.Header.Set("X-Test-Role", tt.role)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
