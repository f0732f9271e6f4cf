package jwtmw

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// TestMain はテスト実行前にGinをテストモードに設定します。
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService("test-secret-key", "HS256", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

// TestAuthRequired_MissingBearerToken はBearerトークンがない場合やスキームが不正な場合に401が返されることを検証します。
func TestAuthRequired_MissingBearerToken(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name       string
		authHeader string
	}{
		{"no header", ""},
		{"basic auth", "Basic dXNlcjpwYXNz"},
		{"no space after Bearer", "Bearertoken123"},
		{"bearer without token", "Bearer "},
		{"bearer with blank token", "Bearer    "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				c.Request.Header.Set("Authorization", tt.authHeader)
			}

			AuthRequired(svc)(c)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
			}
			if !c.IsAborted() {
				t.Error("expected request to be aborted")
			}
			if got := w.Header().Get("WWW-Authenticate"); got != "Bearer" {
				t.Errorf("expected WWW-Authenticate Bearer, got %q", got)
			}
		})
	}
}

// TestAuthRequired_InvalidToken は不正なトークン（改ざん・期限切れ等）で401が返されることを検証します。
func TestAuthRequired_InvalidToken(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name  string
		token string
	}{
		{"malformed token", "not.a.valid.token"},
		{"random string", "randomstring"},
		{"wrong secret", createToken(jwt.SigningMethodHS256, "wrong-secret", jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(time.Hour).Unix()})},
		{"expired token", createToken(jwt.SigningMethodHS256, "test-secret-key", jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(-time.Hour).Unix()})},
		{"none algorithm", createNoneToken()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.Header.Set("Authorization", "Bearer "+tt.token)

			AuthRequired(svc)(c)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
			}
			if _, ok := IdentityFrom(c); ok {
				t.Error("expected no identity in context")
			}
		})
	}
}

// TestAuthRequired_ValidToken は有効なトークンでリクエストが通過し、コンテキストにIdentityが設定されることを検証します。
func TestAuthRequired_ValidToken(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name   string
		scheme string
		userID string
	}{
		{"canonical scheme", "Bearer", "user-1"},
		{"lowercase scheme", "bearer", "user-42"},
		{"uppercase scheme", "BEARER", "user-999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := svc.GenerateToken(tt.userID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.Header.Set("Authorization", tt.scheme+" "+token)

			AuthRequired(svc)(c)

			if c.IsAborted() {
				t.Fatalf("expected request not to be aborted, response: %s", w.Body.String())
			}
			identity, ok := IdentityFrom(c)
			if !ok {
				t.Fatal("expected identity to be set in context")
			}
			if identity.UserID != tt.userID {
				t.Errorf("expected userID %q, got %q", tt.userID, identity.UserID)
			}
		})
	}
}

func TestIdentityFrom_WrongType(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(ContextUserID, "not-an-identity")

	if _, ok := IdentityFrom(c); ok {
		t.Error("expected ok=false for non-Identity value")
	}
}
