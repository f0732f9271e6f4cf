package jwtmw

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestNewService は各種設定でServiceが正しく生成されることを検証します。
func TestNewService(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		secret     string
		algorithm  string
		expiration time.Duration
		wantErr    bool
	}{
		{"standard config", "my-secret-key", "HS256", time.Hour, false},
		{"hs512", "secret", "HS512", 24 * time.Hour * 30, false},
		{"short expiration", "s", "HS384", time.Minute, false},
		{"empty secret", "", "HS256", time.Hour, true},
		{"rsa algorithm rejected", "secret", "RS256", time.Hour, true},
		{"none algorithm rejected", "secret", "none", time.Hour, true},
		{"unknown algorithm", "secret", "XX999", time.Hour, true},
		{"zero expiration", "secret", "HS256", 0, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, err := NewService(tt.secret, tt.algorithm, tt.expiration)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(svc.secret) != tt.secret {
				t.Errorf("expected secret %q, got %q", tt.secret, string(svc.secret))
			}
			if svc.method.Alg() != tt.algorithm {
				t.Errorf("expected algorithm %q, got %q", tt.algorithm, svc.method.Alg())
			}
			if svc.expiration != tt.expiration {
				t.Errorf("expected expiration %v, got %v", tt.expiration, svc.expiration)
			}
		})
	}
}

// TestService_GenerateToken は生成されたJWTトークンが有効で正しいクレームを含むことを検証します。
func TestService_GenerateToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		userID     string
		expiration time.Duration
	}{
		{"basic user", "6f1c2d3e-0000-4000-8000-000000000001", time.Hour},
		{"object id style", "656e1f0a9b1e8a3c4d5e6f70", time.Hour},
		{"long lived", "user-999999", 24 * time.Hour},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, err := NewService("test-secret", "HS256", tt.expiration)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tokenStr, err := svc.GenerateToken(tt.userID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tokenStr == "" {
				t.Fatal("expected non-empty token")
			}

			token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
				return []byte("test-secret"), nil
			})
			if err != nil {
				t.Fatalf("failed to parse token: %v", err)
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				t.Fatal("expected MapClaims")
			}
			if sub, ok := claims["sub"].(string); !ok || sub != tt.userID {
				t.Errorf("expected sub %q, got %v", tt.userID, claims["sub"])
			}
			if _, ok := claims["exp"]; !ok {
				t.Error("expected exp claim to be set")
			}
			if _, ok := claims["iat"]; !ok {
				t.Error("expected iat claim to be set")
			}
		})
	}
}

// TestService_GenerateToken_Expiration はexp = iat + 有効期間であることを検証します。
func TestService_GenerateToken_Expiration(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc, _ := NewService("test-secret", "HS256", 2*time.Hour)
	svc.now = func() time.Time { return fixed }

	tokenStr, err := svc.GenerateToken("user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims := &jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(tokenStr, claims)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}

	if !claims.IssuedAt.Time.Equal(fixed) {
		t.Errorf("expected iat %v, got %v", fixed, claims.IssuedAt.Time)
	}
	if !claims.ExpiresAt.Time.Equal(fixed.Add(2 * time.Hour)) {
		t.Errorf("expected exp %v, got %v", fixed.Add(2*time.Hour), claims.ExpiresAt.Time)
	}
}

func TestService_VerifyToken_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		alg := alg
		t.Run(alg, func(t *testing.T) {
			t.Parallel()

			svc, _ := NewService("test-secret", alg, time.Hour)
			tokenStr, err := svc.GenerateToken("alice-id")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			identity, err := svc.VerifyToken(tokenStr)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if identity.UserID != "alice-id" {
				t.Errorf("expected subject %q, got %q", "alice-id", identity.UserID)
			}
		})
	}
}

// TestService_VerifyToken_Invalid はすべての検証失敗が同一のErrInvalidTokenになることを検証します。
func TestService_VerifyToken_Invalid(t *testing.T) {
	t.Parallel()

	const secret = "test-secret"
	svc, _ := NewService(secret, "HS256", time.Hour)
	hs512, _ := NewService(secret, "HS512", time.Hour)
	fromHS512, _ := hs512.GenerateToken("user-1")

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"malformed token", "not.a.valid.token"},
		{"random string", "randomstring"},
		{"wrong secret", createToken(jwt.SigningMethodHS256, "wrong-secret", jwt.MapClaims{"sub": "user-1", "exp": time.Now().Add(time.Hour).Unix()})},
		{"expired token", createToken(jwt.SigningMethodHS256, secret, jwt.MapClaims{"sub": "user-1", "exp": time.Now().Add(-time.Hour).Unix()})},
		{"missing exp", createToken(jwt.SigningMethodHS256, secret, jwt.MapClaims{"sub": "user-1"})},
		{"missing sub", createToken(jwt.SigningMethodHS256, secret, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})},
		{"other hmac algorithm", fromHS512},
		{"none algorithm", createNoneToken()},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			identity, err := svc.VerifyToken(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
			if identity.UserID != "" {
				t.Errorf("expected empty identity, got %q", identity.UserID)
			}
		})
	}
}

// TestService_VerifyToken_ExpiryBoundary は現在時刻がexpに達した時点で無効になることを検証します。
func TestService_VerifyToken_ExpiryBoundary(t *testing.T) {
	t.Parallel()

	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc, _ := NewService("test-secret", "HS256", time.Hour)
	svc.now = func() time.Time { return issued }
	tokenStr, _ := svc.GenerateToken("user-1")

	svc.now = func() time.Time { return issued.Add(59 * time.Minute) }
	if _, err := svc.VerifyToken(tokenStr); err != nil {
		t.Errorf("expected token to be valid before expiry, got %v", err)
	}

	svc.now = func() time.Time { return issued.Add(time.Hour + time.Second) }
	if _, err := svc.VerifyToken(tokenStr); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv(EnvKeyJWTSecret, "")
	t.Setenv(EnvKeyJWTAlgorithm, "")
	t.Setenv(EnvKeyJWTExpirationHours, "")

	cfg := LoadConfig()
	if cfg.Secret != DevSecret || cfg.Algorithm != "HS256" || cfg.Expiration != 24*time.Hour {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	t.Setenv(EnvKeyJWTSecret, "prod-secret")
	t.Setenv(EnvKeyJWTAlgorithm, "HS512")
	t.Setenv(EnvKeyJWTExpirationHours, "2")

	cfg = LoadConfig()
	if cfg.Secret != "prod-secret" || cfg.Algorithm != "HS512" || cfg.Expiration != 2*time.Hour {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

// createToken はテスト用に任意のクレームで署名済みトークンを生成します。
func createToken(method jwt.SigningMethod, secret string, claims jwt.MapClaims) string {
	token := jwt.NewWithClaims(method, claims)
	signed, _ := token.SignedString([]byte(secret))
	return signed
}

// createNoneToken は署名なし（alg=none）のトークンを生成します。
func createNoneToken() string {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, _ := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	return signed
}
