// Package jwtmw issues and verifies signed identity tokens and provides the
// Gin middleware that guards authenticated routes.
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every verification failure: bad signature,
// malformed token, wrong algorithm, missing subject or expiry.
var ErrInvalidToken = errors.New("invalid authentication credentials")

// Identity is the authenticated caller extracted from a verified token.
type Identity struct {
	UserID string
}

// Generator defines the interface for JWT token generation.
type Generator interface {
	// GenerateToken creates a signed JWT token whose subject is userID.
	GenerateToken(userID string) (string, error)
}

// Verifier defines the interface for JWT token verification.
type Verifier interface {
	// VerifyToken returns the identity carried by a valid token, or ErrInvalidToken.
	VerifyToken(tokenStr string) (Identity, error)
}

// Service implements both Generator and Verifier with a single HMAC key.
type Service struct {
	secret     []byte
	method     jwt.SigningMethod
	expiration time.Duration
	now        func() time.Time
}

var (
	_ Generator = (*Service)(nil)
	_ Verifier  = (*Service)(nil)
)

// NewService creates a token service. Only HMAC algorithms are accepted.
func NewService(secret, algorithm string, expiration time.Duration) (*Service, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	if expiration <= 0 {
		return nil, fmt.Errorf("jwt expiration must be positive, got %v", expiration)
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", algorithm)
	}
	return &Service{
		secret:     []byte(secret),
		method:     method,
		expiration: expiration,
		now:        time.Now,
	}, nil
}

// NewServiceFromConfig creates a token service from a loaded Config.
func NewServiceFromConfig(cfg Config) (*Service, error) {
	return NewService(cfg.Secret, cfg.Algorithm, cfg.Expiration)
}

// GenerateToken creates a signed JWT token with sub, iat and exp claims.
func (s *Service) GenerateToken(userID string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
	}

	token := jwt.NewWithClaims(s.method, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken checks the signature and expiry and returns the subject.
// The payload is never trusted before the signature is verified.
func (s *Service) VerifyToken(tokenStr string) (Identity, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: claims.Subject}, nil
}
