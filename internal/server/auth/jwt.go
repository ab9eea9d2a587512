// Package auth issues and verifies the signed, time-boxed session tokens
// that act as bearer credentials for authenticated accounts.
package auth

import (
	"fmt"
	"time"

	"github.com/arcadia-platform/arcadia-auth/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carried by a session token. Subject holds the account id, ID holds
// a unique token identifier (jti) reserved for future revocation, and
// ExpiresAt is always IssuedAt plus the configured lifetime.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
}

// Manager signs and verifies session tokens with a shared HMAC secret.
type Manager struct {
	secret   []byte
	method   jwt.SigningMethod
	lifetime time.Duration
}

// NewManager validates the algorithm name (HMAC family only) and returns a
// Manager issuing tokens valid for the given lifetime.
func NewManager(secret, algorithm string, lifetime time.Duration) (*Manager, error) {
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &Manager{
		secret:   []byte(secret),
		method:   method,
		lifetime: lifetime,
	}, nil
}

// Issue builds and signs a token for the account.
func (m *Manager) Issue(accountID, username string) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(m.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
		},
		Username: username,
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// Verify checks the signature and expiry of the presented token and returns
// its claims. Decoding, signature and expiry failures all collapse to
// common.ErrInvalidToken so callers cannot tell which check rejected the
// token.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{m.method.Alg()}),
	)
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
