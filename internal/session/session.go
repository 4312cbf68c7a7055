// Package session issues and validates the signed demo session tokens handed
// out on wallet connect and used as chat session ids.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultIssuer = "bloompad"

// Manager signs and parses HS256 session tokens.
type Manager struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
	nowFn      func() time.Time
}

// NewManager wires a Manager.
func NewManager(signingKey string, ttl time.Duration, now func() time.Time) (*Manager, error) {
	if strings.TrimSpace(signingKey) == "" {
		return nil, errors.New("session: signing key is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if now == nil {
		now = time.Now
	}
	return &Manager{
		signingKey: []byte(signingKey),
		issuer:     defaultIssuer,
		ttl:        ttl,
		nowFn:      now,
	}, nil
}

// Issue mints a session token bound to the wallet address.
func (manager *Manager) Issue(address string) (string, error) {
	now := manager.nowFn().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    manager.issuer,
		Subject:   address,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(manager.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(manager.signingKey)
	if err != nil {
		return "", fmt.Errorf("session: sign token: %w", err)
	}
	return signed, nil
}

// SessionID resolves a chat session id from a presented token. A valid signed
// token maps to its stable token id; any other non-empty value is kept as an
// opaque session id so free-form clients still get transcript continuity; an
// empty value gets a fresh anonymous id. Resolution never fails the demo.
func (manager *Manager) SessionID(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return uuid.NewString()
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(trimmed, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("session: unexpected signing method %v", token.Header["alg"])
		}
		return manager.signingKey, nil
	}, jwt.WithIssuer(manager.issuer), jwt.WithTimeFunc(func() time.Time { return manager.nowFn() }))
	if err != nil || claims.ID == "" {
		return trimmed
	}
	return claims.ID
}
