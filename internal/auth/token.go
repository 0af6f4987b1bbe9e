// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Candystore Contributors

package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/samber/oops"
)

// Token configuration.
const (
	// TokenType is the only token type issued.
	TokenType = "bearer"

	// DefaultTokenTTL is the token lifetime used unless configured.
	DefaultTokenTTL = 14 * 24 * time.Hour

	// tokenValueBytes yields a 32-character hex value (128 random bits).
	tokenValueBytes = 16
)

// Token is an opaque bearer credential. Tokens are created at sign-up and
// login, never updated, and never actively deleted; expired rows stay behind
// as inert data. A user may hold any number of concurrently valid tokens.
type Token struct {
	ID      int64
	Value   string
	UserID  int64
	Expires time.Time
	Type    string
}

// ValidAt reports whether the token is still valid at the given instant.
// A token expiring exactly at that instant is already expired.
func (t *Token) ValidAt(now time.Time) bool {
	return t.Expires.After(now)
}

// GenerateTokenValue returns a fresh 32-character hex token value.
func GenerateTokenValue() (string, error) {
	buf := make([]byte, tokenValueBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", oops.Code("AUTH_TOKEN_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			With("requested_bytes", tokenValueBytes).
			Wrap(err)
	}
	return hex.EncodeToString(buf), nil
}

// TokenRepository manages token persistence.
type TokenRepository interface {
	// Insert stores a new token and fills in the generated ID.
	// A colliding token value returns ErrStorageIntegrity.
	Insert(ctx context.Context, token *Token) error

	// FindValidByValue retrieves the token with the given value whose expiry
	// is strictly after now. Returns ErrNotFound if no such token exists.
	FindValidByValue(ctx context.Context, value string, now time.Time) (*Token, error)
}

// TokenStore issues and looks up bearer tokens.
type TokenStore struct {
	tokens TokenRepository
	ttl    time.Duration

	// now is the wall-clock seam; overridden in tests.
	now func() time.Time
}

// NewTokenStore creates a TokenStore. A non-positive ttl falls back to
// DefaultTokenTTL.
func NewTokenStore(tokens TokenRepository, ttl time.Duration) (*TokenStore, error) {
	if tokens == nil {
		return nil, oops.Errorf("token repository is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenStore{tokens: tokens, ttl: ttl, now: time.Now}, nil
}

// Issue creates, persists, and returns a fresh bearer token for a user.
// Previously issued tokens are left untouched.
func (s *TokenStore) Issue(ctx context.Context, userID int64) (*Token, error) {
	value, err := GenerateTokenValue()
	if err != nil {
		return nil, err
	}

	token := &Token{
		Value:   value,
		UserID:  userID,
		Expires: s.now().Add(s.ttl),
		Type:    TokenType,
	}

	// A value collision inside the 128-bit space is an integrity violation,
	// not a retryable condition. The token value stays out of the error
	// context so it never reaches the logs.
	if err := s.tokens.Insert(ctx, token); err != nil {
		return nil, oops.Code("AUTH_TOKEN_ISSUE_FAILED").
			With("operation", "insert token").
			With("user_id", userID).
			Wrap(err)
	}

	return token, nil
}

// FindValid retrieves the unexpired token with the given value.
// Returns ErrNotFound if the value is unknown or the token has expired.
func (s *TokenStore) FindValid(ctx context.Context, value string) (*Token, error) {
	token, err := s.tokens.FindValidByValue(ctx, value, s.now())
	if err != nil {
		return nil, err
	}
	return token, nil
}
