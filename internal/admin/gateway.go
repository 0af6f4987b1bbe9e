// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Candystore Contributors

package admin

import (
	"context"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/candystore/candystore/internal/auth"
)

// Gateway logs admins in and out and authenticates their sessions.
type Gateway struct {
	auth     *auth.Service
	sessions *SessionRegistry
	logger   *slog.Logger
}

// NewGateway creates an admin gateway.
func NewGateway(authService *auth.Service, sessions *SessionRegistry) (*Gateway, error) {
	return NewGatewayWithLogger(authService, sessions, slog.Default())
}

// NewGatewayWithLogger creates an admin gateway with an explicit logger.
func NewGatewayWithLogger(authService *auth.Service, sessions *SessionRegistry, logger *slog.Logger) (*Gateway, error) {
	if authService == nil {
		return nil, oops.Code("ADMIN_INIT_FAILED").Errorf("auth service is required")
	}
	if sessions == nil {
		return nil, oops.Code("ADMIN_INIT_FAILED").Errorf("session registry is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{auth: authService, sessions: sessions, logger: logger}, nil
}

// Login verifies credentials, issues a bearer token, and opens a session
// bound to it. Credential failures pass through unchanged so callers cannot
// distinguish an unknown email from a wrong password.
func (g *Gateway) Login(ctx context.Context, email, password string) (*Session, error) {
	token, err := g.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	session := g.sessions.Put(token.UserID, token.Value)
	g.logger.Info("admin session opened", "session_id", session.ID.String(), "user_id", session.UserID)
	return session, nil
}

// Authenticate resolves a session id back to its active user. The bearer
// token stored in the session is re-validated, so an expired token or a
// deactivated account invalidates the session even though it is still in
// the registry.
func (g *Gateway) Authenticate(ctx context.Context, sessionID ulid.ULID) (*auth.User, error) {
	session := g.sessions.Get(sessionID)
	if session == nil {
		return nil, oops.Code("AUTH_UNAUTHENTICATED").
			With("reason", "unknown session").
			Wrap(auth.ErrUnauthenticated)
	}

	user, err := g.auth.CurrentUser(ctx, session.TokenValue)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Logout closes a session. Unknown session ids are ignored; logout is
// idempotent.
func (g *Gateway) Logout(sessionID ulid.ULID) {
	if session := g.sessions.Get(sessionID); session != nil {
		g.logger.Info("admin session closed", "session_id", sessionID.String(), "user_id", session.UserID)
	}
	g.sessions.Delete(sessionID)
}
