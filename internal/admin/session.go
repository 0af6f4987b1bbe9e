// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Candystore Contributors

// Package admin provides the session-backed login used by the back-office
// panel. A session pairs a server-side id with the bearer token issued at
// login; requests are re-validated against the token on every call, so
// token expiry ends the session.
package admin

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Session is one admin panel login.
type Session struct {
	ID         ulid.ULID
	UserID     int64
	TokenValue string
	CreatedAt  time.Time
}

// copySession returns a defensive copy so callers cannot mutate registry state.
func copySession(s *Session) *Session {
	clone := *s
	return &clone
}

// SessionRegistry holds active admin sessions in memory. Sessions do not
// survive a restart; admins simply log in again.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[ulid.ULID]*Session
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[ulid.ULID]*Session)}
}

// Put stores a new session and returns its generated id.
func (r *SessionRegistry) Put(userID int64, tokenValue string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	session := &Session{
		ID:         ulid.Make(),
		UserID:     userID,
		TokenValue: tokenValue,
		CreatedAt:  time.Now(),
	}
	r.sessions[session.ID] = session
	return copySession(session)
}

// Get returns a copy of a session, or nil if it does not exist.
func (r *SessionRegistry) Get(id ulid.ULID) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, exists := r.sessions[id]
	if !exists {
		return nil
	}
	return copySession(session)
}

// Delete removes a session. Deleting an unknown id is a no-op.
func (r *SessionRegistry) Delete(id ulid.ULID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len returns the number of active sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
