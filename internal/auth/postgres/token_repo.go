// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Candystore Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/candystore/candystore/internal/auth"
)

// TokenRepository implements auth.TokenRepository using PostgreSQL.
type TokenRepository struct {
	pool poolIface
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(pool poolIface) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// Insert stores a new token and fills in the generated ID.
//
// A unique violation on the value column means a 128-bit collision, which is
// an integrity fault, not a retryable condition; a foreign-key violation
// means the owning user vanished mid-request. Both map to
// auth.ErrStorageIntegrity. The token value is deliberately absent from the
// error context so it cannot end up in logs.
func (r *TokenRepository) Insert(ctx context.Context, token *auth.Token) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO tokens (value, user_id, expires_at, token_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, token.Value, token.UserID, token.Expires, token.Type).Scan(&token.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return oops.Code("TOKEN_VALUE_COLLISION").
					With("operation", "insert token").
					With("user_id", token.UserID).
					Wrap(auth.ErrStorageIntegrity)
			case pgerrcode.ForeignKeyViolation:
				return oops.Code("TOKEN_OWNER_MISSING").
					With("operation", "insert token").
					With("user_id", token.UserID).
					Wrap(auth.ErrStorageIntegrity)
			}
		}
		return oops.Code("TOKEN_INSERT_FAILED").
			With("operation", "insert token").
			With("user_id", token.UserID).
			Wrap(err)
	}
	return nil
}

// FindValidByValue retrieves the token with the given value whose expiry is
// strictly after now. At most one row can match: value carries a unique
// constraint.
func (r *TokenRepository) FindValidByValue(ctx context.Context, value string, now time.Time) (*auth.Token, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, value, user_id, expires_at, token_type
		FROM tokens
		WHERE value = $1 AND expires_at > $2
	`, value, now)

	var token auth.Token
	err := row.Scan(&token.ID, &token.Value, &token.UserID, &token.Expires, &token.Type)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("TOKEN_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("TOKEN_GET_BY_VALUE_FAILED").
			With("operation", "get token by value").
			Wrap(err)
	}
	return &token, nil
}
