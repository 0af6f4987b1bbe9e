// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Candystore Contributors

package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/candystore/candystore/internal/auth"
	"github.com/candystore/candystore/internal/auth/mocks"
	"github.com/candystore/candystore/pkg/errutil"
)

type serviceFixture struct {
	users     *mocks.MockUserRepository
	tokenRepo *mocks.MockTokenRepository
	hasher    *mocks.MockPasswordHasher
	svc       *auth.Service
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	users := mocks.NewMockUserRepository(t)
	tokenRepo := mocks.NewMockTokenRepository(t)
	hasher := mocks.NewMockPasswordHasher(t)

	store, err := auth.NewTokenStore(tokenRepo, auth.DefaultTokenTTL)
	require.NoError(t, err)
	resolver, err := auth.NewResolver(store, users)
	require.NoError(t, err)
	svc, err := auth.NewService(users, store, resolver, hasher)
	require.NoError(t, err)

	return &serviceFixture{users: users, tokenRepo: tokenRepo, hasher: hasher, svc: svc}
}

// expectTokenInsert wires the token repository to assign IDs like the real
// postgres implementation does.
func (f *serviceFixture) expectTokenInsert(ctx context.Context) {
	f.tokenRepo.On("Insert", ctx, mock.AnythingOfType("*auth.Token")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*auth.Token).ID = 1
		}).
		Return(nil)
}

func TestNewService_NilDependencies(t *testing.T) {
	users := mocks.NewMockUserRepository(t)
	tokenRepo := mocks.NewMockTokenRepository(t)
	hasher := mocks.NewMockPasswordHasher(t)

	store, err := auth.NewTokenStore(tokenRepo, auth.DefaultTokenTTL)
	require.NoError(t, err)
	resolver, err := auth.NewResolver(store, users)
	require.NoError(t, err)

	tests := []struct {
		name     string
		users    auth.UserRepository
		tokens   *auth.TokenStore
		resolver *auth.Resolver
		hasher   auth.PasswordHasher
	}{
		{"nil user repository", nil, store, resolver, hasher},
		{"nil token store", users, nil, resolver, hasher},
		{"nil resolver", users, store, nil, hasher},
		{"nil hasher", users, store, resolver, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := auth.NewService(tt.users, tt.tokens, tt.resolver, tt.hasher)
			require.Error(t, err)
			assert.Nil(t, svc)
		})
	}
}

func TestService_SignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and auto-issues bearer token", func(t *testing.T) {
		f := newServiceFixture(t)

		f.users.On("FindByEmail", ctx, "a@x.com").Return(nil, auth.ErrNotFound)
		f.hasher.On("GenerateSalt").Return("AbCdEfGhIjKl", nil)
		f.hasher.On("Hash", "pw1", "AbCdEfGhIjKl").Return("deadbeef")
		f.users.On("Insert", ctx, mock.AnythingOfType("*auth.User")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*auth.User).ID = 7
			}).
			Return(nil)
		f.expectTokenInsert(ctx)

		user, token, err := f.svc.SignUp(ctx, "a@x.com", "Ann", "pw1")
		require.NoError(t, err)

		assert.Equal(t, "a@x.com", user.Email)
		assert.Equal(t, "Ann", user.Name)
		assert.Equal(t, "AbCdEfGhIjKl$deadbeef", user.HashedPassword)
		assert.True(t, user.IsActive)

		assert.Equal(t, auth.TokenType, token.Type)
		assert.Equal(t, int64(7), token.UserID)
		assert.WithinDuration(t, time.Now().Add(14*24*time.Hour), token.Expires, time.Minute)
	})

	t.Run("existing email fails fast with DuplicateEmail", func(t *testing.T) {
		f := newServiceFixture(t)

		existing := &auth.User{ID: 1, Email: "a@x.com", HashedPassword: "s$h", IsActive: true}
		f.users.On("FindByEmail", ctx, "a@x.com").Return(existing, nil)

		user, token, err := f.svc.SignUp(ctx, "a@x.com", "Ann", "pw1")
		require.ErrorIs(t, err, auth.ErrDuplicateEmail)
		errutil.AssertErrorCode(t, err, "AUTH_DUPLICATE_EMAIL")
		assert.Nil(t, user)
		assert.Nil(t, token, "no token may be issued for a failed sign-up")
	})

	t.Run("losing the insert race still yields DuplicateEmail", func(t *testing.T) {
		// A concurrent sign-up slips between the fast-path check and the
		// insert; the unique constraint reports it and the error kind is
		// identical to the fast path.
		f := newServiceFixture(t)

		f.users.On("FindByEmail", ctx, "a@x.com").Return(nil, auth.ErrNotFound)
		f.hasher.On("GenerateSalt").Return("AbCdEfGhIjKl", nil)
		f.hasher.On("Hash", "pw1", "AbCdEfGhIjKl").Return("deadbeef")
		f.users.On("Insert", ctx, mock.AnythingOfType("*auth.User")).Return(auth.ErrDuplicateEmail)

		_, _, err := f.svc.SignUp(ctx, "a@x.com", "Ann", "pw1")
		require.ErrorIs(t, err, auth.ErrDuplicateEmail)
		errutil.AssertErrorCode(t, err, "AUTH_DUPLICATE_EMAIL")
	})

	t.Run("email comparison is byte-exact", func(t *testing.T) {
		// No normalization: "A@x.com" and "a@x.com" are distinct accounts.
		f := newServiceFixture(t)

		f.users.On("FindByEmail", ctx, "A@x.com").Return(nil, auth.ErrNotFound)
		f.hasher.On("GenerateSalt").Return("AbCdEfGhIjKl", nil)
		f.hasher.On("Hash", "pw1", "AbCdEfGhIjKl").Return("deadbeef")
		f.users.On("Insert", ctx, mock.MatchedBy(func(u *auth.User) bool {
			return u.Email == "A@x.com"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*auth.User).ID = 8
		}).Return(nil)
		f.expectTokenInsert(ctx)

		user, _, err := f.svc.SignUp(ctx, "A@x.com", "Ann", "pw1")
		require.NoError(t, err)
		assert.Equal(t, "A@x.com", user.Email)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a fresh token on success", func(t *testing.T) {
		f := newServiceFixture(t)

		user := &auth.User{ID: 7, Email: "a@x.com", HashedPassword: "salt$digest", IsActive: true}
		f.users.On("FindByEmail", ctx, "a@x.com").Return(user, nil)
		f.hasher.On("Verify", "pw1", "salt$digest").Return(true, nil)
		f.expectTokenInsert(ctx)

		token, err := f.svc.Login(ctx, "a@x.com", "pw1")
		require.NoError(t, err)
		assert.Equal(t, auth.TokenType, token.Type)
		assert.Equal(t, int64(7), token.UserID)
		assert.Regexp(t, "^[0-9a-f]{32}$", token.Value)
	})

	t.Run("wrong password and unknown email return the identical error", func(t *testing.T) {
		wrongPassword := func(f *serviceFixture) {
			user := &auth.User{ID: 7, Email: "a@x.com", HashedPassword: "salt$digest", IsActive: true}
			f.users.On("FindByEmail", ctx, "a@x.com").Return(user, nil)
			f.hasher.On("Verify", "wrong", "salt$digest").Return(false, nil)
		}
		unknownEmail := func(f *serviceFixture) {
			f.users.On("FindByEmail", ctx, "a@x.com").Return(nil, auth.ErrNotFound)
			// The dummy record is still verified so timing stays flat.
			f.hasher.On("Verify", "wrong", mock.AnythingOfType("string")).Return(false, nil)
		}

		var messages []string
		for name, setup := range map[string]func(*serviceFixture){
			"wrong password": wrongPassword,
			"unknown email":  unknownEmail,
		} {
			t.Run(name, func(t *testing.T) {
				f := newServiceFixture(t)
				setup(f)

				token, err := f.svc.Login(ctx, "a@x.com", "wrong")
				require.ErrorIs(t, err, auth.ErrInvalidCredentials)
				errutil.AssertErrorCode(t, err, "AUTH_INVALID_CREDENTIALS")
				assert.Nil(t, token)
				messages = append(messages, err.Error())
			})
		}
		require.Len(t, messages, 2)
		assert.Equal(t, messages[0], messages[1], "the two failures must be indistinguishable")
	})

	t.Run("malformed stored record for an unknown email is still invalid credentials", func(t *testing.T) {
		f := newServiceFixture(t)

		f.users.On("FindByEmail", ctx, "missing@x.com").Return(nil, auth.ErrNotFound)
		f.hasher.On("Verify", "pw1", mock.AnythingOfType("string")).Return(false, auth.ErrMalformedCredential)

		_, err := f.svc.Login(ctx, "missing@x.com", "pw1")
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("malformed stored record for a real user is a server-side failure", func(t *testing.T) {
		f := newServiceFixture(t)

		user := &auth.User{ID: 7, Email: "a@x.com", HashedPassword: "no-delimiter", IsActive: true}
		f.users.On("FindByEmail", ctx, "a@x.com").Return(user, nil)
		f.hasher.On("Verify", "pw1", "no-delimiter").Return(false, auth.ErrMalformedCredential)

		_, err := f.svc.Login(ctx, "a@x.com", "pw1")
		require.ErrorIs(t, err, auth.ErrMalformedCredential)
		assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
		errutil.AssertErrorCode(t, err, "AUTH_LOGIN_FAILED")
	})

	t.Run("login does not invalidate prior tokens", func(t *testing.T) {
		f := newServiceFixture(t)

		user := &auth.User{ID: 7, Email: "a@x.com", HashedPassword: "salt$digest", IsActive: true}
		f.users.On("FindByEmail", ctx, "a@x.com").Return(user, nil).Twice()
		f.hasher.On("Verify", "pw1", "salt$digest").Return(true, nil).Twice()
		// Insert only; the token repository sees no deletes or updates.
		f.tokenRepo.On("Insert", ctx, mock.AnythingOfType("*auth.Token")).Return(nil).Twice()

		first, err := f.svc.Login(ctx, "a@x.com", "pw1")
		require.NoError(t, err)
		second, err := f.svc.Login(ctx, "a@x.com", "pw1")
		require.NoError(t, err)
		assert.NotEqual(t, first.Value, second.Value)
	})
}

func TestService_CurrentUser(t *testing.T) {
	ctx := context.Background()
	const tokenValue = "d41d8cd98f00b204e9800998ecf8427e"

	t.Run("returns the active owner", func(t *testing.T) {
		f := newServiceFixture(t)

		token := &auth.Token{ID: 1, Value: tokenValue, UserID: 7, Expires: time.Now().Add(time.Hour), Type: auth.TokenType}
		owner := &auth.User{ID: 7, Email: "a@x.com", IsActive: true}
		f.tokenRepo.On("FindValidByValue", ctx, tokenValue, mock.AnythingOfType("time.Time")).Return(token, nil)
		f.users.On("FindByID", ctx, int64(7)).Return(owner, nil)

		user, err := f.svc.CurrentUser(ctx, tokenValue)
		require.NoError(t, err)
		assert.Equal(t, owner, user)
	})

	t.Run("invalid token is unauthenticated", func(t *testing.T) {
		f := newServiceFixture(t)

		f.tokenRepo.On("FindValidByValue", ctx, tokenValue, mock.AnythingOfType("time.Time")).Return(nil, auth.ErrNotFound)

		_, err := f.svc.CurrentUser(ctx, tokenValue)
		require.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("deactivated owner is a distinct error kind", func(t *testing.T) {
		f := newServiceFixture(t)

		token := &auth.Token{ID: 1, Value: tokenValue, UserID: 7, Expires: time.Now().Add(time.Hour), Type: auth.TokenType}
		owner := &auth.User{ID: 7, Email: "a@x.com", IsActive: false}
		f.tokenRepo.On("FindValidByValue", ctx, tokenValue, mock.AnythingOfType("time.Time")).Return(token, nil)
		f.users.On("FindByID", ctx, int64(7)).Return(owner, nil)

		_, err := f.svc.CurrentUser(ctx, tokenValue)
		require.ErrorIs(t, err, auth.ErrInactiveAccount)
		assert.NotErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("storage failure is not an error the resolver invents", func(t *testing.T) {
		f := newServiceFixture(t)

		f.tokenRepo.On("FindValidByValue", ctx, tokenValue, mock.AnythingOfType("time.Time")).Return(nil, errors.New("connection refused"))

		_, err := f.svc.CurrentUser(ctx, tokenValue)
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrUnauthenticated)
	})
}
