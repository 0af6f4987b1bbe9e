// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Candystore Contributors

package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 parameters. The iteration count is configurable on the hasher so it
// can be raised later; records are stored as "<salt>$<hex digest>" and the
// delimiter never appears in hex output.
const (
	// DefaultHashIterations is the PBKDF2 work factor used unless configured.
	DefaultHashIterations = 100_000

	// SaltLength is the number of printable ASCII letters in a salt.
	SaltLength = 12

	digestLength = sha256.Size
)

const saltAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// PasswordHasher provides salted password hashing and verification.
type PasswordHasher interface {
	// GenerateSalt returns a fresh random salt of SaltLength ASCII letters.
	GenerateSalt() (string, error)

	// Hash derives a hex-encoded digest from a password and salt.
	// Deterministic: the same inputs always produce the same output.
	Hash(password, salt string) string

	// Verify checks a password against a stored "<salt>$<digest>" record.
	// Returns (false, error) if the record is malformed.
	Verify(password, stored string) (bool, error)
}

// PBKDF2Hasher implements PasswordHasher using PBKDF2-HMAC-SHA256.
type PBKDF2Hasher struct {
	iterations int
}

// NewPBKDF2Hasher creates a PBKDF2Hasher. A non-positive iteration count
// falls back to DefaultHashIterations.
func NewPBKDF2Hasher(iterations int) *PBKDF2Hasher {
	if iterations <= 0 {
		iterations = DefaultHashIterations
	}
	return &PBKDF2Hasher{iterations: iterations}
}

// GenerateSalt returns a fresh random salt of SaltLength ASCII letters.
func (h *PBKDF2Hasher) GenerateSalt() (string, error) {
	buf := make([]byte, SaltLength)
	if _, err := rand.Read(buf); err != nil {
		return "", oops.Code("AUTH_SALT_FAILED").
			With("operation", "crypto/rand.Read").
			Wrap(err)
	}
	for i, b := range buf {
		buf[i] = saltAlphabet[int(b)%len(saltAlphabet)]
	}
	return string(buf), nil
}

// Hash derives a hex-encoded PBKDF2-SHA256 digest from a password and salt.
func (h *PBKDF2Hasher) Hash(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), h.iterations, digestLength, sha256.New)
	return hex.EncodeToString(key)
}

// Verify checks a password against a stored "<salt>$<digest>" record.
// A record without the delimiter fails closed with ErrMalformedCredential.
func (h *PBKDF2Hasher) Verify(password, stored string) (bool, error) {
	salt, digest, found := strings.Cut(stored, "$")
	if !found {
		return false, oops.Code("AUTH_MALFORMED_CREDENTIAL").
			Wrap(ErrMalformedCredential)
	}
	computed := h.Hash(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1, nil
}
