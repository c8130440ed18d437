// Package auth — password hashing.
//
// WHY BCRYPT?
// A fast hash (SHA-256, MD5) can be brute-forced at billions of guesses per
// second on commodity GPUs. bcrypt is built to be expensive: each hash takes
// a tunable amount of work, and the cost is stored inside the hash itself so
// it can be raised over time without breaking existing accounts.
//
// bcrypt also generates and embeds a random salt per hash, which means two
// accounts with the same password never share a hash and rainbow tables are
// useless. There is no separate salt column anywhere in the schema.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost targets roughly 200-300ms per hash on current server hardware.
// Slow enough to hurt an attacker, unnoticeable on a login form.
const defaultCost = 12

// PasswordService hashes and verifies passwords.
//
// The cost lives in a struct field rather than a package constant so tests
// can inject bcrypt.MinCost and hash in microseconds — the code under test
// is identical either way.
type PasswordService struct {
	cost int
}

// NewPasswordService returns a PasswordService at the production cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceWithCost returns a PasswordService with an explicit cost.
// Meant for tests (bcrypt.MinCost); never lower the cost in production.
func NewPasswordServiceWithCost(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash bcrypt-hashes a plaintext password.
//
// The result is self-describing — algorithm version, cost, salt, and digest
// in one string — so it goes straight into the password_hash column and
// Verify can decode it without any extra bookkeeping.
//
// bcrypt silently truncates input beyond 72 bytes, which would make
// "secret...<72 bytes>...A" and "secret...<72 bytes>...B" the same password.
// Longer inputs are rejected here instead.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash; nil means match.
//
// Any malformed stored hash — including the empty string on accounts created
// through OAuth, which have no password at all — comes back as an error, so
// password login against such an account always fails cleanly. The
// comparison itself is constant-time inside bcrypt.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid password")
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
