package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// newTestPasswordService returns a PasswordService with the minimum bcrypt
// cost. Cost 4 makes each hash take milliseconds instead of ~250ms.
func newTestPasswordService() *PasswordService {
	return NewPasswordServiceWithCost(bcrypt.MinCost)
}

func TestHash_ProducesDifferentHashesForSamePassword(t *testing.T) {
	ps := newTestPasswordService()

	hash1, err := ps.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	hash2, err := ps.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	// The embedded random salt must make equal plaintexts hash differently.
	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for the same password — salt missing?")
	}

	// Yet both must verify against the original plaintext.
	if err := ps.Verify(hash1, "same-password"); err != nil {
		t.Errorf("Verify(hash1) failed: %v", err)
	}
	if err := ps.Verify(hash2, "same-password"); err != nil {
		t.Errorf("Verify(hash2) failed: %v", err)
	}
}

func TestHash_RejectsOverlongPassword(t *testing.T) {
	ps := newTestPasswordService()

	_, err := ps.Hash(strings.Repeat("a", 73))
	if err == nil {
		t.Fatal("Hash() should reject passwords longer than 72 bytes")
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("correct-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if err := ps.Verify(hash, "wrong-password"); err == nil {
		t.Fatal("Verify() should fail for the wrong password")
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	ps := newTestPasswordService()

	cases := []struct {
		name string
		hash string
	}{
		{"garbage", "not-a-valid-bcrypt-hash"},
		{"empty", ""},
		{"truncated", "$2a$04$tooShort"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Malformed input must fail verification, never panic.
			if err := ps.Verify(tc.hash, "password"); err == nil {
				t.Errorf("Verify(%q) should return an error", tc.hash)
			}
		})
	}
}

func TestHashVerify_RoundTrip(t *testing.T) {
	ps := newTestPasswordService()

	cases := []struct {
		name     string
		password string
	}{
		{"simple alphanumeric", "hello123"},
		{"special characters", "p@$$w0rd!#%"},
		{"unicode", "пароль-密码"},
		{"whitespace", "  leading and trailing  "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hash, err := ps.Hash(tc.password)
			if err != nil {
				t.Fatalf("Hash(%q) error = %v", tc.password, err)
			}

			if err := ps.Verify(hash, tc.password); err != nil {
				t.Errorf("Verify() failed for %q: %v", tc.password, err)
			}
		})
	}
}
