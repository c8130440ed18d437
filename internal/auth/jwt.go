// Package auth provides JWT token generation and validation for the pastebin API.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. User registers with username/password (bcrypt-hashed before storage)
// 2. POST /api/auth/login verifies the password and issues a JWT
// 3. The client sends "Authorization: Bearer <token>" on protected requests
// 4. Middleware validates the JWT and puts the Identity in the request context
//
// There is no session table: everything the middleware needs — user ID,
// username, role, expiry — travels inside the signed token, and the HMAC
// signature makes the claims tamper-proof without a database round trip.
// The flip side is that an issued token cannot be revoked; a stolen one
// works until it expires, which is why the lifetime is a flat 4 hours.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sakif/pastebin/internal/model"
)

// TokenTTL is the absolute lifetime of an issued token. After this window
// the client must log in again — there are no refresh tokens.
const TokenTTL = 4 * time.Hour

const issuer = "pastebin"

// Identity is what a validated token proves about the caller.
// It is derived entirely from token claims — no database lookup involved.
type Identity struct {
	UserID   int64
	Username string
	Role     string
}

// claims is the JWT payload. It embeds jwt.RegisteredClaims (sub, exp, iat,
// iss) and adds the username and role so authorization decisions can be made
// without touching the database.
type claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret key used to sign and verify tokens. The same
// secret must be used for both operations — keep it safe and rotate it
// periodically in production.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// Generate creates and signs a new access token for the given user.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, same key signs and
// verifies. The "sub" claim carries the user ID; username and role ride
// along as custom claims.
func (s *TokenService) Generate(user *model.User) (string, error) {
	return s.GenerateWithDuration(user, TokenTTL)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Used by tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(user *model.User, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns the Identity it encodes.
//
// Four things have to hold before a token is accepted: the signature
// verifies against our secret, the expiry (which must be present) is in the
// future with no clock-skew allowance, the issuer claim is "pastebin", and
// the algorithm in the header is HS256. The algorithm pin matters — a token
// whose header claims "none" or an RSA variant must fail before signature
// checking, not be verified under attacker-chosen rules.
func (s *TokenService) Validate(tokenStr string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: token expired")
		}
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("auth: token subject is not a valid user ID")
	}

	return &Identity{
		UserID:   userID,
		Username: c.Username,
		Role:     c.Role,
	}, nil
}
