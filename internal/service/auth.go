// Package service contains the business logic layer of the application.
//
// Handlers parse HTTP and write responses; services validate, enforce rules,
// and orchestrate; repositories read and write the database. Services accept
// primitives and return domain errors — they know nothing about HTTP, which
// is what makes them testable with plain function calls and swappable fakes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/pastebin/internal/apperror"
	"github.com/sakif/pastebin/internal/auth"
	"github.com/sakif/pastebin/internal/model"
	"github.com/sakif/pastebin/internal/repository"
)

const (
	MaxUsernameLength = 50
	MaxPasswordLength = 72 // bcrypt input limit

	// DefaultAdminPassword seeds the bootstrap admin account. A well-known
	// weak default — deliberate, documented in the README, overridable via
	// ADMIN_PASSWORD. Do not ship production systems without overriding it.
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin"
)

// credentialsMessage is the single message for every login failure.
// Unknown username and wrong password must be indistinguishable to the
// caller, otherwise the endpoint becomes a username oracle.
const credentialsMessage = "invalid username or password"

// AuthService handles registration, login, and the admin bootstrap.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user record and the issued token so the handler
// can respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new account.
//
// Role handling matches the public API contract: the string "admin"
// (case-insensitive) yields the admin role, anything else — including the
// empty string — yields "user". The username must be unique; a duplicate
// surfaces as apperror.ErrConflict straight from the repository's UNIQUE
// constraint, so concurrent registrations can't both win.
func (s *AuthService) Register(ctx context.Context, username, password, role string) (*model.User, error) {
	username = strings.TrimSpace(username)

	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if len(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d characters or less", MaxUsernameLength))
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}
	if len(password) > MaxPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be %d bytes or less", MaxPasswordLength))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         normalizeRole(role),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("username", user.Username),
		slog.String("role", user.Role),
	)

	return user, nil
}

// Login verifies credentials and issues a token.
//
// Every failure path returns the same Unauthorized error. Note that an
// account created through GitHub OAuth has an empty password hash, so
// password login for it always fails here — bcrypt rejects the malformed
// (empty) hash rather than matching anything.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, apperror.Unauthorized(credentialsMessage)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized(credentialsMessage)
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %d: %w", user.ID, err)
	}

	s.logger.Info("user logged in",
		slog.Int64("userID", user.ID),
		slog.String("username", user.Username),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// GetUserByID returns the user for the given internal ID. Used by /api/me
// and the admin account-info endpoint after the middleware has established
// the caller's identity.
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	if id <= 0 {
		return nil, apperror.ValidationFailed("id", "user ID must be positive")
	}
	return s.users.GetByID(ctx, id)
}

// EnsureAdminUser seeds the bootstrap admin account if no admin exists yet.
//
// Runs once at process startup, guarded by an existence check, so it is
// idempotent: restarting the server never creates a second admin, and an
// admin renamed or demoted by an operator is not resurrected as long as
// another admin exists.
func (s *AuthService) EnsureAdminUser(ctx context.Context, password string) error {
	count, err := s.users.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("service/auth: checking for existing admin: %w", err)
	}
	if count > 0 {
		return nil
	}

	if password == "" {
		password = DefaultAdminPassword
		s.logger.Warn("seeding admin account with the default password — set ADMIN_PASSWORD")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return fmt.Errorf("service/auth: hashing admin password: %w", err)
	}

	admin := &model.User{
		Username:     DefaultAdminUsername,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("service/auth: seeding admin user: %w", err)
	}

	s.logger.Info("admin account seeded", slog.Int64("userID", admin.ID))
	return nil
}

// LoginOrRegisterGitHub handles the GitHub OAuth callback: upsert the local
// account keyed by GitHub ID, then issue a token.
//
// OAuth accounts always get the "user" role — there is no path from GitHub
// login to admin. If the GitHub login name is already taken by a password
// account, the username gets a "-gh<id>" suffix instead of failing the flow.
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}

	ghID := ghUser.ID
	user := &model.User{
		Username: ghUser.Login,
		Role:     model.RoleUser,
		GitHubID: &ghID,
	}

	err := s.users.UpsertGitHub(ctx, user)
	if err != nil && errors.Is(err, apperror.ErrConflict) {
		user.Username = fmt.Sprintf("%s-gh%d", ghUser.Login, ghUser.ID)
		err = s.users.UpsertGitHub(ctx, user)
	}
	if err != nil {
		return nil, fmt.Errorf("service/auth: upserting GitHub user %d: %w", ghUser.ID, err)
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %d: %w", user.ID, err)
	}

	s.logger.Info("user authenticated via GitHub",
		slog.Int64("userID", user.ID),
		slog.String("username", user.Username),
	)

	return &AuthResult{User: user, Token: token}, nil
}

func normalizeRole(role string) string {
	if strings.EqualFold(strings.TrimSpace(role), model.RoleAdmin) {
		return model.RoleAdmin
	}
	return model.RoleUser
}
