package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sakif/pastebin/internal/apperror"
	"github.com/sakif/pastebin/internal/model"
	"github.com/sakif/pastebin/internal/repository"
)

// Compile-time check that *DB implements repository.UserRepository.
var _ repository.UserRepository = (*DB)(nil)

// Create inserts a new user account.
//
// The UNIQUE constraint on username is the single source of truth for
// duplicate detection — checking with a prior SELECT would race with
// concurrent registrations. The constraint violation is translated into
// apperror.ErrConflict so the handler can map it to the right status.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	user.CreatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, role, github_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.Username,
		user.PasswordHash,
		user.Role,
		user.GitHubID,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("username already exists")
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	// LastInsertId returns the AUTOINCREMENT value — the caller's struct is
	// updated in place, same as the generated timestamps.
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}
	user.ID = id

	return nil
}

// GetByUsername retrieves a user by their unique username.
// Returns apperror.ErrNotFound if no such user exists.
func (db *DB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return db.scanUser(db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, github_id, created_at
		 FROM users WHERE username = ?`,
		username,
	), username)
}

// GetByID retrieves a user by their numeric ID.
//
// This is the lookup behind the admin account-info endpoint. The id is bound
// as a query parameter; it must never be interpolated into the SQL string.
func (db *DB) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return db.scanUser(db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, github_id, created_at
		 FROM users WHERE id = ?`,
		id,
	), fmt.Sprintf("%d", id))
}

// CountAdmins returns the number of users holding the admin role.
// Used by the startup seeding step to decide whether to create the
// default admin account.
func (db *DB) CountAdmins(ctx context.Context) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role = ?`, model.RoleAdmin,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting admins: %w", err)
	}
	return count, nil
}

// UpsertGitHub inserts or refreshes a user keyed by their GitHub ID.
//
// First OAuth login inserts a row; later logins keep the existing internal
// ID (tokens and snippet ownership reference it) and only refresh the
// username in case it changed on GitHub.
func (db *DB) UpsertGitHub(ctx context.Context, user *model.User) error {
	if user.GitHubID == nil {
		return fmt.Errorf("sqlite: upserting GitHub user: missing github_id")
	}

	existing, err := db.scanUserErr(db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, github_id, created_at
		 FROM users WHERE github_id = ?`,
		*user.GitHubID,
	))
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: looking up user by github_id %d: %w", *user.GitHubID, err)
	}

	if existing != nil {
		_, err = db.conn.ExecContext(ctx,
			`UPDATE users SET username = ? WHERE id = ?`,
			user.Username, existing.ID,
		)
		if err != nil {
			if isUniqueViolation(err) {
				// Username collision with another account — keep the old name.
				*user = *existing
				return nil
			}
			return fmt.Errorf("sqlite: updating user %d: %w", existing.ID, err)
		}
		existing.Username = user.Username
		*user = *existing
		return nil
	}

	return db.Create(ctx, user)
}

// scanUser reads a single user row, translating sql.ErrNoRows into NotFound.
func (db *DB) scanUser(row *sql.Row, ref string) (*model.User, error) {
	u, err := db.scanUserErr(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", ref)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", ref, err)
	}
	return u, nil
}

func (db *DB) scanUserErr(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.Role,
		&u.GitHubID,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint error.
// modernc.org/sqlite doesn't export a typed error for this, so we match the
// stable message prefix the engine produces.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
