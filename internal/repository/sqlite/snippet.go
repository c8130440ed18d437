package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/pastebin/internal/apperror"
	"github.com/sakif/pastebin/internal/model"
	"github.com/sakif/pastebin/internal/repository"
)

// Compile-time check that *DB implements repository.SnippetRepository.
var _ repository.SnippetRepository = (*DB)(nil)

// Create inserts a new snippet.
//
// The ID is generated here with xid: 20 chars, URL-safe, and sortable by
// creation time — which is also what makes ListByOwner's insertion-order
// guarantee cheap (ORDER BY created_at, id).
//
// OwnerID must already be set by the service layer from the authenticated
// caller; this function trusts it and persists it unchanged.
func (db *DB) Create(ctx context.Context, snippet *model.Snippet) error {
	snippet.ID = xid.New().String()
	snippet.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO snippets (id, title, content, language, owner_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		snippet.ID,
		snippet.Title,
		snippet.Content,
		snippet.Language,
		snippet.OwnerID,
		snippet.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}

	return nil
}

// GetByID retrieves a single snippet by its ID.
// Returns apperror.ErrNotFound if no snippet exists with that ID.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	var s model.Snippet

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, content, language, owner_id, created_at
		 FROM snippets
		 WHERE id = ?`,
		id,
	).Scan(
		&s.ID,
		&s.Title,
		&s.Content,
		&s.Language,
		&s.OwnerID,
		&s.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, fmt.Errorf("sqlite: getting snippet %s: %w", id, err)
	}

	return &s, nil
}

// ListByOwner returns all snippets belonging to ownerID, oldest first
// (insertion order). The WHERE clause is the ownership boundary — a snippet
// belonging to a different owner can never appear in the result.
func (db *DB) ListByOwner(ctx context.Context, ownerID int64) ([]model.Snippet, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, content, language, owner_id, created_at
		 FROM snippets
		 WHERE owner_id = ?
		 ORDER BY created_at, id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets for owner %d: %w", ownerID, err)
	}
	defer rows.Close()

	snippets := []model.Snippet{}
	for rows.Next() {
		var s model.Snippet
		if err := rows.Scan(
			&s.ID, &s.Title, &s.Content, &s.Language,
			&s.OwnerID, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		snippets = append(snippets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}

	return snippets, nil
}

// Delete removes a snippet by its ID.
// RowsAffected distinguishes "deleted" from "never existed" in one query.
func (db *DB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM snippets WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting snippet %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", id)
	}

	return nil
}
