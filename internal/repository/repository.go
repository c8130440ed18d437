// Package repository defines the storage interfaces the service layer
// programs against. Concrete implementations live in subpackages (sqlite).
package repository

import (
	"context"

	"github.com/sakif/pastebin/internal/model"
)

// UserRepository persists user accounts.
//
// Create fails with apperror.ErrConflict when the username is taken.
// All lookups are parameterized — implementations must never build SQL by
// string concatenation.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	CountAdmins(ctx context.Context) (int, error)
	UpsertGitHub(ctx context.Context, user *model.User) error
}

// SnippetRepository persists snippets.
//
// ListByOwner returns snippets in insertion order; no other ordering is
// guaranteed. There is no update operation — clients re-save as a new
// snippet instead of editing.
type SnippetRepository interface {
	Create(ctx context.Context, snippet *model.Snippet) error
	GetByID(ctx context.Context, id string) (*model.Snippet, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Snippet, error)
	Delete(ctx context.Context, id string) error
}
