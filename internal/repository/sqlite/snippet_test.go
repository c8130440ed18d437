package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/pastebin/internal/apperror"
	"github.com/sakif/pastebin/internal/model"
)

// createTestSnippet creates a snippet for ownerID and fails the test on error.
func createTestSnippet(t *testing.T, db *DB, ownerID int64, title string) *model.Snippet {
	t.Helper()
	snippet := &model.Snippet{
		Title:    title,
		Content:  "print('hello')",
		Language: "python",
		OwnerID:  ownerID,
	}
	if err := db.Create(context.Background(), snippet); err != nil {
		t.Fatalf("failed to create test snippet: %v", err)
	}
	return snippet
}

func TestSnippetCreate(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner", model.RoleUser)

	snippet := &model.Snippet{
		Title:    "Hello World",
		Content:  "print('hello')",
		Language: "python",
		OwnerID:  owner.ID,
	}

	if err := db.Create(context.Background(), snippet); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if snippet.ID == "" {
		t.Error("Create() did not set snippet.ID")
	}
	if snippet.CreatedAt.IsZero() {
		t.Error("Create() did not set snippet.CreatedAt")
	}
}

func TestSnippetCreate_UnknownOwnerRejected(t *testing.T) {
	db := newTestDB(t)

	// owner_id references users(id); foreign keys are ON.
	snippet := &model.Snippet{
		Title:   "orphan",
		OwnerID: 12345,
	}
	if err := db.Create(context.Background(), snippet); err == nil {
		t.Fatal("Create() should fail for a nonexistent owner")
	}
}

func TestSnippetGetByID(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner", model.RoleUser)
	created := createTestSnippet(t, db, owner.ID, "my paste")

	found, err := db.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if found.Title != "my paste" {
		t.Errorf("Title = %q, want %q", found.Title, "my paste")
	}
	if found.OwnerID != owner.ID {
		t.Errorf("OwnerID = %d, want %d", found.OwnerID, owner.ID)
	}
	if found.Language != "python" {
		t.Errorf("Language = %q, want %q", found.Language, "python")
	}
}

func TestSnippetGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByID(context.Background(), "nonexistent-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestListByOwner_ScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", model.RoleUser)
	bob := createTestUser(t, db, "bob", model.RoleUser)

	createTestSnippet(t, db, alice.ID, "alice 1")
	createTestSnippet(t, db, bob.ID, "bob 1")
	createTestSnippet(t, db, alice.ID, "alice 2")

	snippets, err := db.ListByOwner(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}

	if len(snippets) != 2 {
		t.Fatalf("ListByOwner() returned %d snippets, want 2", len(snippets))
	}
	// A snippet belonging to a different owner must never leak in.
	for _, s := range snippets {
		if s.OwnerID != alice.ID {
			t.Errorf("ListByOwner() leaked snippet %q owned by %d", s.ID, s.OwnerID)
		}
	}
	// Insertion order.
	if snippets[0].Title != "alice 1" || snippets[1].Title != "alice 2" {
		t.Errorf("ListByOwner() order = [%q, %q], want insertion order",
			snippets[0].Title, snippets[1].Title)
	}
}

func TestListByOwner_Empty(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "lonely", model.RoleUser)

	snippets, err := db.ListByOwner(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(snippets) != 0 {
		t.Errorf("ListByOwner() = %d snippets on empty db, want 0", len(snippets))
	}
}

func TestSnippetDelete(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner", model.RoleUser)
	created := createTestSnippet(t, db, owner.ID, "doomed")

	if err := db.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := db.GetByID(context.Background(), created.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
}

func TestSnippetDelete_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Delete(context.Background(), "nonexistent-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}
