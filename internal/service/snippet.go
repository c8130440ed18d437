package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/pastebin/internal/apperror"
	"github.com/sakif/pastebin/internal/model"
	"github.com/sakif/pastebin/internal/repository"
)

const (
	MaxTitleLength    = 200
	MaxContentLength  = 100000 // ~100KB of paste
	MaxLanguageLength = 40
)

// SnippetService handles business logic for snippets.
type SnippetService struct {
	repo   repository.SnippetRepository
	logger *slog.Logger
}

// NewSnippetService creates a SnippetService. The caller decides which
// repository implementation to inject (sqlite in production, a fake in tests).
func NewSnippetService(repo repository.SnippetRepository, logger *slog.Logger) *SnippetService {
	return &SnippetService{
		repo:   repo,
		logger: logger,
	}
}

// Create validates and saves a new snippet.
//
// ownerID comes from the authenticated caller's token, never from the
// request body — the handler must not pass through any client-supplied
// owner field. The repository fills in ID and CreatedAt.
func (s *SnippetService) Create(ctx context.Context, ownerID int64, title, content, language string) (*model.Snippet, error) {
	if ownerID <= 0 {
		return nil, apperror.Unauthorized("valid authentication required")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "snippet title is required")
	}
	if len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("snippet title must be %d characters or less", MaxTitleLength))
	}
	if len(content) > MaxContentLength {
		return nil, apperror.ValidationFailed("content",
			fmt.Sprintf("content must be %d characters or less", MaxContentLength))
	}
	language = strings.TrimSpace(language)
	if len(language) > MaxLanguageLength {
		return nil, apperror.ValidationFailed("language",
			fmt.Sprintf("language must be %d characters or less", MaxLanguageLength))
	}

	snippet := &model.Snippet{
		Title:    title,
		Content:  content,
		Language: language,
		OwnerID:  ownerID,
	}

	if err := s.repo.Create(ctx, snippet); err != nil {
		s.logger.Error("failed to create snippet",
			slog.Int64("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	s.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.Int64("ownerID", ownerID),
	)

	return snippet, nil
}

// GetByID retrieves a snippet by its ID. Reads are public — anyone holding
// a snippet's ID can fetch it, which is the share-by-link model.
func (s *SnippetService) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "snippet ID is required")
	}

	return s.repo.GetByID(ctx, id)
}

// ListByOwner returns the caller's own snippets in insertion order.
func (s *SnippetService) ListByOwner(ctx context.Context, ownerID int64) ([]model.Snippet, error) {
	if ownerID <= 0 {
		return nil, apperror.Unauthorized("valid authentication required")
	}

	snippets, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list snippets",
			slog.Int64("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing snippets: %w", err)
	}

	return snippets, nil
}

// Delete removes a snippet on behalf of the caller.
//
// Deletion is owner-or-admin gated. The existence check runs first so an
// unknown ID yields NotFound for everyone; only a snippet that exists and
// belongs to someone else yields Forbidden.
func (s *SnippetService) Delete(ctx context.Context, id string, callerID int64, callerIsAdmin bool) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "snippet ID is required")
	}

	snippet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if snippet.OwnerID != callerID && !callerIsAdmin {
		return apperror.Forbidden("you do not own this snippet")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("snippet deleted",
		slog.String("id", id),
		slog.Int64("callerID", callerID),
	)
	return nil
}
