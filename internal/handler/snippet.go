package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/pastebin/internal/auth"
	"github.com/sakif/pastebin/internal/model"
	"github.com/sakif/pastebin/internal/service"
)

// SnippetHandler serves the snippet CRUD endpoints.
type SnippetHandler struct {
	snippets *service.SnippetService
	logger   *slog.Logger
}

// NewSnippetHandler creates a SnippetHandler.
func NewSnippetHandler(snippets *service.SnippetService, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{
		snippets: snippets,
		logger:   logger,
	}
}

// createSnippetRequest deliberately has no owner field. Ownership comes from
// the token; anything owner-shaped a client puts in the body is ignored by
// construction because there is nothing here to decode it into.
type createSnippetRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Language string `json:"language"`
}

// HandleCreate saves a new snippet owned by the caller.
//
// HTTP: POST /api/snippets (behind RequireAuth)
// 200 with the stored snippet, ownerId set from the token's subject.
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	var req createSnippetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid snippet JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	snippet, err := h.snippets.Create(r.Context(), identity.UserID, req.Title, req.Content, req.Language)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// HandleGetByID returns a single snippet.
//
// HTTP: GET /api/snippets/{id} — public, no token required. Share-by-link
// reads are the product model; see DESIGN.md for the access decision.
func (h *SnippetHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	snippet, err := h.snippets.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// HandleList returns the caller's own snippets.
//
// HTTP: GET /api/snippets (behind RequireAuth)
// The response never contains another owner's snippet — the query itself is
// scoped by the token's subject.
func (h *SnippetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	snippets, err := h.snippets.ListByOwner(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if snippets == nil {
		snippets = []model.Snippet{} // JSON [] instead of null
	}

	writeJSON(w, http.StatusOK, snippets)
}

// HandleDelete removes a snippet.
//
// HTTP: DELETE /api/snippets/{id} (behind RequireAuth; owner or admin)
// 200 {"message": ...} | 403 non-owner | 404 unknown id
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	err := h.snippets.Delete(r.Context(), r.PathValue("id"), identity.UserID, identity.Role == model.RoleAdmin)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Snippet deleted successfully"})
}
