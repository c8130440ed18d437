package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/pastebin/internal/service"
)

// AdminHandler serves the admin diagnostics endpoints.
type AdminHandler struct {
	auths  *service.AuthService
	logger *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(auths *service.AuthService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		auths:  auths,
		logger: logger,
	}
}

// HandleTest confirms the caller passed both auth gates.
//
// HTTP: GET /api/admin/test (behind RequireAuth + RequireAdmin)
func (h *AdminHandler) HandleTest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Admin test endpoint accessed successfully",
	})
}

// HandleTestOpen is an unauthenticated liveness ping.
//
// HTTP: GET /api/admin/testOpen
func (h *AdminHandler) HandleTestOpen(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Test endpoint is working!",
	})
}

// HandleAccountInfo looks up a user record by numeric ID.
//
// HTTP: GET /api/admin/accountInfo?id=N (behind RequireAuth + RequireAdmin)
//
// The id is parsed with strconv before anything touches the database, and
// the repository binds it as a query parameter. The password hash never
// appears in the response (the model hides it from JSON).
func (h *AdminHandler) HandleAccountInfo(w http.ResponseWriter, r *http.Request) {
	idParam := r.URL.Query().Get("id")
	if idParam == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "missing user ID parameter",
		})
		return
	}

	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "user ID must be an integer",
		})
		return
	}

	user, err := h.auths.GetUserByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
