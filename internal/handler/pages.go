package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
)

// PagesHandler serves the browser client. Templates are parsed once at
// startup and reused — parsing per request would be wasted work.
type PagesHandler struct {
	templates *template.Template
	logger    *slog.Logger
}

// NewPagesHandler parses the HTML templates in templateDir.
// base.html defines the page shell; editor.html fills its "content" block.
func NewPagesHandler(templateDir string, logger *slog.Logger) (*PagesHandler, error) {
	tmpl, err := template.ParseFiles(
		filepath.Join(templateDir, "base.html"),
		filepath.Join(templateDir, "editor.html"),
	)
	if err != nil {
		return nil, err
	}

	return &PagesHandler{
		templates: tmpl,
		logger:    logger,
	}, nil
}

// HandleIndex serves the editor/list page at GET /.
func (h *PagesHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Title": "Pastebin",
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := h.templates.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render template", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
