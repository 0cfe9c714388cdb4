package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	derrors "github.com/humanagencyprotocol/hapsite/internal/foundation/errors"
)

// Renderer assembles a context profile for a version.
type Renderer interface {
	Render(ctx context.Context, profile, version string) (string, error)
}

// ContextHandlers serves assembled context documents.
type ContextHandlers struct {
	renderer     Renderer
	version      string
	errorAdapter *derrors.HTTPErrorAdapter
}

// NewContextHandlers creates handlers rendering every request for version.
func NewContextHandlers(renderer Renderer, version string, logger *slog.Logger) *ContextHandlers {
	return &ContextHandlers{
		renderer:     renderer,
		version:      version,
		errorAdapter: derrors.NewHTTPErrorAdapter(logger),
	}
}

// Handler returns the handler for one profile. Each request re-reads the
// documents; failures surface as error responses, never as partial text.
func (h *ContextHandlers) Handler(profile string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowReadOnly(w, r) {
			return
		}
		body, err := h.renderer.Render(r.Context(), profile, h.version)
		if err != nil {
			h.errorAdapter.WriteErrorResponse(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write([]byte(body))
	}
}

// HandleNotFound answers unknown paths with a JSON 404.
func (h *ContextHandlers) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	h.errorAdapter.WriteErrorResponse(w, r, derrors.NotFoundError("not found").
		WithContext("path", r.URL.Path).
		Warning().
		Build())
}
