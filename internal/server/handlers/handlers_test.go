package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/humanagencyprotocol/hapsite/internal/foundation/errors"
	"github.com/humanagencyprotocol/hapsite/internal/server/responses"
)

type stubRenderer struct {
	body    string
	err     error
	profile string
	version string
}

func (s *stubRenderer) Render(_ context.Context, profile, version string) (string, error) {
	s.profile, s.version = profile, version
	return s.body, s.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestContextHandler_Success(t *testing.T) {
	r := &stubRenderer{body: "# Context\n\n---\n\nP"}
	h := NewContextHandlers(r, "0.1", quietLogger()).Handler("context")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/context.txt", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "# Context\n\n---\n\nP", rec.Body.String())
	assert.Equal(t, "context", r.profile)
	assert.Equal(t, "0.1", r.version)
}

func TestContextHandler_Head(t *testing.T) {
	h := NewContextHandlers(&stubRenderer{body: "abc"}, "0.1", quietLogger()).Handler("context")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/context.txt", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3", rec.Header().Get("Content-Length"))
	assert.Empty(t, rec.Body.String())
}

func TestContextHandler_MethodNotAllowed(t *testing.T) {
	h := NewContextHandlers(&stubRenderer{}, "0.1", quietLogger()).Handler("context")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/context.txt", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
}

func TestContextHandler_MissingDocumentIs500(t *testing.T) {
	err := derrors.ContentError("required document is missing").
		WithContext("document", "governance").
		WithContext("path", "/srv/content/0.1/governance.md").
		Build()
	h := NewContextHandlers(&stubRenderer{err: err}, "0.1", quietLogger()).Handler("context")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/context.txt", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"required document is missing","code":"content"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "/srv/content")
}

func TestHealthCheck(t *testing.T) {
	h := NewMonitoringHandlers("0.1", []string{"context", "sdk-context"}, quietLogger())

	rec := httptest.NewRecorder()
	h.HandleHealthCheck(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got responses.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "healthy", got.Status)
	assert.Equal(t, "0.1", got.ContentVersion)
	assert.Equal(t, []string{"context", "sdk-context"}, got.Profiles)
}
