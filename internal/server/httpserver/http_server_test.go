package httpserver

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humanagencyprotocol/hapsite/internal/contextdump"
	"github.com/humanagencyprotocol/hapsite/internal/metrics"
	"github.com/humanagencyprotocol/hapsite/internal/storage"
)

func newTestServer(t *testing.T, content map[string]string, opts Options) *Server {
	t.Helper()
	reg, err := contextdump.DefaultRegistry()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	agg := contextdump.NewAggregator(reg, contextdump.Stores{
		"content": storage.NewMemoryStore("content", content),
		"site": storage.NewMemoryStore("site", map[string]string{
			"src/sdk-docs/README.md":            "R",
			"src/sdk-docs/API.md":               "A",
			"src/sdk-docs/LOCAL_DEVELOPMENT.md": "L",
		}),
	}, contextdump.WithLogger(logger))
	opts.Logger = logger
	return New(agg, opts)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRoutes(t *testing.T) {
	s := newTestServer(t, map[string]string{
		"0.1/protocol.md":   "P",
		"0.1/service.md":    "S",
		"0.1/governance.md": "G",
	}, Options{Version: "0.1"})
	h := s.Handler()

	rec := get(t, h, "/context.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "# Human Agency Protocol - Complete Context"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = get(t, h, "/sdk-context.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# API Reference\n\nA")

	rec = get(t, h, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"content_version":"0.1"`)

	rec = get(t, h, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// No metrics handler configured.
	rec = get(t, h, "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoutes_MissingRequiredDocument(t *testing.T) {
	s := newTestServer(t, map[string]string{"0.1/protocol.md": "P"}, Options{Version: "0.1"})

	rec := get(t, s.Handler(), "/context.txt")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"content"`)
}

func TestRoutes_Metrics(t *testing.T) {
	pr := metrics.NewPrometheusRecorder(nil)
	s := newTestServer(t, nil, Options{Version: "0.1", Recorder: pr, PrometheusHandler: metrics.HTTPHandler(pr.Registry())})

	_ = get(t, s.Handler(), "/healthz")
	rec := get(t, s.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `hapsite_http_requests_total{code="200",route="/healthz"} 1`)
}

func TestStartStop(t *testing.T) {
	s := newTestServer(t, map[string]string{
		"0.1/protocol.md":   "P",
		"0.1/service.md":    "S",
		"0.1/governance.md": "G",
	}, Options{Addr: "127.0.0.1:0", Version: "0.1"})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, s.Start(ctx))

	resp, err := http.Get("http://" + s.Addr() + "/context.txt")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "\n\n---\n\nP\n\n---\n\nS\n\n---\n\nG\n\n---\n\n")

	require.NoError(t, s.Stop(ctx))
}

func TestStart_AddressInUse(t *testing.T) {
	first := newTestServer(t, nil, Options{Addr: "127.0.0.1:0"})
	require.NoError(t, first.Start(context.Background()))
	defer func() { _ = first.Stop(context.Background()) }()

	second := newTestServer(t, nil, Options{Addr: first.Addr()})
	err := second.Start(context.Background())
	require.Error(t, err)
}
