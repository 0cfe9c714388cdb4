package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, reg *prom.Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveSyncDuration(150 * time.Millisecond)
	pr.IncSyncOutcome("content", "copied")
	pr.IncSyncOutcome("content", "copied")
	pr.IncSyncOutcome("sdk-readme", "missing")
	pr.IncSyncResult(ResultWarning)
	pr.ObserveRenderDuration("context", 3*time.Millisecond, true)
	pr.IncRenderResult("sdk-context", ResultFailed)
	pr.ObserveHTTPRequest("/context.txt", http.StatusOK, time.Millisecond)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 7)

	body := scrape(t, reg)
	assert.Contains(t, body, `hapsite_sync_rule_outcomes_total{rule="content",status="copied"} 2`)
	assert.Contains(t, body, `hapsite_sync_rule_outcomes_total{rule="sdk-readme",status="missing"} 1`)
	assert.Contains(t, body, `hapsite_sync_runs_total{result="warning"} 1`)
	assert.Contains(t, body, `hapsite_context_render_results_total{profile="sdk-context",result="failed"} 1`)
	assert.Contains(t, body, `hapsite_http_requests_total{code="200",route="/context.txt"} 1`)
}

func TestPrometheusRecorder_NilReceiver(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveSyncDuration(time.Second)
		pr.IncSyncOutcome("content", "copied")
		pr.IncRenderResult("context", ResultSuccess)
		pr.ObserveHTTPRequest("/", http.StatusOK, time.Second)
	})
}

func TestNewPrometheusRecorder_OwnRegistry(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	require.NotNil(t, pr.Registry())
	pr.IncSyncResult(ResultSuccess)
	assert.Contains(t, scrape(t, pr.Registry()), `hapsite_sync_runs_total{result="success"} 1`)
}
