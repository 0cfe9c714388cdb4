package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "hapsite"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg            *prom.Registry
	syncDuration   prom.Histogram
	syncOutcomes   *prom.CounterVec
	syncResults    *prom.CounterVec
	renderDuration *prom.HistogramVec
	renderResults  *prom.CounterVec
	httpDuration   *prom.HistogramVec
	httpRequests   *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg,
// creating a fresh registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.syncDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "sync_duration_seconds",
		Help:      "Duration of content sync runs",
		Buckets:   prom.DefBuckets,
	})
	pr.syncOutcomes = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "sync_rule_outcomes_total",
		Help:      "Sync rule outcomes by rule and status",
	}, []string{"rule", "status"})
	pr.syncResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "sync_runs_total",
		Help:      "Sync runs by final result",
	}, []string{"result"})
	pr.renderDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "context_render_duration_seconds",
		Help:      "Duration of context document assembly",
		Buckets:   prom.DefBuckets,
	}, []string{"profile", "result"})
	pr.renderResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "context_render_results_total",
		Help:      "Context renders by profile and result",
	}, []string{"profile", "result"})
	pr.httpDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   prom.DefBuckets,
	}, []string{"route"})
	pr.httpRequests = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status code",
	}, []string{"route", "code"})
	reg.MustRegister(pr.syncDuration, pr.syncOutcomes, pr.syncResults,
		pr.renderDuration, pr.renderResults, pr.httpDuration, pr.httpRequests)
	return pr
}

// Registry returns the registry the recorder's collectors live in.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.reg
}

func (p *PrometheusRecorder) ObserveSyncDuration(d time.Duration) {
	if p == nil || p.syncDuration == nil {
		return
	}
	p.syncDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncSyncOutcome(rule, status string) {
	if p == nil || p.syncOutcomes == nil {
		return
	}
	p.syncOutcomes.WithLabelValues(rule, status).Inc()
}

func (p *PrometheusRecorder) IncSyncResult(result ResultLabel) {
	if p == nil || p.syncResults == nil {
		return
	}
	p.syncResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveRenderDuration(profile string, d time.Duration, success bool) {
	if p == nil || p.renderDuration == nil {
		return
	}
	res := string(ResultFailed)
	if success {
		res = string(ResultSuccess)
	}
	p.renderDuration.WithLabelValues(profile, res).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRenderResult(profile string, result ResultLabel) {
	if p == nil || p.renderResults == nil {
		return
	}
	p.renderResults.WithLabelValues(profile, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveHTTPRequest(route string, status int, d time.Duration) {
	if p == nil || p.httpRequests == nil {
		return
	}
	p.httpDuration.WithLabelValues(route).Observe(d.Seconds())
	p.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
