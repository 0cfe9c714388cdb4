package metrics

import "time"

// ResultLabel enumerates result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks. Implementations may forward to
// Prometheus or any other backend.
type Recorder interface {
	ObserveSyncDuration(d time.Duration)
	IncSyncOutcome(rule, status string) // status: copied|transformed|unchanged|missing
	IncSyncResult(result ResultLabel)
	ObserveRenderDuration(profile string, d time.Duration, success bool)
	IncRenderResult(profile string, result ResultLabel)
	ObserveHTTPRequest(route string, status int, d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveSyncDuration(time.Duration)                 {}
func (NoopRecorder) IncSyncOutcome(string, string)                     {}
func (NoopRecorder) IncSyncResult(ResultLabel)                         {}
func (NoopRecorder) ObserveRenderDuration(string, time.Duration, bool) {}
func (NoopRecorder) IncRenderResult(string, ResultLabel)               {}
func (NoopRecorder) ObserveHTTPRequest(string, int, time.Duration)     {}
