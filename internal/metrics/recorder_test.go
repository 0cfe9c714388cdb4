package metrics

import (
	"sync"
	"time"
)

// testRecorder counts calls so packages' tests can assert on instrumentation.
type testRecorder struct {
	mu            sync.Mutex
	syncDurations int
	syncOutcomes  map[string]int
	syncResults   map[ResultLabel]int
	renders       map[string]map[ResultLabel]int
	requests      map[string]int
}

var _ Recorder = (*testRecorder)(nil)
var _ Recorder = NoopRecorder{}
var _ Recorder = (*PrometheusRecorder)(nil)

func newTestRecorder() *testRecorder {
	return &testRecorder{
		syncOutcomes: map[string]int{},
		syncResults:  map[ResultLabel]int{},
		renders:      map[string]map[ResultLabel]int{},
		requests:     map[string]int{},
	}
}

func (t *testRecorder) ObserveSyncDuration(time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.syncDurations++
}

func (t *testRecorder) IncSyncOutcome(rule, status string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.syncOutcomes[rule+"/"+status]++
}

func (t *testRecorder) IncSyncResult(result ResultLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.syncResults[result]++
}

func (t *testRecorder) ObserveRenderDuration(string, time.Duration, bool) {}

func (t *testRecorder) IncRenderResult(profile string, result ResultLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.renders[profile]
	if !ok {
		m = map[ResultLabel]int{}
		t.renders[profile] = m
	}
	m[result]++
}

func (t *testRecorder) ObserveHTTPRequest(route string, _ int, _ time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.requests[route]++
}
