package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecorderImplementations(t *testing.T) {
	for name, r := range map[string]Recorder{"noop": NoopRecorder{}, "counting": newTestRecorder()} {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				r.ObserveSyncDuration(time.Second)
				r.IncSyncOutcome("content", "copied")
				r.IncSyncResult(ResultSuccess)
				r.ObserveRenderDuration("context", time.Millisecond, true)
				r.IncRenderResult("context", ResultSuccess)
				r.ObserveHTTPRequest("/context.txt", 200, time.Millisecond)
			})
		})
	}

	tr := newTestRecorder()
	tr.IncSyncOutcome("content", "copied")
	tr.IncRenderResult("context", ResultFailed)
	assert.Equal(t, 1, tr.syncOutcomes["content/copied"])
	assert.Equal(t, 1, tr.renders["context"][ResultFailed])
}
