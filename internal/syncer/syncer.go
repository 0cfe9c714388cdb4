// Package syncer copies versioned content and auxiliary documents into the
// site's build input tree.
//
// Syncing is soft-fail: a missing source produces one warning and the run
// continues, so a fresh checkout without sibling repositories still builds.
// Only unexpected I/O failures abort a run.
package syncer

import (
	"log/slog"
	"time"

	"github.com/humanagencyprotocol/hapsite/internal/metrics"
	"github.com/humanagencyprotocol/hapsite/internal/storage"
)

// Rule describes one source to mirror into the site store.
type Rule struct {
	Name string
	// Root names the source store the rule reads from.
	Root   string
	Source string
	Dest   string
	// Versioned resolves Source below "<version>/".
	Versioned bool
	Mandatory bool
	// Transform names a transform applied to file sources (see transforms.Names).
	Transform string
	Title     string
}

// Synchronizer mirrors sources into the site store.
type Synchronizer struct {
	sources  map[string]storage.Store
	site     storage.Store
	logger   *slog.Logger
	recorder metrics.Recorder
	now      func() time.Time
	date     string
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(s *Synchronizer) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Synchronizer) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Synchronizer) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDate fixes the date written into generated frontmatter (YYYY-MM-DD).
// Without it the run's start date is used.
func WithDate(date string) Option {
	return func(s *Synchronizer) { s.date = date }
}

// New creates a Synchronizer reading from the named source stores and writing to site.
func New(sources map[string]storage.Store, site storage.Store, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		sources:  sources,
		site:     site,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
