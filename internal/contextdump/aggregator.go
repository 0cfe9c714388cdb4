package contextdump

import (
	"context"
	"log/slog"
	"time"

	"github.com/humanagencyprotocol/hapsite/internal/logfields"
	"github.com/humanagencyprotocol/hapsite/internal/metrics"
)

// Aggregator renders profiles from live documents. Every call re-reads the
// documents; nothing is cached.
type Aggregator struct {
	registry *Registry
	stores   Stores
	paths    PathTable
	site     SiteInfo
	logger   *slog.Logger
	recorder metrics.Recorder
	now      func() time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithPaths replaces entries of the default document path table.
func WithPaths(paths PathTable) Option {
	return func(a *Aggregator) { a.paths = a.paths.Merge(paths) }
}

// WithSite sets the site metadata exposed to templates.
func WithSite(site SiteInfo) Option {
	return func(a *Aggregator) { a.site = site }
}

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(a *Aggregator) {
		if r != nil {
			a.recorder = r
		}
	}
}

// NewAggregator creates an Aggregator over registry's profiles reading documents from stores.
func NewAggregator(registry *Registry, stores Stores, opts ...Option) *Aggregator {
	a := &Aggregator{
		registry: registry,
		stores:   stores,
		paths:    DefaultPaths(),
		site:     DefaultSite(),
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Registry returns the profiles the aggregator serves.
func (a *Aggregator) Registry() *Registry { return a.registry }

// Render assembles the named profile for version.
func (a *Aggregator) Render(ctx context.Context, profileName, version string) (string, error) {
	start := a.now()
	out, err := a.render(ctx, profileName, version)
	d := a.now().Sub(start)

	a.recorder.ObserveRenderDuration(profileName, d, err == nil)
	if err != nil {
		a.recorder.IncRenderResult(profileName, metrics.ResultFailed)
		a.logger.Debug("Context render failed",
			logfields.Profile(profileName), logfields.Version(version), logfields.Error(err))
		return "", err
	}
	a.recorder.IncRenderResult(profileName, metrics.ResultSuccess)
	a.logger.Debug("Context rendered",
		logfields.Profile(profileName), logfields.Version(version),
		slog.Int("bytes", len(out)), logfields.DurationMS(float64(d.Microseconds())/1000))
	return out, nil
}

func (a *Aggregator) render(ctx context.Context, profileName, version string) (string, error) {
	p, err := a.registry.Profile(profileName)
	if err != nil {
		return "", err
	}
	rev, err := p.Revision(version)
	if err != nil {
		return "", err
	}
	descriptors, err := rev.Descriptors(a.paths, version)
	if err != nil {
		return "", err
	}
	docs, err := Collect(ctx, a.stores, descriptors)
	if err != nil {
		return "", err
	}
	return a.registry.Assemble(p, rev, docs, version, a.site)
}
