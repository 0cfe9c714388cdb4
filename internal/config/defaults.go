package config

import "time"

const (
	defaultDebounce     = 300 * time.Millisecond
	defaultReadTimeout  = 5 * time.Second
	defaultWriteTimeout = 10 * time.Second
)

// Root names used by sync rules and document locations.
const (
	RootContent = "content"
	RootSDK     = "sdk"
	RootDemo    = "demo"
	RootSite    = "site"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// ApplyDefaults runs every domain applier in order.
func ApplyDefaults(cfg *Config) error {
	for _, a := range []DefaultApplier{
		&RootsDefaultApplier{},
		&SiteDefaultApplier{},
		&SyncDefaultApplier{},
		&ServerDefaultApplier{},
	} {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}

// RootsDefaultApplier mirrors the monorepo layout: the site directory sits
// next to content/, sdk/ and demo/.
type RootsDefaultApplier struct{}

func (r *RootsDefaultApplier) Domain() string { return "roots" }

func (r *RootsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Manifest == "" {
		cfg.Manifest = "package.json"
	}
	if cfg.Roots.Content == "" {
		cfg.Roots.Content = "../content"
	}
	if cfg.Roots.SDK == "" {
		cfg.Roots.SDK = "../sdk"
	}
	if cfg.Roots.Demo == "" {
		cfg.Roots.Demo = "../demo"
	}
	if cfg.Roots.Site == "" {
		cfg.Roots.Site = "."
	}
	return nil
}

// SiteDefaultApplier fills in the public site's title and description.
type SiteDefaultApplier struct{}

func (s *SiteDefaultApplier) Domain() string { return "site" }

func (s *SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Site.Title == "" {
		cfg.Site.Title = "Human Agency Protocol"
	}
	if cfg.Site.Description == "" {
		cfg.Site.Description = "A global protocol for strengthening human agency in AI-native systems, without sharing content."
	}
	return nil
}

// SyncDefaultApplier installs the standard sync rules when none are configured.
type SyncDefaultApplier struct{}

func (s *SyncDefaultApplier) Domain() string { return "sync" }

func (s *SyncDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Sync.Debounce.Duration <= 0 {
		cfg.Sync.Debounce.Duration = defaultDebounce
	}
	if len(cfg.Sync.Rules) == 0 {
		cfg.Sync.Rules = DefaultSyncRules()
	}
	return nil
}

// DefaultSyncRules copies the versioned content directory, the SDK documents
// and the demo readme into the site's source tree.
func DefaultSyncRules() []SyncRule {
	return []SyncRule{
		{Name: "content", Root: RootContent, Dest: "src/content/docs", Versioned: true, Mandatory: true},
		{Name: "sdk-readme", Root: RootSDK, Source: "README.md", Dest: "src/sdk-docs/README.md"},
		{Name: "sdk-api", Root: RootSDK, Source: "docs/API.md", Dest: "src/sdk-docs/API.md"},
		{Name: "sdk-local-dev", Root: RootSDK, Source: "docs/LOCAL_DEVELOPMENT.md", Dest: "src/sdk-docs/LOCAL_DEVELOPMENT.md"},
		{Name: "sdk-roadmap", Root: RootSDK, Source: "docs/ROADMAP.md", Dest: "src/sdk-docs/ROADMAP.md"},
		{Name: "demo", Root: RootDemo, Source: "README.md", Dest: "src/content/docs/demo.md", Transform: "demo-page"},
	}
}

// ServerDefaultApplier handles HTTP server defaults.
type ServerDefaultApplier struct{}

func (s *ServerDefaultApplier) Domain() string { return "server" }

func (s *ServerDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":4321"
	}
	if cfg.Server.ReadTimeout.Duration <= 0 {
		cfg.Server.ReadTimeout.Duration = defaultReadTimeout
	}
	if cfg.Server.WriteTimeout.Duration <= 0 {
		cfg.Server.WriteTimeout.Duration = defaultWriteTimeout
	}
	return nil
}
