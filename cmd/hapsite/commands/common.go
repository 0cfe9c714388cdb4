package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/humanagencyprotocol/hapsite/internal/config"
	"github.com/humanagencyprotocol/hapsite/internal/contextdump"
	"github.com/humanagencyprotocol/hapsite/internal/manifest"
	"github.com/humanagencyprotocol/hapsite/internal/storage"
	"github.com/humanagencyprotocol/hapsite/internal/syncer"
)

// Global carries state shared by every subcommand.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config   string           `short:"c" help:"Configuration file path (YAML or TOML)" default:"hapsite.yaml" env:"HAPSITE_CONFIG"`
	Verbose  bool             `short:"v" help:"Enable verbose logging"`
	LogLevel string           `name:"log-level" help:"Log level (debug, info, warn, error)" default:"info" env:"HAPSITE_LOG_LEVEL"`
	Version  kong.VersionFlag `name:"version" help:"Show version and exit"`

	Sync     SyncCmd     `cmd:"" help:"Copy versioned content and SDK/demo docs into the site tree"`
	Serve    ServeCmd    `cmd:"" help:"Serve /context.txt, /sdk-context.txt, /healthz and /metrics"`
	Render   RenderCmd   `cmd:"" help:"Render one context profile to stdout or a file"`
	Profiles ProfilesCmd `cmd:"" help:"List context profiles and their routes"`
	Init     InitCmd     `cmd:"" help:"Write a configuration file with the defaults"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level, err := parseLogLevel(c.LogLevel)
	if err != nil {
		return err
	}
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// loadConfig reads the configuration file. A missing file at the default
// path falls back to the built-in defaults so a bare checkout works.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.Config == config.DefaultPath {
		if _, err := os.Stat(c.Config); os.IsNotExist(err) {
			slog.Debug("No configuration file, using defaults", "path", c.Config)
			return config.Default(), nil
		}
	}
	return config.Load(c.Config)
}

// resolveVersion picks the content version: flag, then config, then manifest.
func resolveVersion(flag string, cfg *config.Config) (string, error) {
	if v := strings.TrimSpace(flag); v != "" {
		return v, nil
	}
	if cfg.Version != "" {
		return cfg.Version, nil
	}
	return manifest.ReadVersion(cfg.Resolve(cfg.Manifest))
}

// fsStores opens every configured root on disk.
func fsStores(cfg *config.Config) map[string]storage.Store {
	stores := map[string]storage.Store{}
	for name, p := range cfg.RootPaths() {
		stores[name] = storage.NewFSStore(p)
	}
	return stores
}

func syncRules(cfg *config.Config) []syncer.Rule {
	rules := make([]syncer.Rule, 0, len(cfg.Sync.Rules))
	for _, r := range cfg.Sync.Rules {
		rules = append(rules, syncer.Rule(r))
	}
	return rules
}

func documentPaths(cfg *config.Config) contextdump.PathTable {
	paths := contextdump.PathTable{}
	for name, d := range cfg.Context.Documents {
		paths[name] = contextdump.DocumentRef(d)
	}
	return paths
}

func siteInfo(cfg *config.Config) contextdump.SiteInfo {
	site := contextdump.DefaultSite()
	if cfg.Site.Title != "" {
		site.Title = cfg.Site.Title
	}
	if cfg.Site.Description != "" {
		site.Description = cfg.Site.Description
	}
	return site
}

// loadRegistry returns the embedded profiles, overlaid with the configured
// profiles directory when one is set.
func loadRegistry(cfg *config.Config) (*contextdump.Registry, error) {
	if cfg.Context.ProfilesDir == "" {
		return contextdump.DefaultRegistry()
	}
	return contextdump.DefaultRegistry(os.DirFS(cfg.Resolve(cfg.Context.ProfilesDir)))
}
