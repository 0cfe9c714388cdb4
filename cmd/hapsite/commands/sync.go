package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/humanagencyprotocol/hapsite/internal/config"
	"github.com/humanagencyprotocol/hapsite/internal/logfields"
	"github.com/humanagencyprotocol/hapsite/internal/syncer"
)

// SyncCmd implements the 'sync' command.
type SyncCmd struct {
	Version string `name:"content-version" help:"Content version (defaults to config, then the package manifest)"`
	Date    string `help:"Date written into generated frontmatter (YYYY-MM-DD)"`
	Watch   bool   `short:"w" help:"Keep running and re-sync when sources change"`
}

func (s *SyncCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return s.run(ctx, g, cfg)
}

func (s *SyncCmd) run(ctx context.Context, g *Global, cfg *config.Config) error {
	version, err := resolveVersion(s.Version, cfg)
	if err != nil {
		return err
	}

	date := cfg.Sync.Date
	if s.Date != "" {
		date = s.Date
	}

	stores := fsStores(cfg)
	sync := syncer.New(stores, stores[config.RootSite],
		syncer.WithLogger(g.logger()),
		syncer.WithDate(date),
	)
	rules := syncRules(cfg)

	_, _ = fmt.Fprintf(g.out(), "Syncing content for HAP v%s...\n", version)
	report, err := sync.Run(ctx, version, rules)
	if err != nil {
		return err
	}
	for _, o := range report.Outcomes {
		_, _ = fmt.Fprintf(g.out(), "  %-14s %-11s %s -> %s\n", o.Rule, o.Status, o.Source, o.Dest)
	}
	_, _ = fmt.Fprintln(g.out(), "Done.")

	if !s.Watch {
		return nil
	}
	g.logger().Info("Watching sources for changes", logfields.Version(version))
	return sync.Watch(ctx, version, rules, cfg.Sync.Debounce.Duration)
}
