package commands

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/humanagencyprotocol/hapsite/internal/config"
	"github.com/humanagencyprotocol/hapsite/internal/contextdump"
	"github.com/humanagencyprotocol/hapsite/internal/metrics"
	"github.com/humanagencyprotocol/hapsite/internal/server/httpserver"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr    string `help:"Listen address (overrides server.addr)"`
	Version string `name:"content-version" help:"Content version (defaults to config, then the package manifest)"`
	Sync    bool   `help:"Run a content sync before serving"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if s.Sync {
		sync := &SyncCmd{Version: s.Version}
		if err := sync.run(ctx, g, cfg); err != nil {
			return err
		}
	}

	srv, err := s.newServer(g, cfg)
	if err != nil {
		return err
	}
	if err := srv.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	g.logger().Info("Shutdown signal received, stopping server")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()
	return srv.Stop(stopCtx)
}

func (s *ServeCmd) newServer(g *Global, cfg *config.Config) (*httpserver.Server, error) {
	version, err := resolveVersion(s.Version, cfg)
	if err != nil {
		return nil, err
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		return nil, err
	}

	var (
		recorder metrics.Recorder = metrics.NoopRecorder{}
		promHTTP http.Handler
	)
	if cfg.Server.MetricsEnabled() {
		prom := metrics.NewPrometheusRecorder(nil)
		recorder = prom
		promHTTP = metrics.HTTPHandler(prom.Registry())
	}

	agg := contextdump.NewAggregator(reg, fsStores(cfg),
		contextdump.WithPaths(documentPaths(cfg)),
		contextdump.WithSite(siteInfo(cfg)),
		contextdump.WithLogger(g.logger()),
		contextdump.WithRecorder(recorder),
	)

	addr := cfg.Server.Addr
	if s.Addr != "" {
		addr = s.Addr
	}
	return httpserver.New(agg, httpserver.Options{
		Addr:              addr,
		Version:           version,
		ReadTimeout:       cfg.Server.ReadTimeout.Duration,
		WriteTimeout:      cfg.Server.WriteTimeout.Duration,
		Logger:            g.logger(),
		Recorder:          recorder,
		PrometheusHandler: promHTTP,
	}), nil
}
