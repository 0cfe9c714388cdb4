package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/humanagencyprotocol/hapsite/internal/contextdump"
	ferrors "github.com/humanagencyprotocol/hapsite/internal/foundation/errors"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Profile string `arg:"" help:"Profile name (see 'hapsite profiles')"`
	Output  string `short:"o" help:"Write to this file instead of stdout"`
	Version string `name:"content-version" help:"Content version (defaults to config, then the package manifest)"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	version, err := resolveVersion(r.Version, cfg)
	if err != nil {
		return err
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}
	agg := contextdump.NewAggregator(reg, fsStores(cfg),
		contextdump.WithPaths(documentPaths(cfg)),
		contextdump.WithSite(siteInfo(cfg)),
		contextdump.WithLogger(g.logger()),
	)

	text, err := agg.Render(context.Background(), r.Profile, version)
	if err != nil {
		return err
	}
	if r.Output == "" {
		_, err = fmt.Fprint(g.out(), text)
		return err
	}
	if err := os.WriteFile(r.Output, []byte(text), 0o644); err != nil { // #nosec G306 - public output
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write rendered context").
			WithContext("path", r.Output).
			Build()
	}
	return nil
}
