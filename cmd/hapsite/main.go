package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/humanagencyprotocol/hapsite/cmd/hapsite/commands"
	ferrors "github.com/humanagencyprotocol/hapsite/internal/foundation/errors"
	"github.com/humanagencyprotocol/hapsite/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("hapsite"),
		kong.Description("Sync Human Agency Protocol content into the website and serve the plain-text context dumps."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	global := &commands.Global{Logger: slog.Default(), Out: os.Stdout}
	if err := parser.Run(global, cli); err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
