package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// ProfilesCmd implements the 'profiles' command.
type ProfilesCmd struct{}

func (p *ProfilesCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(g.out(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tROUTE\tREVISIONS")
	for _, prof := range reg.Profiles() {
		revs := make([]string, 0, len(prof.Revisions))
		for _, rev := range prof.Revisions {
			switch {
			case rev.Default && rev.Version == "":
				revs = append(revs, "default")
			case rev.Default:
				revs = append(revs, rev.Version+" (default)")
			default:
				revs = append(revs, rev.Version)
			}
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", prof.Name, prof.Route, strings.Join(revs, ", "))
	}
	return tw.Flush()
}
