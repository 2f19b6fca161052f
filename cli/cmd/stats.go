package cmd

import (
	"github.com/urfave/cli/v2"
)

// StatsCommand returns the stats command.
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:      "stats",
		Usage:     "Aggregate a session journal by command type and status",
		ArgsUsage: "<journal-file>",
		Flags:     ReadOnlyFlags(),
		Action:    statsAction,
	}
}

func statsAction(c *cli.Context) error {
	r, jr, err := journalSetup(c)
	if err != nil {
		return err
	}

	if c.Bool("tui") {
		return r.RenderTUI("stats_session", jr.Stats())
	}

	return r.Render(jr.Stats())
}
