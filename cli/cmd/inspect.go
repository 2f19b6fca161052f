package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/cue/cli/reader"
)

// InspectCommand returns the inspect command with subcommands. All
// subcommands read a journal file produced by replay (or by an embedding
// application); none touch a live session.
func InspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Inspect a recorded session journal",
		Subcommands: []*cli.Command{
			inspectSessionCommand(),
			inspectEntriesCommand(),
		},
	}
}

func inspectSessionCommand() *cli.Command {
	return &cli.Command{
		Name:      "session",
		Usage:     "Summarize a session journal",
		ArgsUsage: "<journal-file>",
		Flags:     ReadOnlyFlags(),
		Action:    inspectSessionAction,
	}
}

func inspectSessionAction(c *cli.Context) error {
	r, jr, err := journalSetup(c)
	if err != nil {
		return err
	}

	if c.Bool("tui") {
		return r.RenderTUI("inspect_session", jr.InspectSession())
	}

	return r.Render(jr.InspectSession())
}

func inspectEntriesCommand() *cli.Command {
	return &cli.Command{
		Name:      "entries",
		Usage:     "List journal entries",
		ArgsUsage: "<journal-file>",
		Flags: append(ReadOnlyFlags(),
			&cli.StringFlag{
				Name:  "status",
				Usage: "Filter by command status: done, failed",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Limit number of entries (0 for all)",
			},
		),
		Action: inspectEntriesAction,
	}
}

func inspectEntriesAction(c *cli.Context) error {
	r, jr, err := journalSetup(c)
	if err != nil {
		return err
	}

	opts := reader.ListEntriesOptions{
		Status: c.String("status"),
		Limit:  c.Int("limit"),
	}

	if c.Bool("tui") {
		return r.RenderTUI("inspect_entries", jr.ListEntries(opts))
	}

	return r.Render(jr.ListEntries(opts))
}
