// Package cmd provides CLI commands for the cue-session binary.
package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/cue/cli/reader"
	"github.com/pithecene-io/cue/cli/render"
)

// Shared flags for read-only commands.
var (
	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// NoColorFlag disables colored output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}

	// TUIFlag enables Bubble Tea interactive mode.
	// Only valid for select read-only commands (inspect, stats).
	TUIFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Enable interactive TUI mode (inspect, stats only)",
	}
)

// ReadOnlyFlags returns the shared flags for all read-only commands.
// Includes --tui so that unsupported commands can provide explicit error
// messages instead of generic "flag not defined" errors.
func ReadOnlyFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
		NoColorFlag,
		TUIFlag,
	}
}

// journalSetup resolves the shared preamble of every read-only command:
// the journal file argument and the renderer built from the flags.
func journalSetup(c *cli.Context) (*render.Renderer, *reader.JournalReader, error) {
	if c.NArg() < 1 {
		return nil, nil, cli.Exit("journal file required", 1)
	}
	r, err := render.NewRenderer(c)
	if err != nil {
		return nil, nil, err
	}
	jr, err := reader.Open(c.Args().First())
	if err != nil {
		return nil, nil, err
	}
	return r, jr, nil
}
