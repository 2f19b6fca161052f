package tui

import (
	"fmt"
	"sort"
	"strings"
)

// views maps each supported view type to its runner. Only inspect and
// stats output has an interactive form; replay and version are plain.
var views = map[string]func(string, any) error{
	"inspect_session": RunInspectTUI,
	"inspect_entries": RunInspectTUI,
	"stats_session":   RunStatsTUI,
}

// Run starts the interactive view for viewType.
func Run(viewType string, data any) error {
	run, ok := views[viewType]
	if !ok {
		return fmt.Errorf("TUI mode is not supported for %s", viewType)
	}
	return run(viewType, data)
}

// IsTUISupported reports whether viewType has an interactive form.
func IsTUISupported(viewType string) bool {
	if _, ok := views[viewType]; ok {
		return true
	}
	// Future inspect_/stats_ views are assumed interactive so callers can
	// gate the --tui flag without a registry lookup per subcommand.
	return strings.HasPrefix(viewType, "inspect_") || strings.HasPrefix(viewType, "stats_")
}

// SupportedTUIViews lists the view types with an interactive form.
func SupportedTUIViews() []string {
	names := make([]string, 0, len(views))
	for name := range views {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
