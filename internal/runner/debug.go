package runner

import (
	"fmt"

	"github.com/JoshCheek/nushell/internal/value"
)

// debugPaths outputs the parsed paths when debug mode is enabled.
func (r *Runner) debugPaths() {
	if !r.config.Debug {
		return
	}

	description := "PATHS"
	if r.config.Discovery() {
		description = "PATHS (none, listing columns)"
	}

	printable := make([]string, 0, len(r.paths))
	for _, path := range r.paths {
		printable = append(printable, path.String())
	}

	if err := r.formatter.Debug(description, printable); err != nil {
		fmt.Fprintf(r.errOut, "Error formatting debug paths: %v\n", err)
	}
}

// debugItem outputs one decoded input item when debug mode is enabled.
func (r *Runner) debugItem(input string, n int, item value.Value) {
	if !r.config.Debug {
		return
	}

	if err := r.formatter.Debug(fmt.Sprintf("ITEM %s #%d (%s)", input, n, item.TypeName()), item); err != nil {
		fmt.Fprintf(r.errOut, "Error formatting debug item: %v\n", err)
	}
}
