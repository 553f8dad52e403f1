package repl

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Greeting is printed when an interactive session starts.
const Greeting = `Personal assistant. Type "help" for the list of commands.`

// writeHelp prints every command with its arguments and a summary.
func writeHelp(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Commands:")
	for _, s := range entries {
		fmt.Fprintf(tw, "  %s\t%s\n", s.usage(), s.summary)
	}
	return tw.Flush()
}
