// Package cli implements the assistant command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/assistant/internal/repl"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values shared by all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	logLevel  string
}

// exitError carries the process exit code for err.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// classify wraps a command error with the exit code it deserves.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return err
	}
	if repl.IsUserError(err) {
		return userError(err)
	}
	return sysError(err)
}

// NewRootCmd creates the top-level "assistant" command with global flags and
// all subcommands registered. Without a subcommand it starts the interactive
// session.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "assistant",
		Short: "A personal assistant for contacts and notes",
		Long: "Assistant keeps an address book and a notebook on disk.\n" +
			"Run it without arguments for an interactive session, or use\n" +
			"\"assistant run <command> [args...]\" for a single command.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: per-user config dir)")
	pf.StringVar(&flags.dataDir, "data-dir", "", "data directory (default: per-user data dir)")
	pf.StringVar(&flags.backend, "backend", "", "storage backend: jsonl or sqlite (default: jsonl)")
	pf.StringVar(&flags.logLevel, "log-level", "", "diagnostic log level: debug, info, warn, error (default: warn)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(flags))
	root.AddCommand(newPathsCmd(flags))
	root.AddCommand(newRunCmd(flags))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(run(NewRootCmd(), os.Stderr))
}

// run executes root and returns the exit code, printing any error to stderr.
func run(root *cobra.Command, stderr io.Writer) int {
	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "error:", err)
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	// Flag and argument errors raised by cobra itself.
	return exitUserError
}

// runInteractive starts a session on the command's input and output.
func runInteractive(cmd *cobra.Command, flags *rootFlags) error {
	env, err := setup(cmd, flags)
	if err != nil {
		return err
	}
	defer env.log.Sync()

	session := env.session(cmd)
	return classify(session.Run(cmd.Context(), cmd.InOrStdin()))
}
