// Command tinkering runs Laravel Tinker playground files from a project's
// .tinkering directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type exitError struct {
	Code int
	Err  error
}

func (e *exitError) Error() string {
	if e == nil || e.Err == nil {
		return "command failed"
	}
	return e.Err.Error()
}

func (e *exitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		return exitCode(err)
	}
	return 0
}

// exitCode reports err on stderr and returns the process exit status.
func exitCode(err error) int {
	var coded *exitError
	if errors.As(err, &coded) {
		if coded.Err != nil {
			_, _ = fmt.Fprintln(os.Stderr, "tinkering:", coded.Err)
		}
		return coded.Code
	}
	_, _ = fmt.Fprintln(os.Stderr, "tinkering:", err)
	return 1
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}

	root := &cobra.Command{
		Use:   "tinkering",
		Short: "Laravel Tinker playground",
		Long: `Laravel Tinker playground.

Scratch files live in <project>/.tinkering. "tinkering init" creates
.tinkering/playground.php; "tinkering run" feeds the file to
"php artisan tinker" in a reusable terminal session with every database
query echoed as it executes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&g.Workspace, "workspace", "w", "", "project root (default: nearest Laravel project above the working directory)")
	flags.StringVar(&g.ConfigDir, "config-dir", "", "user configuration directory (default: $XDG_CONFIG_HOME/tinkering)")
	flags.StringVar(&g.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&g.LogFile, "log-file", "", "append logs to this file instead of stderr")
	flags.StringVar(&g.Artisan, "artisan", "", "artisan path relative to the project root")
	flags.StringVar(&g.Shell, "shell", "", "shell for the terminal session")
	flags.BoolVar(&g.Open, "open", false, "open created files in $VISUAL or $EDITOR")

	root.AddCommand(
		newInitCmd(g),
		newRunCmd(g),
		newStatusCmd(g),
		newLensCmd(g),
		newWatchCmd(g),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print tinkering version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "tinkering %s (%s, %s)\n", version, commit, date)
			return err
		},
	}
}
