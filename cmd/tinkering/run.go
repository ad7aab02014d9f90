package main

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"github.com/dshills/tinkering/internal/event"
	"github.com/dshills/tinkering/internal/tinkering"
)

var errNoSession = errors.New("terminal session did not start")

type runOptions struct {
	Batch bool
}

func newRunCmd(g *globalOptions) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Run a playground file in Laravel Tinker",
		Long: `Run a playground file in Laravel Tinker.

The file (default .tinkering/playground.php) must be a .php file. Its body
is wrapped with a query listener, written to .tinkering/__tmp_run.php and
fed to "php artisan tinker" in a shell session attached to this terminal.
Leave the shell with "exit" when done.

When stdin is not a terminal, or with --batch, the shell exits as soon as
tinker has finished.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlayground(cmd, g, opts, args)
		},
	}
	cmd.Flags().BoolVar(&opts.Batch, "batch", false, "print the session output and exit without reading stdin")
	return cmd
}

func runPlayground(cmd *cobra.Command, g *globalOptions, opts runOptions, args []string) error {
	ctx := cmd.Context()
	s, err := g.open(cmd, sessionOptions{})
	if err != nil {
		return err
	}
	defer s.close()
	s.activate(ctx, args)

	out := &lockedWriter{w: cmd.OutOrStdout()}
	sub, err := s.Bus().Subscribe(event.TopicTerminalOutput, func(_ context.Context, ev event.Event) error {
		data, _ := ev.Payload.([]byte)
		_, err := out.Write(data)
		return err
	})
	if err != nil {
		return err
	}
	defer sub.Cancel()

	if _, err := s.Run(ctx); err != nil {
		return userFailure(err)
	}

	t, ok := s.Terminals().FindByName(tinkering.TerminalName)
	if !ok {
		return errNoSession
	}
	return attach(ctx, t, cmd.InOrStdin(), opts.Batch)
}

// lockedWriter serializes writes from the PTY read loop.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
