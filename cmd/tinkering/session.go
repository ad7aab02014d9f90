package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/tinkering/internal/app"
	"github.com/dshills/tinkering/internal/tinkering"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	Workspace string
	ConfigDir string
	LogLevel  string
	LogFile   string
	Artisan   string
	Shell     string
	Open      bool
}

// sessionOptions tunes how a command builds its application.
type sessionOptions struct {
	// Watch enables live configuration reload.
	Watch bool

	// Quiet discards logs unless --log-file is set and never prints
	// opened documents.
	Quiet bool
}

// session is an application plus the resources opened for it.
type session struct {
	*app.Application
	closers []io.Closer
}

func (s *session) close() {
	if err := s.Shutdown(app.DefaultShutdownTimeout); err != nil {
		s.Logger().Warn("shutdown: %v", err)
	}
	for _, c := range s.closers {
		_ = c.Close()
	}
}

func (g *globalOptions) open(cmd *cobra.Command, so sessionOptions) (*session, error) {
	s := &session{}

	var logOut io.Writer = cmd.ErrOrStderr()
	switch {
	case g.LogFile != "":
		f, err := os.OpenFile(g.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		s.closers = append(s.closers, f)
		logOut = f
	case so.Quiet:
		logOut = io.Discard
	}

	opts := app.Options{
		WorkspacePath: g.Workspace,
		UserConfigDir: g.ConfigDir,
		LogLevel:      g.LogLevel,
		ArtisanPath:   g.Artisan,
		Shell:         g.Shell,
		Watch:         so.Watch,
		Logger: app.NewLogger(app.LoggerConfig{
			Level:  app.ParseLogLevel(g.LogLevel),
			Output: logOut,
			Prefix: "tinkering",
		}),
		LuaOutput: logOut,
		Version:   version,
	}
	if !so.Quiet {
		opts.Opener = g.opener(cmd)
	}
	if cols, rows, ok := terminalSize(cmd.OutOrStdout()); ok {
		opts.TerminalCols, opts.TerminalRows = cols, rows
	}

	application, err := app.New(cmd.Context(), opts)
	if err != nil {
		for _, c := range s.closers {
			_ = c.Close()
		}
		return nil, err
	}
	s.Application = application
	return s, nil
}

// activate focuses the file argument, or the playground file when none
// was given.
func (s *session) activate(ctx context.Context, args []string) {
	if len(args) > 0 {
		s.SetActiveDocument(ctx, args[0])
		return
	}
	s.SetActiveDocument(ctx, s.Layout().Snippet)
}

func (g *globalOptions) opener(cmd *cobra.Command) app.Opener {
	return func(ctx context.Context, path string) error {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), path); err != nil {
			return err
		}
		if !g.Open {
			return nil
		}
		return openInEditor(ctx, path, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	}
}

// userFailure turns a precondition failure into exit status 1 carrying the
// user-facing message, so it is printed whatever the log level.
func userFailure(err error) error {
	var ue *tinkering.UserError
	if errors.As(err, &ue) {
		return &exitError{Code: 1, Err: ue}
	}
	return err
}

