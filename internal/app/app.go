// Package app wires the tinkering core to its collaborators: configuration,
// the event bus, the workspace, the terminal manager and Lua init scripts.
// Hosts (the CLI and the full-screen watcher) build one Application and
// drive it through commands.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/dshills/tinkering/internal/config"
	"github.com/dshills/tinkering/internal/event"
	"github.com/dshills/tinkering/internal/integration/terminal"
	"github.com/dshills/tinkering/internal/plugin/lua"
	"github.com/dshills/tinkering/internal/project/workspace"
	"github.com/dshills/tinkering/internal/tinkering"
)

// DefaultShutdownTimeout bounds how long Shutdown waits for terminals.
const DefaultShutdownTimeout = 2 * time.Second

// InitScriptName is the Lua file loaded from the user and scratch directories.
const InitScriptName = "init.lua"

// Options configures the application.
type Options struct {
	// WorkspacePath is the project root. Empty means the nearest directory
	// above the working directory holding artisan or composer.json, or the
	// working directory itself.
	WorkspacePath string

	// UserConfigDir overrides $XDG_CONFIG_HOME/tinkering.
	UserConfigDir string

	// Files are documents to open on startup; the first becomes active.
	Files []string

	// LogLevel overrides logging.level when set.
	LogLevel string

	// ArtisanPath and Shell override the matching settings when set.
	ArtisanPath string
	Shell       string

	// Watch enables live reload of configuration files.
	Watch bool

	// Logger replaces the default stderr logger.
	Logger *Logger

	// Opener is called by OpenDocument after the document is focused.
	Opener Opener

	// LuaOutput receives print output from init scripts.
	LuaOutput io.Writer

	// TerminalCols and TerminalRows size new terminals.
	TerminalCols int
	TerminalRows int

	// Platform overrides runtime.GOOS when choosing the command form.
	Platform string

	// Version is exposed to Lua as tinkering.version.
	Version string
}

// Application is the central coordinator for all tinkering components.
type Application struct {
	opts   Options
	logger *Logger

	bus       *event.Bus
	config    *config.Config
	workspace *workspace.Workspace
	terminals *terminal.Manager
	lua       *lua.State

	editor   *activeEditor
	ui       *busUI
	commands *Commands
	keymap   *Keymap

	framework *workspace.Framework

	visibility  *tinkering.Visibility
	initializer *tinkering.Initializer
	runner      *tinkering.Runner

	closed atomic.Bool
}

// New creates an Application and starts its components.
func New(ctx context.Context, opts Options) (*Application, error) {
	app := &Application{
		opts:     opts,
		logger:   opts.Logger,
		commands: NewCommands(),
		keymap:   DefaultKeymap(),
	}
	if app.logger == nil {
		app.logger = NewLogger(DefaultLoggerConfig())
	}

	b := &bootstrapper{app: app}
	if err := b.bootstrap(ctx); err != nil {
		b.cleanup()
		return nil, err
	}
	return app, nil
}

// Logger returns the application's logger instance.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Bus returns the event bus.
func (app *Application) Bus() *event.Bus { return app.bus }

// Config returns the layered configuration.
func (app *Application) Config() *config.Config { return app.config }

// Workspace returns the open workspace.
func (app *Application) Workspace() *workspace.Workspace { return app.workspace }

// Terminals returns the terminal manager.
func (app *Application) Terminals() *terminal.Manager { return app.terminals }

// Commands returns the command registry.
func (app *Application) Commands() *Commands { return app.commands }

// Keymap returns the key bindings used by the watcher.
func (app *Application) Keymap() *Keymap { return app.keymap }

// Framework returns the Laravel requirement found in composer.json, or nil.
func (app *Application) Framework() *workspace.Framework { return app.framework }

// Runner returns the run preparer.
func (app *Application) Runner() *tinkering.Runner { return app.runner }

// Root returns the first workspace root.
func (app *Application) Root() string { return app.workspace.Root() }

// Layout returns the scratch layout of the first workspace root.
func (app *Application) Layout() tinkering.Layout {
	return tinkering.NewLayout(app.Root())
}

// ActiveDocument returns the focused document, or nil.
func (app *Application) ActiveDocument() *tinkering.Document {
	return app.editor.ActiveDocument()
}

// SetActiveDocument focuses path; an empty path clears focus.
func (app *Application) SetActiveDocument(ctx context.Context, path string) {
	if path == "" {
		app.editor.SetActive(ctx, nil)
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	app.editor.SetActive(ctx, tinkering.NewDocument(path))
}

// Visible returns the current value of the run-affordance flag.
func (app *Application) Visible() bool {
	return app.ui.context(tinkering.ContextKey)
}

// Lenses returns the code lenses of the active document.
func (app *Application) Lenses() []tinkering.Lens {
	return tinkering.Lenses(app.ActiveDocument(), app.Root())
}

// Execute runs a named command.
func (app *Application) Execute(ctx context.Context, name string) error {
	if app.closed.Load() {
		return ErrClosed
	}
	app.logger.Debug("execute %s", name)
	return app.commands.Execute(ctx, name)
}

// Init creates the scratch directory and snippet and opens the snippet.
func (app *Application) Init(ctx context.Context) error {
	if err := app.initializer.Init(ctx); err != nil {
		if tinkering.IsUserError(err) {
			return err
		}
		return NewOperationError("init", app.Root(), err)
	}
	app.logger.WithField("path", app.Layout().Snippet).Info("playground ready")
	return nil
}

// Run submits the active document to tinker.
func (app *Application) Run(ctx context.Context) (*tinkering.Submission, error) {
	sub, err := app.runner.Run(ctx)
	if err != nil {
		if tinkering.IsUserError(err) {
			return nil, err
		}
		app.logger.WithComponent("runner").Error("run failed: %v", err)
		return nil, NewOperationError("run", app.activePath(), err)
	}
	app.logger.WithFields(map[string]any{
		"artisan": sub.Artisan,
		"variant": sub.Variant,
	}).Info("submitted %s", sub.Script)
	return sub, nil
}

// Refresh reloads configuration and republishes the visibility flag.
func (app *Application) Refresh(ctx context.Context) error {
	if err := app.config.Reload(); err != nil {
		return NewOperationError("refresh", "config", err)
	}
	app.visibility.Update(app.ActiveDocument())
	return ctx.Err()
}

// Shutdown stops all components. Pending temporary-file removals are
// cancelled, so files scheduled for deletion stay on disk.
func (app *Application) Shutdown(timeout time.Duration) error {
	if !app.closed.CompareAndSwap(false, true) {
		return nil
	}
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	var errs []error
	app.visibility.Stop()
	app.runner.Close()
	app.terminals.Shutdown(timeout)
	if err := app.config.Close(); err != nil {
		errs = append(errs, &ComponentError{Component: "config", Action: "close", Err: err})
	}
	if app.lua != nil {
		if err := app.lua.Close(); err != nil {
			errs = append(errs, &ComponentError{Component: "lua", Action: "close", Err: err})
		}
	}
	app.workspace.Close()
	app.bus.Close()

	app.logger.Debug("shutdown complete")
	return errors.Join(errs...)
}

func (app *Application) activePath() string {
	if doc := app.ActiveDocument(); doc != nil {
		return doc.Path
	}
	return ""
}

// resolveRoot picks the workspace root for opts.
func resolveRoot(opts Options) (string, error) {
	if opts.WorkspacePath != "" {
		return filepath.Abs(opts.WorkspacePath)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if root := workspace.FindProjectRoot(cwd); root != "" {
		return root, nil
	}
	return cwd, nil
}
