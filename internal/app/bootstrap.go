package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/dshills/tinkering/internal/config"
	"github.com/dshills/tinkering/internal/config/loader"
	"github.com/dshills/tinkering/internal/event"
	"github.com/dshills/tinkering/internal/integration/terminal"
	"github.com/dshills/tinkering/internal/plugin/lua"
	"github.com/dshills/tinkering/internal/project/workspace"
	"github.com/dshills/tinkering/internal/tinkering"
)

// bootstrapper initializes components in dependency order.
type bootstrapper struct {
	app *Application
}

func (b *bootstrapper) bootstrap(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"event bus", b.initEventBus},
		{"workspace", b.initWorkspace},
		{"config", b.initConfig},
		{"framework", b.detectFramework},
		{"terminal", b.initTerminals},
		{"tinkering", b.initCore},
		{"commands", b.initCommands},
		{"lua", b.initLua},
		{"documents", b.initDocuments},
	}

	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return &ComponentError{Component: step.name, Action: "init", Err: err}
		}
	}
	return nil
}

func (b *bootstrapper) initEventBus(context.Context) error {
	b.app.bus = event.NewBus()
	return nil
}

func (b *bootstrapper) initWorkspace(context.Context) error {
	root, err := resolveRoot(b.app.opts)
	if err != nil {
		return err
	}
	b.app.workspace = workspace.New()
	return b.app.workspace.AddFolder(root)
}

// detectFramework records the Laravel requirement of the project. A
// project without one still works; tinker simply fails to start.
func (b *bootstrapper) detectFramework(context.Context) error {
	app := b.app
	log := app.logger.WithComponent("workspace")

	fw, ok, err := workspace.DetectLaravel(app.workspace.Root())
	switch {
	case err != nil:
		log.Warn("composer.json: %v", err)
	case ok:
		app.framework = &fw
		log.WithField("constraint", fw.Constraint).Debug("found %s", fw.Package)
	default:
		log.Debug("%s not required by the project", workspace.LaravelPackage)
	}
	return nil
}

func (b *bootstrapper) initConfig(ctx context.Context) error {
	app := b.app
	opts := []config.Option{
		config.WithProjectRoot(app.workspace.Root()),
		config.WithWatcher(app.opts.Watch),
	}
	if app.opts.UserConfigDir != "" {
		opts = append(opts, config.WithUserConfigDir(app.opts.UserConfigDir))
	}
	app.config = config.New(opts...)

	flags := map[string]string{
		config.KeyArtisanPath: app.opts.ArtisanPath,
		config.KeyShell:       app.opts.Shell,
		config.KeyLogLevel:    app.opts.LogLevel,
	}
	for key, value := range flags {
		if value == "" {
			continue
		}
		if err := app.config.Set(key, value); err != nil {
			return err
		}
	}

	if err := app.config.Load(ctx); err != nil {
		var pe *loader.ParseError
		if !errors.As(err, &pe) {
			return err
		}
		app.logger.WithComponent("config").Warn("using defaults: %v", err)
	}
	app.logger.SetLevel(ParseLogLevel(app.config.LogLevel()))

	app.config.Subscribe(func(ch config.Change) {
		log := app.logger.WithComponent("config")
		if ch.Err != nil {
			log.Warn("reload failed: %v", ch.Err)
			return
		}
		app.logger.SetLevel(ParseLogLevel(app.config.LogLevel()))
		log.Info("reloaded %s", ch.Source)
		_ = app.bus.Publish(context.Background(), event.New(event.TopicConfigChanged, ch, "config"))
	})
	return nil
}

func (b *bootstrapper) initTerminals(context.Context) error {
	app := b.app
	app.terminals = terminal.NewManager(terminal.ManagerConfig{
		DefaultShell: app.config.Shell(),
		DefaultCols:  app.opts.TerminalCols,
		DefaultRows:  app.opts.TerminalRows,
		WorkDir:      app.workspace.Root(),
		EventBus:     event.Publisher{Bus: app.bus, Source: "terminal"},
		OnOutput: func(t *terminal.Terminal, data []byte) {
			_ = app.bus.Publish(context.Background(), event.New(event.TopicTerminalOutput, data, t.Name()))
		},
	})
	return nil
}

func (b *bootstrapper) initCore(context.Context) error {
	app := b.app
	app.editor = &activeEditor{bus: app.bus, log: app.logger}
	app.ui = newBusUI(app.bus, app.logger, app.editor, app.opts.Opener)

	app.visibility = tinkering.NewVisibility(app.ui, app.workspace, app.editor)
	app.initializer = tinkering.NewInitializer(app.ui, app.workspace)
	app.runner = tinkering.NewRunner(tinkering.RunnerDeps{
		UI:        app.ui,
		Workspace: app.workspace,
		Editor:    app.editor,
		Terminals: &terminalHost{manager: app.terminals, config: app.config},
		Settings:  app.config,
	}, tinkering.WithPlatform(app.opts.Platform))

	if err := app.visibility.Start(app.bus); err != nil {
		return err
	}
	app.workspace.OnChange(func(workspace.ChangeEvent) {
		app.visibility.Update(app.editor.ActiveDocument())
	})
	return nil
}

func (b *bootstrapper) initCommands(context.Context) error {
	app := b.app
	app.commands.Register(CommandInit, app.Init)
	app.commands.Register(CommandRun, func(ctx context.Context) error {
		_, err := app.Run(ctx)
		return err
	})
	app.commands.Register(CommandRefresh, app.Refresh)
	return nil
}

// initLua loads the user's and the project's init.lua. Script errors are
// logged and do not abort startup.
func (b *bootstrapper) initLua(context.Context) error {
	app := b.app
	scripts := []string{
		filepath.Join(app.config.UserConfigDir(), InitScriptName),
		filepath.Join(app.Layout().Dir, InitScriptName),
	}

	var found []string
	for _, path := range scripts {
		if _, err := os.Stat(path); err == nil {
			found = append(found, path)
		}
	}
	if len(found) == 0 {
		return nil
	}

	app.lua = lua.NewState(lua.WithOutput(app.opts.LuaOutput))
	lua.Register(app.lua, luaHost{app: app}, app.opts.Version)

	log := app.logger.WithComponent("lua")
	for _, path := range found {
		if err := app.lua.DoFile(path); err != nil {
			log.Warn("%v", NewOperationError("load", path, err))
			continue
		}
		log.Debug("loaded %s", path)
	}
	return nil
}

func (b *bootstrapper) initDocuments(ctx context.Context) error {
	if len(b.app.opts.Files) > 0 {
		b.app.SetActiveDocument(ctx, b.app.opts.Files[0])
	}
	return nil
}

// cleanup releases whatever bootstrap managed to start.
func (b *bootstrapper) cleanup() {
	app := b.app
	if app.visibility != nil {
		app.visibility.Stop()
	}
	if app.runner != nil {
		app.runner.Close()
	}
	if app.terminals != nil {
		app.terminals.Shutdown(DefaultShutdownTimeout)
	}
	if app.config != nil {
		_ = app.config.Close()
	}
	if app.lua != nil {
		_ = app.lua.Close()
	}
	if app.workspace != nil {
		app.workspace.Close()
	}
	if app.bus != nil {
		app.bus.Close()
	}
}
