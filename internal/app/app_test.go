package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dshills/tinkering/internal/event"
	"github.com/dshills/tinkering/internal/tinkering"
)

func newTestApp(t *testing.T, opts Options) *Application {
	t.Helper()
	if opts.WorkspacePath == "" {
		opts.WorkspacePath = t.TempDir()
	}
	if opts.UserConfigDir == "" {
		opts.UserConfigDir = t.TempDir()
	}
	if opts.Logger == nil {
		opts.Logger = NewLogger(LoggerConfig{Output: &bytes.Buffer{}})
	}
	if opts.Shell == "" {
		opts.Shell = "/bin/sh"
	}

	app, err := New(context.Background(), opts)
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	t.Cleanup(func() { app.Shutdown(time.Second) })
	return app
}

type notifications struct {
	mu   sync.Mutex
	msgs []event.Notification
}

func collectNotifications(t *testing.T, app *Application) *notifications {
	t.Helper()
	n := &notifications{}
	_, err := app.Bus().Subscribe(event.TopicNotification, func(_ context.Context, ev event.Event) error {
		n.mu.Lock()
		defer n.mu.Unlock()
		n.msgs = append(n.msgs, ev.Payload.(event.Notification))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func (n *notifications) last() event.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.msgs) == 0 {
		return event.Notification{}
	}
	return n.msgs[len(n.msgs)-1]
}

func TestApplication_InitShowsRunAffordance(t *testing.T) {
	app := newTestApp(t, Options{})

	if app.Visible() {
		t.Fatal("flag should start false with no active document")
	}

	if err := app.Execute(context.Background(), CommandInit); err != nil {
		t.Fatalf("init error = %v", err)
	}

	snippet := app.Layout().Snippet
	data, err := os.ReadFile(snippet)
	if err != nil {
		t.Fatalf("snippet not created: %v", err)
	}
	if string(data) != tinkering.SnippetPlaceholder {
		t.Errorf("snippet content = %q", data)
	}
	if doc := app.ActiveDocument(); doc == nil || doc.Path != snippet {
		t.Fatalf("active document = %+v, want snippet", doc)
	}
	if !app.Visible() {
		t.Error("flag should be true for the opened snippet")
	}
	if lenses := app.Lenses(); len(lenses) != 1 || lenses[0].Command != CommandRun {
		t.Errorf("Lenses() = %+v", lenses)
	}

	app.SetActiveDocument(context.Background(), filepath.Join(app.Root(), "routes", "web.php"))
	if app.Visible() {
		t.Error("flag should be false outside the scratch directory")
	}
	app.SetActiveDocument(context.Background(), "")
	if app.Visible() || app.ActiveDocument() != nil {
		t.Error("clearing focus should clear the flag")
	}
}

func TestApplication_RunWithoutArtisan(t *testing.T) {
	app := newTestApp(t, Options{})
	notes := collectNotifications(t, app)

	if err := app.Init(context.Background()); err != nil {
		t.Fatal(err)
	}

	_, err := app.Run(context.Background())
	if !errors.Is(err, tinkering.ErrArtisanNotFound) {
		t.Fatalf("Run error = %v, want ErrArtisanNotFound", err)
	}
	if got := notes.last(); got.Level != "error" || got.Message != tinkering.MsgArtisanNotFound {
		t.Errorf("notification = %+v", got)
	}
	if _, statErr := os.Stat(app.Layout().Temp); !os.IsNotExist(statErr) {
		t.Error("temp file should not be written when a precondition fails")
	}
	if app.Terminals().Count() != 0 {
		t.Error("no terminal should be started when a precondition fails")
	}
}

func TestApplication_RunSubmitsToTerminal(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "artisan"), []byte("#!/usr/bin/env php\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	app := newTestApp(t, Options{WorkspacePath: root, Platform: "linux"})
	if err := app.Init(context.Background()); err != nil {
		t.Fatal(err)
	}

	sub, err := app.Run(context.Background())
	if err != nil {
		if tinkering.IsUserError(err) {
			t.Fatalf("Run error = %v", err)
		}
		t.Skipf("terminal unavailable: %v", err)
	}

	want := `php "` + filepath.Join(root, "artisan") + `" tinker < "` + app.Layout().Temp + `"`
	if sub.CommandLine != want {
		t.Errorf("CommandLine = %q, want %q", sub.CommandLine, want)
	}
	data, err := os.ReadFile(app.Layout().Temp)
	if err != nil {
		t.Fatalf("temp file missing: %v", err)
	}
	if !strings.HasPrefix(string(data), tinkering.Preamble+"\n") {
		t.Errorf("temp file lacks preamble: %q", data)
	}

	term, ok := app.Terminals().FindByName(tinkering.TerminalName)
	if !ok {
		t.Fatal("terminal not registered")
	}
	if active, _ := app.Terminals().Active(); active != term {
		t.Error("terminal should be shown")
	}

	if _, err := app.Run(context.Background()); err != nil {
		t.Fatalf("second Run error = %v", err)
	}
	if app.Terminals().Count() != 1 {
		t.Errorf("terminal count = %d, want reuse of one session", app.Terminals().Count())
	}
	if app.Runner().Cleaner().Pending() != 1 {
		t.Errorf("pending cleanups = %d, want 1", app.Runner().Cleaner().Pending())
	}
}

func TestApplication_ArtisanFlagOverride(t *testing.T) {
	elsewhere := t.TempDir()
	artisan := filepath.Join(elsewhere, "artisan")
	if err := os.WriteFile(artisan, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	app := newTestApp(t, Options{ArtisanPath: artisan})
	if got := app.Config().ArtisanPath(); got != artisan {
		t.Errorf("ArtisanPath() = %q, want flag value", got)
	}
}

func TestApplication_ProjectConfig(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".tinkering.yaml"), []byte("tinkering:\n  cleanupDelay: 3s\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	app := newTestApp(t, Options{WorkspacePath: root})
	if got := app.Config().CleanupDelay(); got != 3*time.Second {
		t.Errorf("CleanupDelay() = %v, want 3s", got)
	}
}

func TestApplication_BrokenConfigFallsBack(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".tinkering.toml"), []byte("[tinkering\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var logs bytes.Buffer
	app := newTestApp(t, Options{WorkspacePath: root, Logger: NewLogger(LoggerConfig{Output: &logs})})

	if got := app.Config().ArtisanPath(); got != "artisan" {
		t.Errorf("ArtisanPath() = %q, want default", got)
	}
	if !strings.Contains(logs.String(), "using defaults") {
		t.Errorf("expected a warning, got: %s", logs.String())
	}
}

func TestApplication_LuaInit(t *testing.T) {
	root := t.TempDir()
	scratch := filepath.Join(root, ".tinkering")
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		t.Fatal(err)
	}
	script := `
tinkering.map("alt+r", "tinkering.run")
print("version " .. tinkering.version)
ok, err = pcall(tinkering.map, "ctrl+x", "tinkering.nope")
print(tostring(ok))
`
	if err := os.WriteFile(filepath.Join(scratch, InitScriptName), []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	app := newTestApp(t, Options{WorkspacePath: root, LuaOutput: &out, Version: "0.9.0"})

	if cmd, ok := app.Keymap().Lookup("alt+r"); !ok || cmd != CommandRun {
		t.Errorf("Lookup(alt+r) = %q, %v", cmd, ok)
	}
	if _, ok := app.Keymap().Lookup("ctrl+x"); ok {
		t.Error("binding to an unknown command should be rejected")
	}
	if out.String() != "version 0.9.0\nfalse\n" {
		t.Errorf("lua output = %q", out.String())
	}
}

func TestApplication_LuaErrorsDoNotAbort(t *testing.T) {
	userDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(userDir, InitScriptName), []byte(`error("bad script")`), 0o644); err != nil {
		t.Fatal(err)
	}
	var logs bytes.Buffer
	newTestApp(t, Options{UserConfigDir: userDir, Logger: NewLogger(LoggerConfig{Output: &logs})})

	if !strings.Contains(logs.String(), "bad script") {
		t.Errorf("expected script error in logs, got: %s", logs.String())
	}
}

func TestApplication_ExecuteUnknownAndClosed(t *testing.T) {
	app := newTestApp(t, Options{})

	if err := app.Execute(context.Background(), "tinkering.nope"); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("Execute error = %v, want ErrUnknownCommand", err)
	}
	if err := app.Execute(context.Background(), CommandRefresh); err != nil {
		t.Errorf("refresh error = %v", err)
	}

	if err := app.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown error = %v", err)
	}
	if err := app.Shutdown(time.Second); err != nil {
		t.Errorf("second Shutdown error = %v", err)
	}
	if err := app.Execute(context.Background(), CommandRun); !errors.Is(err, ErrClosed) {
		t.Errorf("Execute after Shutdown = %v, want ErrClosed", err)
	}
}

func TestApplication_MissingWorkspace(t *testing.T) {
	_, err := New(context.Background(), Options{
		WorkspacePath: filepath.Join(t.TempDir(), "missing"),
		UserConfigDir: t.TempDir(),
		Logger:        NullLogger,
	})
	var ce *ComponentError
	if !errors.As(err, &ce) || ce.Component != "workspace" {
		t.Errorf("New error = %v, want workspace ComponentError", err)
	}
}
