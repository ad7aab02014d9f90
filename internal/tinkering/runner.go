package tinkering

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Runner prepares and submits tinker runs for the active document.
type Runner struct {
	ui        UI
	workspace Workspace
	editor    Editor
	terminals Terminals
	settings  Settings
	cleaner   *Cleaner

	goos       string
	delay      time.Duration
	fixedDelay bool
}

// DelaySettings is implemented by Settings that also configure how long
// the temporary run file is kept. It is consulted on every run.
type DelaySettings interface {
	CleanupDelay() time.Duration
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithCleanupDelay overrides DefaultCleanupDelay and any delay reported
// by the settings.
func WithCleanupDelay(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.delay = d
			r.fixedDelay = true
		}
	}
}

// WithPlatform overrides runtime.GOOS when choosing the command form.
func WithPlatform(goos string) RunnerOption {
	return func(r *Runner) {
		if goos != "" {
			r.goos = goos
		}
	}
}

// WithCleaner shares a Cleaner between runners.
func WithCleaner(c *Cleaner) RunnerOption {
	return func(r *Runner) {
		if c != nil {
			r.cleaner = c
		}
	}
}

// RunnerDeps bundles the host ports a Runner needs.
type RunnerDeps struct {
	UI        UI
	Workspace Workspace
	Editor    Editor
	Terminals Terminals
	Settings  Settings
}

// NewRunner creates a Runner.
func NewRunner(deps RunnerDeps, opts ...RunnerOption) *Runner {
	r := &Runner{
		ui:        deps.UI,
		workspace: deps.Workspace,
		editor:    deps.Editor,
		terminals: deps.Terminals,
		settings:  deps.Settings,
		goos:      runtime.GOOS,
		delay:     DefaultCleanupDelay,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cleaner == nil {
		r.cleaner = NewCleaner()
	}
	return r
}

// Cleaner returns the cleaner owning this runner's pending deletions.
func (r *Runner) Cleaner() *Cleaner {
	return r.cleaner
}

// Submission describes a command line sent to the terminal.
type Submission struct {
	Artisan     string
	Script      string
	Variant     ShellVariant
	CommandLine string
}

// Run executes the active document with tinker. Precondition failures are
// shown to the user and returned as *UserError; nothing is written to disk
// before every precondition has passed. Any other failure is shown as a
// single line and returned wrapped.
func (r *Runner) Run(ctx context.Context) (*Submission, error) {
	sub, err := r.run(ctx)
	if err != nil && !IsUserError(err) && r.ui != nil {
		r.ui.ShowError(RunFailedMessage(err))
	}
	return sub, err
}

func (r *Runner) run(ctx context.Context) (*Submission, error) {
	doc := r.editor.ActiveDocument()
	if doc == nil {
		return nil, reject(r.ui, MsgNoFile, ErrNoDocument)
	}
	if filepath.Ext(doc.Path) != Extension {
		return nil, reject(r.ui, MsgNotPHP, ErrNotPHP)
	}

	if err := r.editor.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save %s: %w", doc.Path, err)
	}

	root := firstRoot(r.workspace)
	if root == "" {
		return nil, reject(r.ui, MsgNoWorkspace, ErrNoWorkspace)
	}
	layout := NewLayout(root)

	artisan := layout.ResolveArtisan(r.artisanSetting())
	if _, err := os.Stat(artisan); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, reject(r.ui, MsgArtisanNotFound, ErrArtisanNotFound)
		}
		return nil, fmt.Errorf("stat artisan: %w", err)
	}

	if err := EnsureDir(layout.Dir); err != nil {
		return nil, err
	}

	snippet, err := os.ReadFile(doc.Path)
	if err != nil {
		return nil, fmt.Errorf("read snippet: %w", err)
	}
	if err := os.WriteFile(layout.Temp, []byte(BuildScript(string(snippet))), 0o644); err != nil {
		return nil, fmt.Errorf("write run script: %w", err)
	}

	session, err := r.terminals.Acquire(TerminalName)
	if err != nil {
		return nil, fmt.Errorf("acquire terminal: %w", err)
	}
	session.Show()

	sub := &Submission{
		Artisan: artisan,
		Script:  layout.Temp,
		Variant: DetectShell(r.goos, r.shell()),
	}
	sub.CommandLine = CommandLine(sub.Variant, artisan, layout.Temp)
	if err := session.SendText(sub.CommandLine); err != nil {
		return nil, fmt.Errorf("send to terminal: %w", err)
	}

	r.cleaner.Schedule(layout.Temp, r.cleanupDelay())
	return sub, nil
}

// Close cancels pending temporary-file removals.
func (r *Runner) Close() {
	r.cleaner.Close()
}

func (r *Runner) artisanSetting() string {
	if r.settings == nil {
		return DefaultArtisanPath
	}
	return strings.TrimSpace(r.settings.ArtisanPath())
}

func (r *Runner) cleanupDelay() time.Duration {
	if r.fixedDelay {
		return r.delay
	}
	if ds, ok := r.settings.(DelaySettings); ok {
		if d := ds.CleanupDelay(); d > 0 {
			return d
		}
	}
	return r.delay
}

func (r *Runner) shell() string {
	if r.settings == nil {
		return ""
	}
	return r.settings.Shell()
}
