package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/dshills/tinkering/internal/config/loader"
	"github.com/dshills/tinkering/internal/project/watcher"
)

// Setting paths.
const (
	KeyArtisanPath  = "tinkering.artisanPath"
	KeyCleanupDelay = "tinkering.cleanupDelay"
	KeyShell        = "terminal.shell"
	KeyLogLevel     = "logging.level"
)

// Defaults for the recognized settings.
const (
	DefaultArtisanPath  = "artisan"
	DefaultCleanupDelay = 10 * time.Second
	DefaultLogLevel     = "info"
)

// Project configuration file names, in lookup order.
var ProjectFileNames = []string{".tinkering.toml", ".tinkering.yaml", ".tinkering.yml"}

// Change describes a configuration reload.
type Change struct {
	// Source is the file that triggered the reload, empty for explicit reloads.
	Source string

	// Err is set when the reload failed; the previous values are kept.
	Err error
}

// Observer is called after each reload attempt.
type Observer func(change Change)

// Config provides merged access to all configuration layers.
type Config struct {
	mu sync.RWMutex

	layers layerStack

	userConfigDir string
	projectRoot   string
	env           *loader.EnvLoader

	enableWatcher bool
	watcher       *watcher.Watcher

	obsMu     sync.Mutex
	observers []Observer

	closed bool
}

// Option configures a Config instance.
type Option func(*Config)

// WithUserConfigDir sets the user configuration directory.
func WithUserConfigDir(dir string) Option {
	return func(c *Config) {
		c.userConfigDir = dir
	}
}

// WithProjectRoot sets the project whose .tinkering.toml/.yaml is read.
func WithProjectRoot(root string) Option {
	return func(c *Config) {
		c.projectRoot = root
	}
}

// WithWatcher enables file watching for live reload.
func WithWatcher(enable bool) Option {
	return func(c *Config) {
		c.enableWatcher = enable
	}
}

// WithEnvLoader replaces the environment loader.
func WithEnvLoader(l *loader.EnvLoader) Option {
	return func(c *Config) {
		c.env = l
	}
}

// New creates a new Config instance with the given options.
// Only the defaults layer is populated until Load is called.
func New(opts ...Option) *Config {
	c := &Config{}
	for _, opt := range opts {
		opt(c)
	}

	if c.userConfigDir == "" {
		c.userConfigDir = DefaultUserConfigDir()
	}
	if c.env == nil {
		c.env = loader.NewEnvLoader(loader.EnvPrefix)
	}

	c.layers.set(&Layer{Name: "defaults", Priority: PriorityBuiltin, Data: defaultConfig()})
	return c
}

// Load reads all configuration sources and starts the watcher when enabled.
func (c *Config) Load(_ context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if err := c.loadSourcesLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	enable := c.enableWatcher && c.watcher == nil
	c.mu.Unlock()

	if enable {
		return c.startWatcher()
	}
	return nil
}

// Reload re-reads the file and environment layers. Flags are kept.
func (c *Config) Reload() error {
	return c.reload("")
}

func (c *Config) reload(source string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	err := c.loadSourcesLocked()
	c.mu.Unlock()

	c.notify(Change{Source: source, Err: err})
	return err
}

// loadSourcesLocked builds the user, project and env layers. On error the
// existing layers are left untouched.
func (c *Config) loadSourcesLocked() error {
	userPath := c.UserFile()
	user, err := loader.NewTOMLLoader(userPath).Load()
	if err != nil {
		return err
	}

	var project map[string]any
	projectPath := c.projectFileLocked()
	if projectPath != "" {
		if project, err = loader.ForPath(projectPath).Load(); err != nil {
			return err
		}
	}

	env, err := c.env.Load()
	if err != nil {
		return err
	}

	c.setOptionalLocked("user", PriorityUser, userPath, user)
	c.setOptionalLocked("project", PriorityProject, projectPath, project)
	c.setOptionalLocked("env", PriorityEnv, "", env)
	return nil
}

func (c *Config) setOptionalLocked(name string, priority int, path string, data map[string]any) {
	if len(data) == 0 {
		c.layers.remove(name)
		return
	}
	c.layers.set(&Layer{Name: name, Priority: priority, Path: path, Data: data})
}

// projectFileLocked returns the first existing project file, or the TOML
// candidate when none exists.
func (c *Config) projectFileLocked() string {
	if c.projectRoot == "" {
		return ""
	}
	for _, name := range ProjectFileNames {
		path := filepath.Join(c.projectRoot, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return filepath.Join(c.projectRoot, ProjectFileNames[0])
}

// UserFile returns the path of the user configuration file.
func (c *Config) UserFile() string {
	return filepath.Join(c.userConfigDir, "config.toml")
}

// UserConfigDir returns the user configuration directory.
func (c *Config) UserConfigDir() string {
	return c.userConfigDir
}

// Files returns every file whose change triggers a reload.
func (c *Config) Files() []string {
	files := []string{c.UserFile()}
	if c.projectRoot != "" {
		for _, name := range ProjectFileNames {
			files = append(files, filepath.Join(c.projectRoot, name))
		}
	}
	return files
}

func (c *Config) startWatcher() error {
	w, err := watcher.New()
	if err != nil {
		return err
	}

	for _, path := range c.Files() {
		if err := w.WatchFile(path); err != nil && !errors.Is(err, watcher.ErrPathNotExist) {
			_ = w.Close()
			return err
		}
	}
	w.OnChange(func(ev watcher.Event) {
		_ = c.reload(ev.Path)
	})

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return w.Close()
	}
	c.watcher = w
	c.mu.Unlock()
	return nil
}

// Watching reports whether live reload is active.
func (c *Config) Watching() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.watcher != nil
}

// Close stops the watcher. Values remain readable.
func (c *Config) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if w != nil {
		return w.Close()
	}
	return nil
}

// Subscribe registers an observer for reloads.
func (c *Config) Subscribe(o Observer) {
	c.obsMu.Lock()
	defer c.obsMu.Unlock()
	c.observers = append(c.observers, o)
}

func (c *Config) notify(change Change) {
	c.obsMu.Lock()
	observers := make([]Observer, len(c.observers))
	copy(observers, c.observers)
	c.obsMu.Unlock()

	for _, o := range observers {
		o(change)
	}
}

// Set stores a value in the flags layer, the highest priority.
func (c *Config) Set(path string, value any) error {
	if path == "" || strings.HasPrefix(path, ".") || strings.HasSuffix(path, ".") {
		return ErrInvalidPath
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	flags := c.layers.get("flags")
	data := map[string]any{}
	if flags != nil {
		data = loader.Clone(flags.Data)
	}
	loader.SetByPath(data, path, value)
	c.layers.set(&Layer{Name: "flags", Priority: PriorityFlags, Data: data})
	return nil
}

// Layers returns the names of the active layers, lowest priority first.
func (c *Config) Layers() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, len(c.layers.layers))
	for i, l := range c.layers.layers {
		names[i] = l.Name
	}
	return names
}

// Merged returns a copy of the fully merged configuration.
func (c *Config) Merged() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return loader.Clone(c.layers.merge())
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return loader.GetByPath(c.layers.merge(), path)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetDuration returns a duration at the given path. Strings are parsed
// with time.ParseDuration; integers are milliseconds.
func (c *Config) GetDuration(path string) (time.Duration, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case time.Duration:
		return val, nil
	case string:
		d, err := time.ParseDuration(val)
		if err != nil {
			return 0, &TypeError{Path: path, Expected: "duration", Actual: "string " + val}
		}
		return d, nil
	case int:
		return time.Duration(val) * time.Millisecond, nil
	case int64:
		return time.Duration(val) * time.Millisecond, nil
	case float64:
		return time.Duration(val * float64(time.Millisecond)), nil
	default:
		return 0, &TypeError{Path: path, Expected: "duration", Actual: typeName(v)}
	}
}

// ArtisanPath returns tinkering.artisanPath, falling back to "artisan".
func (c *Config) ArtisanPath() string {
	if s, err := c.GetString(KeyArtisanPath); err == nil && s != "" {
		return s
	}
	return DefaultArtisanPath
}

// Shell returns terminal.shell, falling back to the login shell.
func (c *Config) Shell() string {
	if s, err := c.GetString(KeyShell); err == nil && s != "" {
		return s
	}
	return defaultShell()
}

// CleanupDelay returns tinkering.cleanupDelay. Invalid or negative values
// fall back to the default.
func (c *Config) CleanupDelay() time.Duration {
	d, err := c.GetDuration(KeyCleanupDelay)
	if err != nil || d < 0 {
		return DefaultCleanupDelay
	}
	return d
}

// LogLevel returns logging.level.
func (c *Config) LogLevel() string {
	if s, err := c.GetString(KeyLogLevel); err == nil && s != "" {
		return s
	}
	return DefaultLogLevel
}

// DefaultUserConfigDir returns $XDG_CONFIG_HOME/tinkering, or
// ~/.config/tinkering when XDG_CONFIG_HOME is unset.
func DefaultUserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tinkering")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tinkering")
}

func defaultShell() string {
	if runtime.GOOS == "windows" {
		if comspec := os.Getenv("COMSPEC"); comspec != "" {
			return comspec
		}
		return "cmd.exe"
	}
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

// defaultConfig returns the default configuration values.
func defaultConfig() map[string]any {
	return map[string]any{
		"tinkering": map[string]any{
			"artisanPath":  DefaultArtisanPath,
			"cleanupDelay": DefaultCleanupDelay.String(),
		},
		"terminal": map[string]any{
			"shell": "",
		},
		"logging": map[string]any{
			"level": DefaultLogLevel,
		},
	}
}
