// Package workspace tracks the project folders open in the host. The first
// folder is the project root every tinkering operation works against.
package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// Common errors.
var (
	ErrFolderExists    = errors.New("folder already in workspace")
	ErrInvalidPath     = errors.New("invalid folder path")
	ErrWorkspaceClosed = errors.New("workspace is closed")
)

// Folder is a single root folder.
type Folder struct {
	// Path is the absolute, cleaned file system path.
	Path string
	// Name is the display name for the folder.
	Name string
}

// ChangeType indicates the type of workspace change.
type ChangeType int

const (
	// ChangeFolderAdded indicates a folder was added.
	ChangeFolderAdded ChangeType = iota
)

// ChangeEvent describes a workspace change.
type ChangeEvent struct {
	Type   ChangeType
	Folder Folder
}

// Workspace is an ordered set of root folders.
type Workspace struct {
	mu       sync.RWMutex
	folders  []Folder
	closed   bool
	onChange []func(ChangeEvent)
}

// New creates an empty workspace. Operations that need a project root will
// report "no workspace open" until a folder is added.
func New() *Workspace {
	return &Workspace{}
}

// Roots returns the folder paths in order.
func (w *Workspace) Roots() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		return nil
	}
	roots := make([]string, len(w.folders))
	for i, f := range w.folders {
		roots[i] = f.Path
	}
	return roots
}

// Root returns the first folder path, or "" when the workspace is empty.
func (w *Workspace) Root() string {
	roots := w.Roots()
	if len(roots) == 0 {
		return ""
	}
	return roots[0]
}

// AddFolder appends an existing directory to the workspace.
func (w *Workspace) AddFolder(path string) error {
	if path == "" {
		return ErrInvalidPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return ErrInvalidPath
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWorkspaceClosed
	}
	for _, f := range w.folders {
		if f.Path == abs {
			w.mu.Unlock()
			return ErrFolderExists
		}
	}
	folder := Folder{Path: abs, Name: filepath.Base(abs)}
	w.folders = append(w.folders, folder)
	callbacks := slices.Clone(w.onChange)
	w.mu.Unlock()

	for _, cb := range callbacks {
		cb(ChangeEvent{Type: ChangeFolderAdded, Folder: folder})
	}
	return nil
}

// OnChange registers a callback for folder additions.
func (w *Workspace) OnChange(fn func(ChangeEvent)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// Close empties the workspace and rejects further changes.
func (w *Workspace) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	w.folders = nil
}

// projectMarkers identify a Laravel project root.
var projectMarkers = []string{"artisan", "composer.json"}

// FindProjectRoot walks up from dir to the nearest directory containing an
// artisan file (preferred) or composer.json. It returns "" when none is found.
func FindProjectRoot(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for _, marker := range projectMarkers {
		for d := abs; ; {
			if _, err := os.Stat(filepath.Join(d, marker)); err == nil {
				return d
			}
			parent := filepath.Dir(d)
			if parent == d {
				break
			}
			d = parent
		}
	}
	return ""
}
