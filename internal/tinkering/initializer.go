package tinkering

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Initializer creates the scratch directory and playground file.
type Initializer struct {
	ui        UI
	workspace Workspace
}

// NewInitializer creates an Initializer.
func NewInitializer(ui UI, ws Workspace) *Initializer {
	return &Initializer{ui: ui, workspace: ws}
}

// Init ensures <root>/.tinkering/playground.php exists and opens it.
// An existing playground is never overwritten.
func (in *Initializer) Init(ctx context.Context) error {
	root := firstRoot(in.workspace)
	if root == "" {
		return reject(in.ui, MsgNoWorkspace, ErrNoWorkspace)
	}

	layout := NewLayout(root)
	if err := EnsureDir(layout.Dir); err != nil {
		return err
	}
	if err := writeIfAbsent(layout.Snippet, []byte(SnippetPlaceholder)); err != nil {
		return err
	}

	return in.ui.OpenDocument(ctx, layout.Snippet)
}

// EnsureDir creates dir if it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create scratch directory: %w", err)
	}
	return nil
}

// writeIfAbsent creates path with data, leaving an existing file untouched.
func writeIfAbsent(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return fmt.Errorf("create playground: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write playground: %w", err)
	}
	return f.Close()
}
