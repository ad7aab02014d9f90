package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/tinkering/internal/project/watcher"
	"github.com/dshills/tinkering/internal/tinkering"
)

// tracker makes the most recently written scratch file the active
// document. Snippets may live in subdirectories of the scratch directory.
// The project root is watched as well so that a scratch directory created
// later (by tinkering.init) is picked up.
type tracker struct {
	host   Host
	layout tinkering.Layout
	fsw    *watcher.Watcher
	onErr  func(error)
}

func startTracker(host Host, onErr func(error), opts ...watcher.Option) (*tracker, error) {
	opts = append(opts, watcher.WithErrorHandler(onErr))
	fsw, err := watcher.New(opts...)
	if err != nil {
		return nil, err
	}
	t := &tracker{
		host:   host,
		layout: host.Layout(),
		fsw:    fsw,
		onErr:  onErr,
	}
	fsw.OnChange(t.handle)

	if err := fsw.WatchDir(t.layout.Root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	if err := t.watchTree(t.layout.Dir, false); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return t, nil
}

// watchTree watches dir and every directory below it. Directories that
// vanish during the walk are skipped. A fresh tree was just created, so a
// registration left over from an earlier directory at the same path is
// replaced.
func (t *tracker) watchTree(dir string, fresh bool) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		err = t.fsw.WatchDir(path)
		if fresh && errors.Is(err, watcher.ErrAlreadyWatching) {
			_ = t.fsw.Unwatch(path)
			err = t.fsw.WatchDir(path)
		}
		if errors.Is(err, watcher.ErrPathNotExist) || errors.Is(err, watcher.ErrAlreadyWatching) {
			return nil
		}
		return err
	})
}

func (t *tracker) handle(ev watcher.Event) {
	path := filepath.Clean(ev.Path)
	if !t.layout.Contains(path) {
		return
	}

	// Debounced events may combine operations, so the file system decides.
	ctx := context.Background()
	active := t.host.ActiveDocument()
	isActive := active != nil && filepath.Clean(active.Path) == path

	info, err := os.Stat(path)
	switch {
	case err != nil:
		if t.fsw.IsWatching(path) {
			_ = t.fsw.Unwatch(path)
		}
		if active != nil && isWithin(path, filepath.Clean(active.Path)) {
			t.host.SetActiveDocument(ctx, "")
		}
	case info.IsDir():
		if err := t.watchTree(path, ev.Op.Has(watcher.OpCreate)); err != nil {
			t.onErr(err)
		}
	case isSnippet(path) && !isActive:
		t.host.SetActiveDocument(ctx, path)
	}
}

func (t *tracker) close() error {
	return t.fsw.Close()
}

// isSnippet reports whether path is a user snippet rather than the
// generated run script.
func isSnippet(path string) bool {
	return filepath.Ext(path) == tinkering.Extension && filepath.Base(path) != tinkering.TempName
}

// isWithin reports whether path is dir or lies below it.
func isWithin(dir, path string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}
