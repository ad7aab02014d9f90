package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestOp_String(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpCreate, "CREATE"},
		{OpWrite, "WRITE"},
		{OpRemove, "REMOVE"},
		{OpRename, "RENAME"},
		{Op(0), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestOp_Has(t *testing.T) {
	op := OpCreate | OpWrite
	if !op.Has(OpCreate) || !op.Has(OpWrite) {
		t.Error("combined op should have both parts")
	}
	if op.Has(OpRemove) {
		t.Error("combined op should not have OpRemove")
	}
}

func TestConvertOp(t *testing.T) {
	if got := convertOp(fsnotify.Create | fsnotify.Write); got != OpCreate|OpWrite {
		t.Errorf("convertOp = %v, want create|write", got)
	}
	if got := convertOp(fsnotify.Chmod); got != 0 {
		t.Errorf("convertOp(Chmod) = %v, want 0", got)
	}
}

func newTestWatcher(t *testing.T) (*Watcher, chan Event) {
	t.Helper()
	w, err := New(WithDebounceDelay(20 * time.Millisecond))
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	t.Cleanup(func() { w.Close() })

	events := make(chan Event, 16)
	w.OnChange(func(ev Event) { events <- ev })
	return w, events
}

func waitEvent(t *testing.T, events chan Event) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestWatcher_WatchFileNotYetCreated(t *testing.T) {
	w, events := newTestWatcher(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := w.WatchFile(path); err != nil {
		t.Fatalf("WatchFile error = %v", err)
	}
	if !w.IsWatching(path) {
		t.Error("IsWatching should be true")
	}

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("a = 1"), 0o644); err != nil {
		t.Fatal(err)
	}

	ev := waitEvent(t, events)
	if ev.Path != path {
		t.Errorf("event path = %q, want %q", ev.Path, path)
	}
	if !ev.Op.Has(OpCreate) {
		t.Errorf("event op = %v, want create", ev.Op)
	}

	select {
	case extra := <-events:
		t.Errorf("unexpected event for %q", extra.Path)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcher_WatchDir(t *testing.T) {
	w, events := newTestWatcher(t)
	dir := t.TempDir()

	if err := w.WatchDir(dir); err != nil {
		t.Fatalf("WatchDir error = %v", err)
	}
	if err := w.WatchDir(dir); err != ErrAlreadyWatching {
		t.Errorf("second WatchDir error = %v, want ErrAlreadyWatching", err)
	}

	path := filepath.Join(dir, "playground.php")
	if err := os.WriteFile(path, []byte("<?php"), 0o644); err != nil {
		t.Fatal(err)
	}

	if ev := waitEvent(t, events); ev.Path != path {
		t.Errorf("event path = %q, want %q", ev.Path, path)
	}
}

func TestWatcher_Unwatch(t *testing.T) {
	w, _ := newTestWatcher(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "a.toml")

	if err := w.Unwatch(path); err != ErrNotWatching {
		t.Errorf("Unwatch error = %v, want ErrNotWatching", err)
	}
	if err := w.WatchFile(path); err != nil {
		t.Fatal(err)
	}
	if err := w.WatchDir(dir); err != nil {
		t.Fatal(err)
	}
	if err := w.Unwatch(path); err != nil {
		t.Fatalf("Unwatch error = %v", err)
	}
	if w.IsWatching(path) {
		t.Error("file should no longer be watched")
	}
	if !w.IsWatching(dir) {
		t.Error("dir should still be watched")
	}
}

func TestWatcher_MissingDir(t *testing.T) {
	w, _ := newTestWatcher(t)
	missing := filepath.Join(t.TempDir(), "nope", "config.toml")

	if err := w.WatchFile(missing); err != ErrPathNotExist {
		t.Errorf("WatchFile error = %v, want ErrPathNotExist", err)
	}
}

func TestWatcher_Closed(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close error = %v", err)
	}
	if err := w.WatchDir(t.TempDir()); err != ErrWatcherClosed {
		t.Errorf("WatchDir after Close = %v, want ErrWatcherClosed", err)
	}
}
