package tinkering

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestCleanerRemovesAfterDelay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tmp.php")
	os.WriteFile(path, []byte("x"), 0o644)

	c := NewCleaner()
	c.Schedule(path, 20*time.Millisecond)

	if !exists(path) {
		t.Fatal("file removed too early")
	}
	waitFor(t, func() bool { return !exists(path) })
	if c.Pending() != 0 {
		t.Errorf("expected no pending removals, got %d", c.Pending())
	}
}

func TestCleanerRescheduleReplacesTimer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tmp.php")
	os.WriteFile(path, []byte("x"), 0o644)

	c := NewCleaner()
	c.Schedule(path, 30*time.Millisecond)
	c.Schedule(path, time.Hour)

	if c.Pending() != 1 {
		t.Fatalf("expected 1 pending removal, got %d", c.Pending())
	}
	time.Sleep(80 * time.Millisecond)
	if !exists(path) {
		t.Error("stale timer removed a re-armed file")
	}
	c.Close()
}

func TestCleanerCancelAndClose(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.php")
	b := filepath.Join(dir, "b.php")
	os.WriteFile(a, []byte("a"), 0o644)
	os.WriteFile(b, []byte("b"), 0o644)

	c := NewCleaner()
	c.Schedule(a, 20*time.Millisecond)
	c.Schedule(b, 20*time.Millisecond)

	if !c.Cancel(a) {
		t.Error("Cancel should report a pending removal")
	}
	if c.Cancel(a) {
		t.Error("second Cancel should report nothing pending")
	}
	c.Close()
	c.Schedule(a, time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	if !exists(a) || !exists(b) {
		t.Error("canceled removals must leave files in place")
	}
	if c.Pending() != 0 {
		t.Errorf("expected nothing pending, got %d", c.Pending())
	}
}

func TestCleanerIgnoresRemoveErrors(t *testing.T) {
	c := NewCleaner()
	done := make(chan struct{})
	c.remove = func(string) error {
		close(done)
		return os.ErrPermission
	}

	c.Schedule(filepath.Join(t.TempDir(), "missing.php"), time.Millisecond)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("remove was not called")
	}
}
