package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRootsKeepOrder(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()

	ws := New()
	for _, dir := range []string{a, b} {
		if err := ws.AddFolder(dir); err != nil {
			t.Fatalf("AddFolder(%q): %v", dir, err)
		}
	}

	roots := ws.Roots()
	if len(roots) != 2 || roots[0] != a || roots[1] != b {
		t.Errorf("unexpected roots: %v", roots)
	}
	if ws.Root() != a {
		t.Errorf("Root() = %q, want %q", ws.Root(), a)
	}
}

func TestEmptyWorkspace(t *testing.T) {
	ws := New()
	if ws.Root() != "" || len(ws.Roots()) != 0 {
		t.Error("new workspace should be empty")
	}
}

func TestAddFolderValidation(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	os.WriteFile(file, nil, 0o644)

	ws := New()
	if err := ws.AddFolder(""); err != ErrInvalidPath {
		t.Errorf("expected ErrInvalidPath, got %v", err)
	}
	if err := ws.AddFolder(file); err != ErrInvalidPath {
		t.Errorf("expected ErrInvalidPath for a file, got %v", err)
	}
	if err := ws.AddFolder(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
	if err := ws.AddFolder(dir); err != nil {
		t.Fatalf("AddFolder: %v", err)
	}
	if err := ws.AddFolder(dir); err != ErrFolderExists {
		t.Errorf("expected ErrFolderExists, got %v", err)
	}
}

func TestOnChangeCallbacks(t *testing.T) {
	a := t.TempDir()
	ws := New()

	var events []ChangeEvent
	ws.OnChange(func(e ChangeEvent) { events = append(events, e) })
	// A callback registered while another runs must not be invoked for
	// the change already in flight.
	ws.OnChange(func(ChangeEvent) {
		ws.OnChange(func(e ChangeEvent) { t.Errorf("late callback saw %+v", e) })
	})

	if err := ws.AddFolder(a); err != nil {
		t.Fatalf("AddFolder: %v", err)
	}
	if len(events) != 1 || events[0].Type != ChangeFolderAdded || events[0].Folder.Path != a {
		t.Fatalf("unexpected events: %+v", events)
	}
	if events[0].Folder.Name != filepath.Base(a) {
		t.Errorf("Name = %q, want %q", events[0].Folder.Name, filepath.Base(a))
	}

	ws.AddFolder(a)
	if len(events) != 1 {
		t.Errorf("duplicate folder must not notify: %+v", events)
	}
}

func TestCloseEmptiesWorkspace(t *testing.T) {
	ws := New()
	ws.AddFolder(t.TempDir())
	ws.Close()

	if ws.Root() != "" {
		t.Error("closed workspace should have no root")
	}
	if err := ws.AddFolder(t.TempDir()); err != ErrWorkspaceClosed {
		t.Errorf("expected ErrWorkspaceClosed, got %v", err)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	os.WriteFile(filepath.Join(root, "artisan"), nil, 0o755)
	nested := filepath.Join(root, "app", "Models")
	os.MkdirAll(nested, 0o755)

	if got := FindProjectRoot(nested); got != root {
		t.Errorf("FindProjectRoot = %q, want %q", got, root)
	}

	plain := t.TempDir()
	os.WriteFile(filepath.Join(plain, "composer.json"), []byte("{}"), 0o644)
	if got := FindProjectRoot(plain); got != plain {
		t.Errorf("FindProjectRoot = %q, want %q", got, plain)
	}
}
