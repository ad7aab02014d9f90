package tinkering

import (
	"path/filepath"
	"testing"
)

func TestNewLayout(t *testing.T) {
	root := filepath.Join("srv", "app")
	l := NewLayout(root)

	if l.Dir != filepath.Join(root, ".tinkering") {
		t.Errorf("Dir = %q", l.Dir)
	}
	if l.Snippet != filepath.Join(root, ".tinkering", "playground.php") {
		t.Errorf("Snippet = %q", l.Snippet)
	}
	if l.Temp != filepath.Join(root, ".tinkering", "__tmp_run.php") {
		t.Errorf("Temp = %q", l.Temp)
	}
}

func TestLayoutContains(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "srv", "app")
	l := NewLayout(root)

	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(root, ".tinkering"), true},
		{filepath.Join(root, ".tinkering", "a.php"), true},
		{filepath.Join(root, ".tinkering") + string(filepath.Separator), true},
		{filepath.Join(root, ".tinkeringx", "a.php"), false},
		{filepath.Join(root, "a.php"), false},
		{"", false},
	}

	for _, tt := range tests {
		if got := l.Contains(tt.path); got != tt.want {
			t.Errorf("Contains(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	if (Layout{}).Contains(filepath.Join(".tinkering", "a.php")) {
		t.Error("empty layout should contain nothing")
	}
}

func TestResolveArtisan(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "srv", "app")
	l := NewLayout(root)
	abs := filepath.Join(string(filepath.Separator), "opt", "artisan")

	tests := []struct {
		setting string
		want    string
	}{
		{"", filepath.Join(root, "artisan")},
		{"artisan", filepath.Join(root, "artisan")},
		{filepath.Join("backend", "artisan"), filepath.Join(root, "backend", "artisan")},
		{abs, abs},
	}

	for _, tt := range tests {
		if got := l.ResolveArtisan(tt.setting); got != tt.want {
			t.Errorf("ResolveArtisan(%q) = %q, want %q", tt.setting, got, tt.want)
		}
	}
}

func TestLanguageForPath(t *testing.T) {
	if LanguageForPath("a.php") != "php" || LanguageForPath("A.PHP") != "php" {
		t.Error("expected php language")
	}
	if LanguageForPath("a.txt") == "php" {
		t.Error("txt should not be php")
	}
}
