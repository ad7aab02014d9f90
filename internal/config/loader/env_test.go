package loader

import (
	"testing"
)

func TestEnvLoader_Load(t *testing.T) {
	t.Setenv("TINKERING_ARTISAN_PATH", "src/artisan")
	t.Setenv("TINKERING_LOG_LEVEL", "debug")
	t.Setenv("TINKERING_CLEANUP_DELAY", "3s")

	config, err := NewEnvLoader(EnvPrefix).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if val, ok := GetByPath(config, "tinkering.artisanPath"); !ok || val != "src/artisan" {
		t.Errorf("tinkering.artisanPath = %v, want 'src/artisan'", val)
	}
	if val, ok := GetByPath(config, "logging.level"); !ok || val != "debug" {
		t.Errorf("logging.level = %v, want 'debug'", val)
	}
	if val, ok := GetByPath(config, "tinkering.cleanupDelay"); !ok || val != "3s" {
		t.Errorf("tinkering.cleanupDelay = %v (%T), want '3s'", val, val)
	}
}

func TestEnvLoader_LoadUnmapped(t *testing.T) {
	t.Setenv("TINKERING_TERMINAL_ROWS", "40")

	config, err := NewEnvLoader(EnvPrefix).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if val, ok := GetByPath(config, "terminal.rows"); !ok || val != int64(40) {
		t.Errorf("terminal.rows = %v (%T), want 40", val, val)
	}
}

func TestEnvLoader_IgnoresOtherPrefixes(t *testing.T) {
	l := NewEnvLoaderWithMapping(EnvPrefix, nil)
	l.lookup = func(string) (string, bool) { return "", false }
	l.environ = func() []string {
		return []string{"HOME=/home/x", "TINKERING_UI_THEME=dark", "TINKERINGX=1"}
	}

	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(config) != 1 {
		t.Fatalf("config = %v, want only the ui section", config)
	}
	if val, _ := GetByPath(config, "ui.theme"); val != "dark" {
		t.Errorf("ui.theme = %v, want 'dark'", val)
	}
}

func TestEnvLoader_envToPath(t *testing.T) {
	l := NewEnvLoader(EnvPrefix)

	tests := []struct {
		env      string
		expected string
	}{
		{"TINKERING_TINKERING_ARTISAN_PATH", "tinkering.artisanPath"},
		{"TINKERING_TERMINAL_SHELL", "terminal.shell"},
		{"TINKERING_SIMPLE", "simple"},
		{"TINKERING_DEEP_NESTED_PATH", "deep.nestedPath"},
	}

	for _, tt := range tests {
		if got := l.envToPath(tt.env); got != tt.expected {
			t.Errorf("envToPath(%q) = %q, want %q", tt.env, got, tt.expected)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input string
		want  any
	}{
		{"", ""},
		{"true", true},
		{"off", false},
		{"42", int64(42)},
		{"1.5", 1.5},
		{"10s", "10s"},
		{"pwsh.exe", "pwsh.exe"},
	}

	for _, tt := range tests {
		if got := parseValue(tt.input); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v (%T)", tt.input, got, got, tt.want, tt.want)
		}
	}
}
