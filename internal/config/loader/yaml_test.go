package loader

import (
	"errors"
	"testing"
)

func TestYAMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/p/.tinkering.yaml", `
tinkering:
  artisanPath: /srv/app/artisan
logging:
  level: debug
`)

	config, err := NewYAMLLoaderWithFS(memfs, "/p/.tinkering.yaml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if val, _ := GetByPath(config, "tinkering.artisanPath"); val != "/srv/app/artisan" {
		t.Errorf("tinkering.artisanPath = %v, want '/srv/app/artisan'", val)
	}
	if val, _ := GetByPath(config, "logging.level"); val != "debug" {
		t.Errorf("logging.level = %v, want 'debug'", val)
	}
}

func TestYAMLLoader_Empty(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/empty.yaml", "")

	config, err := NewYAMLLoaderWithFS(memfs, "/empty.yaml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(config) != 0 {
		t.Errorf("config = %v, want empty", config)
	}
}

func TestYAMLLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.yaml", "tinkering: [unclosed\n")

	_, err := NewYAMLLoaderWithFS(memfs, "/bad.yaml").Load()
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
}

func TestYAMLLoader_NotAMapping(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/list.yaml", "- a\n- b\n")

	_, err := NewYAMLLoaderWithFS(memfs, "/list.yaml").Load()
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Line != 1 {
		t.Errorf("Line = %d, want 1", pe.Line)
	}
}
