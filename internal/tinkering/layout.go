package tinkering

import (
	"path/filepath"
	"strings"
)

// Fixed names inside a project.
const (
	// DirName is the scratch directory created under the project root.
	DirName = ".tinkering"

	// SnippetName is the playground file created by Init.
	SnippetName = "playground.php"

	// TempName is the instrumented script regenerated on every run.
	TempName = "__tmp_run.php"

	// Extension is the accepted snippet file extension.
	Extension = ".php"

	// LanguageID is the accepted document language.
	LanguageID = "php"

	// DefaultArtisanPath is used when no artisanPath setting is configured.
	DefaultArtisanPath = "artisan"
)

// SnippetPlaceholder is written to a freshly created playground file.
const SnippetPlaceholder = "<?php\n\n // Write your Laravel Tinker code here\n // Press CTRL+ALT+R to Run \n\n"

// Layout holds the resolved scratch paths for one project root.
type Layout struct {
	Root    string
	Dir     string
	Snippet string
	Temp    string
}

// NewLayout resolves the scratch layout for root.
func NewLayout(root string) Layout {
	dir := filepath.Join(root, DirName)
	return Layout{
		Root:    root,
		Dir:     dir,
		Snippet: filepath.Join(dir, SnippetName),
		Temp:    filepath.Join(dir, TempName),
	}
}

// Contains reports whether path lies inside the scratch directory.
// Both sides are cleaned first and the match must end on a separator
// boundary, so "<root>/.tinkering-old/x.php" is not inside.
func (l Layout) Contains(path string) bool {
	if l.Root == "" || path == "" {
		return false
	}
	dir := filepath.Clean(l.Dir)
	p := filepath.Clean(path)
	if !strings.HasPrefix(p, dir) {
		return false
	}
	rest := p[len(dir):]
	return rest == "" || rest[0] == filepath.Separator
}

// ResolveArtisan resolves the artisanPath setting against the project root.
// Absolute settings are returned cleaned; an empty setting falls back to
// DefaultArtisanPath.
func (l Layout) ResolveArtisan(setting string) string {
	if setting == "" {
		setting = DefaultArtisanPath
	}
	if filepath.IsAbs(setting) {
		return filepath.Clean(setting)
	}
	return filepath.Join(l.Root, setting)
}

// LanguageForPath infers a document language from its extension.
func LanguageForPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), Extension) {
		return LanguageID
	}
	return "plaintext"
}
