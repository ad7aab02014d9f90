package tinkering

import "context"

// ContextKey is the UI context flag gating the run affordance.
const ContextKey = "tinkering:showButton"

// TerminalName is the reserved name of the reusable terminal session.
const TerminalName = "Laravel Tinker"

// Document is the host's view of an open file.
type Document struct {
	Path       string
	LanguageID string
}

// NewDocument builds a Document with the language inferred from path.
func NewDocument(path string) *Document {
	return &Document{Path: path, LanguageID: LanguageForPath(path)}
}

// UI is the part of the host that shows things to the user.
type UI interface {
	// SetContext publishes a boolean UI context flag.
	SetContext(key string, value bool)

	// ShowError shows a one-line message to the user.
	ShowError(message string)

	// OpenDocument opens and focuses path in the editor.
	OpenDocument(ctx context.Context, path string) error
}

// Workspace reports the open project roots, first root first.
type Workspace interface {
	Roots() []string
}

// Editor gives access to the focused document.
type Editor interface {
	// ActiveDocument returns the focused document, or nil.
	ActiveDocument() *Document

	// Save persists the in-memory content of doc and returns once the host
	// has confirmed the write.
	Save(ctx context.Context, doc *Document) error
}

// Session is a named interactive terminal.
type Session interface {
	// Show brings the terminal to the foreground.
	Show()

	// SendText submits one command line, as if typed and followed by Enter.
	SendText(text string) error
}

// Terminals hands out terminal sessions by name.
type Terminals interface {
	// Acquire returns the session called name, creating it if needed.
	Acquire(name string) (Session, error)
}

// Settings exposes the configuration the core reads on every run.
type Settings interface {
	// ArtisanPath is the runner entry point, relative to the project root
	// or absolute.
	ArtisanPath() string

	// Shell identifies the user's shell, used to pick the command form.
	Shell() string
}

// firstRoot returns the first workspace root or "".
func firstRoot(ws Workspace) string {
	if ws == nil {
		return ""
	}
	roots := ws.Roots()
	if len(roots) == 0 {
		return ""
	}
	return roots[0]
}
