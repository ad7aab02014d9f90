package tinkering

import (
	"context"
	"path/filepath"

	"github.com/dshills/tinkering/internal/event"
)

// Visible reports whether the run affordance applies to doc in a project
// rooted at root: doc must be PHP and live under <root>/.tinkering.
func Visible(doc *Document, root string) bool {
	if doc == nil || root == "" {
		return false
	}
	if doc.LanguageID != LanguageID {
		return false
	}
	return NewLayout(root).Contains(doc.Path)
}

// Visibility keeps the ContextKey flag in sync with the active document.
type Visibility struct {
	ui        UI
	workspace Workspace
	editor    Editor
	sub       *event.Subscription
}

// NewVisibility creates a controller publishing through ui.
func NewVisibility(ui UI, ws Workspace, ed Editor) *Visibility {
	return &Visibility{ui: ui, workspace: ws, editor: ed}
}

// Update recomputes the flag for doc and publishes it.
func (v *Visibility) Update(doc *Document) bool {
	visible := Visible(doc, firstRoot(v.workspace))
	v.ui.SetContext(ContextKey, visible)
	return visible
}

// Start publishes the flag for the current document once, then follows
// TopicActiveEditorChanged on bus.
func (v *Visibility) Start(bus *event.Bus) error {
	var doc *Document
	if v.editor != nil {
		doc = v.editor.ActiveDocument()
	}
	v.Update(doc)

	if bus == nil {
		return nil
	}
	sub, err := bus.Subscribe(event.TopicActiveEditorChanged, func(ctx context.Context, ev event.Event) error {
		d, _ := ev.Payload.(*Document)
		v.Update(d)
		return nil
	})
	if err != nil {
		return err
	}
	v.sub = sub
	return nil
}

// Stop detaches from the bus.
func (v *Visibility) Stop() {
	if v.sub != nil {
		v.sub.Cancel()
		v.sub = nil
	}
}

// Lens is an actionable annotation shown at a line of a document.
type Lens struct {
	Line    int
	Title   string
	Command string
}

// RunLensTitle is the title of the run annotation.
const RunLensTitle = "Run Playground"

// Lenses returns the annotations for doc: a single run lens on the first
// line for .php files inside the scratch directory, nothing otherwise.
func Lenses(doc *Document, root string) []Lens {
	if doc == nil || filepath.Ext(doc.Path) != Extension {
		return nil
	}
	if !NewLayout(root).Contains(doc.Path) {
		return nil
	}
	return []Lens{{Line: 0, Title: RunLensTitle, Command: CommandRun}}
}

// Command names exposed to the host.
const (
	CommandInit = "tinkering.init"
	CommandRun  = "tinkering.run"
)
