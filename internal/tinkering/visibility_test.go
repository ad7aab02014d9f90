package tinkering

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dshills/tinkering/internal/event"
)

func TestVisible(t *testing.T) {
	root := filepath.Join(t.TempDir(), "app")
	inside := filepath.Join(root, ".tinkering", "playground.php")

	tests := []struct {
		name string
		doc  *Document
		root string
		want bool
	}{
		{"php inside scratch", &Document{Path: inside, LanguageID: "php"}, root, true},
		{"nested inside scratch", &Document{Path: filepath.Join(root, ".tinkering", "users", "q.php"), LanguageID: "php"}, root, true},
		{"unclean path inside scratch", &Document{Path: filepath.Join(root, "app", "..", ".tinkering", "a.php"), LanguageID: "php"}, root, true},
		{"wrong language", &Document{Path: inside, LanguageID: "plaintext"}, root, false},
		{"outside scratch", &Document{Path: filepath.Join(root, "app", "User.php"), LanguageID: "php"}, root, false},
		{"sibling with shared prefix", &Document{Path: filepath.Join(root, ".tinkering-old", "a.php"), LanguageID: "php"}, root, false},
		{"no document", nil, root, false},
		{"no workspace", &Document{Path: inside, LanguageID: "php"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Visible(tt.doc, tt.root); got != tt.want {
				t.Errorf("Visible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisibilityStartPublishesAndFollowsBus(t *testing.T) {
	root := t.TempDir()
	ui := newFakeUI()
	ed := &fakeEditor{doc: NewDocument(filepath.Join(root, ".tinkering", "playground.php"))}
	bus := event.NewBus()

	v := NewVisibility(ui, fakeWorkspace{root}, ed)
	if err := v.Start(bus); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer v.Stop()

	if !ui.contexts[ContextKey] {
		t.Fatal("flag should be set at startup for a playground document")
	}

	bus.Publish(context.Background(), event.New(event.TopicActiveEditorChanged, NewDocument(filepath.Join(root, "routes", "web.php")), "test"))
	if ui.contexts[ContextKey] {
		t.Error("flag should clear for a document outside the scratch directory")
	}

	bus.Publish(context.Background(), event.New(event.TopicActiveEditorChanged, nil, "test"))
	if ui.contexts[ContextKey] {
		t.Error("flag should be false with no active document")
	}
	if ui.sets != 3 {
		t.Errorf("expected 3 publications, got %d", ui.sets)
	}

	v.Stop()
	bus.Publish(context.Background(), event.New(event.TopicActiveEditorChanged, ed.doc, "test"))
	if ui.sets != 3 {
		t.Error("stopped controller should not publish")
	}
}

func TestVisibilityWithoutWorkspace(t *testing.T) {
	ui := newFakeUI()
	v := NewVisibility(ui, fakeWorkspace{}, nil)

	if v.Update(NewDocument("/tmp/.tinkering/a.php")) {
		t.Error("expected false without workspace")
	}
	if got, ok := ui.contexts[ContextKey]; !ok || got {
		t.Error("flag should be published as false")
	}
}

func TestLenses(t *testing.T) {
	root := t.TempDir()

	lenses := Lenses(NewDocument(filepath.Join(root, ".tinkering", "playground.php")), root)
	if len(lenses) != 1 {
		t.Fatalf("expected 1 lens, got %d", len(lenses))
	}
	if lenses[0].Line != 0 || lenses[0].Title != RunLensTitle || lenses[0].Command != CommandRun {
		t.Errorf("unexpected lens: %+v", lenses[0])
	}

	if l := Lenses(NewDocument(filepath.Join(root, ".tinkering", "notes.txt")), root); l != nil {
		t.Errorf("expected no lens for non-PHP file, got %v", l)
	}
	if l := Lenses(NewDocument(filepath.Join(root, "app", "a.php")), root); l != nil {
		t.Errorf("expected no lens outside scratch, got %v", l)
	}
	if l := Lenses(nil, root); l != nil {
		t.Errorf("expected no lens for nil document, got %v", l)
	}
}
