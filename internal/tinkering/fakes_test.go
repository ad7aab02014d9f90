package tinkering

import (
	"context"
	"errors"
	"sync"
)

type fakeUI struct {
	mu       sync.Mutex
	contexts map[string]bool
	sets     int
	errors   []string
	opened   []string
}

func newFakeUI() *fakeUI {
	return &fakeUI{contexts: make(map[string]bool)}
}

func (u *fakeUI) SetContext(key string, value bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.contexts[key] = value
	u.sets++
}

func (u *fakeUI) ShowError(message string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.errors = append(u.errors, message)
}

func (u *fakeUI) OpenDocument(ctx context.Context, path string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.opened = append(u.opened, path)
	return nil
}

func (u *fakeUI) lastError() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.errors) == 0 {
		return ""
	}
	return u.errors[len(u.errors)-1]
}

type fakeWorkspace []string

func (w fakeWorkspace) Roots() []string { return w }

type fakeEditor struct {
	doc     *Document
	saves   int
	saveErr error
	onSave  func(*Document)
}

func (e *fakeEditor) ActiveDocument() *Document { return e.doc }

func (e *fakeEditor) Save(ctx context.Context, doc *Document) error {
	e.saves++
	if e.onSave != nil {
		e.onSave(doc)
	}
	return e.saveErr
}

type fakeSession struct {
	shown int
	sent  []string
	err   error
}

func (s *fakeSession) Show() { s.shown++ }

func (s *fakeSession) SendText(text string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, text)
	return nil
}

type fakeTerminals struct {
	sessions map[string]*fakeSession
	created  int
	err      error
}

func newFakeTerminals() *fakeTerminals {
	return &fakeTerminals{sessions: make(map[string]*fakeSession)}
}

func (t *fakeTerminals) Acquire(name string) (Session, error) {
	if t.err != nil {
		return nil, t.err
	}
	if s, ok := t.sessions[name]; ok {
		return s, nil
	}
	s := &fakeSession{}
	t.sessions[name] = s
	t.created++
	return s, nil
}

type fakeSettings struct {
	artisan string
	shell   string
}

func (s fakeSettings) ArtisanPath() string { return s.artisan }
func (s fakeSettings) Shell() string       { return s.shell }

var errFake = errors.New("fake failure")
