package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceDelay is used when no WithDebounceDelay option is given.
const DefaultDebounceDelay = 100 * time.Millisecond

// Watcher watches files and directories using fsnotify.
type Watcher struct {
	mu sync.Mutex

	fsw   *fsnotify.Watcher
	delay time.Duration

	// dirs maps a watched directory to the number of registrations using it.
	dirs map[string]int
	// files holds individually watched files; their directory is in dirs.
	files map[string]bool
	// trees holds directories whose every entry is reported.
	trees map[string]bool

	handlers []Handler
	onError  ErrorHandler
	pending  map[string]*pendingEvent

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

type pendingEvent struct {
	event Event
	timer *time.Timer
}

// New creates a watcher and starts its event loop.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		delay:   DefaultDebounceDelay,
		dirs:    make(map[string]int),
		files:   make(map[string]bool),
		trees:   make(map[string]bool),
		pending: make(map[string]*pendingEvent),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// WatchFile watches a single file. The file may not exist yet but its
// directory must.
func (w *Watcher) WatchFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.files[absPath] {
		return ErrAlreadyWatching
	}
	if err := w.addDirLocked(filepath.Dir(absPath)); err != nil {
		return err
	}
	w.files[absPath] = true
	return nil
}

// WatchDir watches every entry of a directory (not recursively).
func (w *Watcher) WatchDir(dir string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.trees[absDir] {
		return ErrAlreadyWatching
	}
	if err := w.addDirLocked(absDir); err != nil {
		return err
	}
	w.trees[absDir] = true
	return nil
}

// Unwatch stops watching a file or directory registered earlier.
func (w *Watcher) Unwatch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	switch {
	case w.files[absPath]:
		delete(w.files, absPath)
		w.releaseDirLocked(filepath.Dir(absPath))
	case w.trees[absPath]:
		delete(w.trees, absPath)
		w.releaseDirLocked(absPath)
	default:
		return ErrNotWatching
	}
	return nil
}

// IsWatching reports whether path was registered with WatchFile or WatchDir.
func (w *Watcher) IsWatching(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[absPath] || w.trees[absPath]
}

// OnChange registers a handler for debounced events.
func (w *Watcher) OnChange(h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

// Close stops the watcher. Pending events are discarded.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	w.wg.Wait()
	return w.fsw.Close()
}

func (w *Watcher) addDirLocked(dir string) error {
	if w.dirs[dir] == 0 {
		info, err := os.Stat(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return ErrPathNotExist
			}
			return err
		}
		if !info.IsDir() {
			return ErrPathNotExist
		}
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	return nil
}

func (w *Watcher) releaseDirLocked(dir string) {
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		_ = w.fsw.Remove(dir)
	}
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleFSEvent(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

func (w *Watcher) handleFSEvent(ev fsnotify.Event) {
	op := convertOp(ev.Op)
	if op == 0 {
		return
	}
	path := filepath.Clean(ev.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || !w.wantedLocked(path) {
		return
	}

	if p, ok := w.pending[path]; ok {
		p.event.Op |= op
		p.event.Timestamp = time.Now()
		p.timer.Reset(w.delay)
		return
	}

	p := &pendingEvent{event: Event{Path: path, Op: op, Timestamp: time.Now()}}
	p.timer = time.AfterFunc(w.delay, func() { w.fire(path) })
	w.pending[path] = p
}

func (w *Watcher) wantedLocked(path string) bool {
	return w.files[path] || w.trees[filepath.Dir(path)]
}

func (w *Watcher) fire(path string) {
	w.mu.Lock()
	p, ok := w.pending[path]
	if !ok || w.closed {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	for _, h := range handlers {
		h(p.event)
	}
}

// convertOp converts fsnotify.Op to watcher.Op. Chmod alone is ignored.
func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	return op
}
