// Package watcher delivers debounced file system change notifications.
//
// Directories are watched directly. Individual files are watched through
// their parent directory so that editors which save by rename, and files
// that do not exist yet, are still reported.
package watcher

import (
	"errors"
	"time"
)

// Common errors returned by watcher operations.
var (
	ErrWatcherClosed   = errors.New("watcher is closed")
	ErrAlreadyWatching = errors.New("path is already being watched")
	ErrNotWatching     = errors.New("path is not being watched")
	ErrPathNotExist    = errors.New("path does not exist")
)

// Op represents the type of file system operation.
type Op uint32

const (
	// OpCreate indicates a file or directory was created.
	OpCreate Op = 1 << iota
	// OpWrite indicates a file was written to.
	OpWrite
	// OpRemove indicates a file or directory was removed.
	OpRemove
	// OpRename indicates a file or directory was renamed.
	OpRename
)

// String returns a human-readable representation of the operation.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpWrite:
		return "WRITE"
	case OpRemove:
		return "REMOVE"
	case OpRename:
		return "RENAME"
	default:
		return "UNKNOWN"
	}
}

// Has returns true if the operation includes the given op.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// Event represents a file system change event.
type Event struct {
	// Path is the absolute path of the affected file.
	Path string

	// Op is the union of operations coalesced into this event.
	Op Op

	// Timestamp is when the last coalesced change occurred.
	Timestamp time.Time
}

// Handler is a function that handles file system events.
type Handler func(event Event)

// ErrorHandler is a function that handles watcher errors.
type ErrorHandler func(err error)

// Option configures a watcher.
type Option func(*Watcher)

// WithDebounceDelay sets the delay before delivering events.
// Events for the same path within this window are coalesced.
func WithDebounceDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.delay = d
		}
	}
}

// WithErrorHandler registers a handler for fsnotify errors.
func WithErrorHandler(h ErrorHandler) Option {
	return func(w *Watcher) {
		w.onError = h
	}
}
