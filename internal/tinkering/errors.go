package tinkering

import (
	"errors"
	"strings"
)

// Messages shown to the user when a precondition is not met.
const (
	MsgNoWorkspace     = "Open a Laravel project first."
	MsgNoFile          = "No file open."
	MsgNotPHP          = "Only PHP files can be run with Laravel Tinker."
	MsgArtisanNotFound = "artisan file not found in project root."
	MsgRunFailed       = "Laravel Tinker run failed"
)

// Sentinel errors, one per precondition.
var (
	ErrNoWorkspace     = errors.New("no workspace open")
	ErrNoDocument      = errors.New("no active document")
	ErrNotPHP          = errors.New("document is not a PHP file")
	ErrArtisanNotFound = errors.New("artisan not found")
)

// UserError is a precondition failure that has already been shown to the
// user. Callers should not report it a second time.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string {
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// IsUserError reports whether err is (or wraps) a UserError.
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}

// RunFailedMessage renders err as the one-line message shown when a run
// fails after its preconditions passed.
func RunFailedMessage(err error) string {
	line, _, _ := strings.Cut(err.Error(), "\n")
	return MsgRunFailed + ": " + line
}

// reject shows message through ui and returns the matching UserError.
func reject(ui UI, message string, err error) error {
	if ui != nil {
		ui.ShowError(message)
	}
	return &UserError{Message: message, Err: err}
}
