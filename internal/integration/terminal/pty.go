package terminal

import (
	"os"
	"os/exec"
)

// PTY is the host side of a pseudo-terminal.
type PTY interface {
	// File returns the master file, or nil for pipe-backed sessions.
	File() *os.File

	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)

	// Resize changes the PTY size.
	Resize(cols, rows uint16) error

	Close() error
}

// StartPTY starts cmd attached to a new PTY.
func StartPTY(cmd *exec.Cmd, cols, rows uint16) (PTY, error) {
	return startPTY(cmd, cols, rows)
}
