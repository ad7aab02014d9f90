package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// shellSession is the part of a terminal session attach needs.
type shellSession interface {
	io.Writer
	SendText(text string) error
	Resize(cols, rows int) error
	Done() <-chan struct{}
}

// attach connects in to s until the shell exits. An interactive stdin is
// switched to raw mode and copied to the shell; otherwise the shell is
// told to exit once the submitted command finishes.
func attach(ctx context.Context, s shellSession, in io.Reader, batch bool) error {
	f, isFile := in.(*os.File)
	if batch || !isFile || !term.IsTerminal(int(f.Fd())) {
		if err := s.SendText("exit"); err != nil {
			return err
		}
		return wait(ctx, s)
	}

	fd := int(f.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, state) }()

	stopResize := followResize(fd, s)
	defer stopResize()

	// The copy stays blocked on stdin after the shell exits; the process
	// ends right after.
	go func() { _, _ = io.Copy(s, f) }()
	return wait(ctx, s)
}

func wait(ctx context.Context, s shellSession) error {
	select {
	case <-s.Done():
		return nil
	case <-ctx.Done():
		return &exitError{Code: 130}
	}
}

// terminalSize returns the size of w when it is a terminal.
func terminalSize(w io.Writer) (cols, rows int, ok bool) {
	f, isFile := w.(*os.File)
	if !isFile || !term.IsTerminal(int(f.Fd())) {
		return 0, 0, false
	}
	cols, rows, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0, 0, false
	}
	return cols, rows, true
}
