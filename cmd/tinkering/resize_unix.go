//go:build !windows

package main

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"
)

// followResize copies the size of fd to s on every SIGWINCH until the
// returned stop function is called.
func followResize(fd int, s shellSession) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ch:
				if cols, rows, err := term.GetSize(fd); err == nil {
					_ = s.Resize(cols, rows)
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}
