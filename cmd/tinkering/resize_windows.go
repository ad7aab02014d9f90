//go:build windows

package main

// followResize is a no-op: Windows consoles have no resize signal.
func followResize(int, shellSession) (stop func()) {
	return func() {}
}
