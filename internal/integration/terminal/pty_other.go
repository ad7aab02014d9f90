//go:build !linux && !darwin

package terminal

import (
	"io"
	"os"
	"os/exec"
	"runtime"
)

var lineEnding = "\n"

func init() {
	if runtime.GOOS == "windows" {
		lineEnding = "\r\n"
	}
}

func defaultShellArgs() []string {
	return []string{}
}

// startPTY has no pseudo-terminal on this platform: the shell is driven
// through pipes, with stderr merged into stdout.
func startPTY(cmd *exec.Cmd, cols, rows uint16) (PTY, error) {
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, err
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, err
	}

	return &pipePTY{stdin: stdin, stdout: stdout}, nil
}

type pipePTY struct {
	stdin  io.WriteCloser
	stdout io.ReadCloser
}

func (p *pipePTY) File() *os.File                 { return nil }
func (p *pipePTY) Read(buf []byte) (int, error)   { return p.stdout.Read(buf) }
func (p *pipePTY) Write(data []byte) (int, error) { return p.stdin.Write(data) }
func (p *pipePTY) Resize(cols, rows uint16) error { return nil }

func (p *pipePTY) Close() error {
	p.stdin.Close()
	return p.stdout.Close()
}
