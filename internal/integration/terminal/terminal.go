package terminal

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
)

// Terminal is a shell running behind a PTY.
type Terminal struct {
	id   string
	name string

	pty PTY
	cmd *exec.Cmd

	mu       sync.RWMutex
	done     chan struct{}
	exitCode atomic.Int32
	closed   atomic.Bool

	onOutput func(data []byte)
	onShow   func(t *Terminal)
	onClose  func()
}

// Options configures a new terminal.
type Options struct {
	// Name is the display name, also used to look a terminal up again.
	Name string

	// Shell is the shell executable (defaults to DefaultShell()).
	Shell string

	// Args are passed to the shell. Nil means the platform default.
	Args []string

	// Env are additional environment variables.
	Env []string

	// WorkDir is the working directory for the shell.
	WorkDir string

	// Cols and Rows set the initial PTY size (default 80x24).
	Cols int
	Rows int

	// OnOutput is called from the read loop with every chunk of output.
	OnOutput func(data []byte)

	// OnClose is called once the terminal has exited.
	OnClose func()
}

// DefaultShell returns $SHELL, %COMSPEC% on Windows, or /bin/sh.
func DefaultShell() string {
	if s := os.Getenv("SHELL"); s != "" {
		return s
	}
	if s := os.Getenv("COMSPEC"); s != "" {
		return s
	}
	return "/bin/sh"
}

// newTerminal starts the shell described by opts. Output is not read
// until start is called.
func newTerminal(id string, opts Options) (*Terminal, error) {
	if opts.Shell == "" {
		opts.Shell = DefaultShell()
	}
	if opts.Cols <= 0 {
		opts.Cols = 80
	}
	if opts.Rows <= 0 {
		opts.Rows = 24
	}
	if opts.Name == "" {
		opts.Name = "terminal"
	}

	if _, err := exec.LookPath(opts.Shell); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrShellNotFound, opts.Shell)
	}

	args := opts.Args
	if args == nil {
		args = defaultShellArgs()
	}
	cmd := exec.Command(opts.Shell, args...)
	cmd.Dir = opts.WorkDir
	cmd.Env = append(os.Environ(), opts.Env...)
	cmd.Env = append(cmd.Env, "TERM=xterm-256color")

	pty, err := StartPTY(cmd, uint16(opts.Cols), uint16(opts.Rows))
	if err != nil {
		return nil, fmt.Errorf("start PTY: %w", err)
	}

	t := &Terminal{
		id:       id,
		name:     opts.Name,
		pty:      pty,
		cmd:      cmd,
		done:     make(chan struct{}),
		onOutput: opts.OnOutput,
		onClose:  opts.OnClose,
	}
	t.exitCode.Store(-1)

	return t, nil
}

// start begins forwarding output. It must be called exactly once.
func (t *Terminal) start() {
	go t.readLoop()
}

// ID returns the terminal's unique identifier.
func (t *Terminal) ID() string {
	return t.id
}

// Name returns the terminal's display name.
func (t *Terminal) Name() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.name
}

// Write sends raw input to the terminal.
func (t *Terminal) Write(data []byte) (int, error) {
	if t.closed.Load() {
		return 0, ErrTerminalClosed
	}
	return t.pty.Write(data)
}

// WriteString sends a string to the terminal.
func (t *Terminal) WriteString(s string) (int, error) {
	return t.Write([]byte(s))
}

// SendText submits text followed by a line ending, as if typed.
func (t *Terminal) SendText(text string) error {
	_, err := t.WriteString(text + lineEnding)
	return err
}

// Show asks the owning manager to bring this terminal to the foreground.
func (t *Terminal) Show() {
	t.mu.RLock()
	fn := t.onShow
	t.mu.RUnlock()
	if fn != nil {
		fn(t)
	}
}

// Resize changes the terminal size.
func (t *Terminal) Resize(cols, rows int) error {
	if t.closed.Load() {
		return ErrTerminalClosed
	}
	if cols < 1 || rows < 1 {
		return ErrInvalidSize
	}
	if err := t.pty.Resize(uint16(cols), uint16(rows)); err != nil {
		return fmt.Errorf("resize PTY: %w", err)
	}
	return nil
}

// SetOutput replaces the output callback.
func (t *Terminal) SetOutput(fn func(data []byte)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOutput = fn
}

// Close terminates the terminal.
func (t *Terminal) Close() error {
	if t.closed.Swap(true) {
		return nil
	}

	if t.cmd.Process != nil {
		t.cmd.Process.Kill()
	}
	t.pty.Close()
	<-t.done

	return nil
}

// Done returns a channel that is closed when the terminal exits.
func (t *Terminal) Done() <-chan struct{} {
	return t.done
}

// ExitCode returns the shell exit code, or -1 while it is running.
func (t *Terminal) ExitCode() int {
	return int(t.exitCode.Load())
}

// IsRunning returns true if the terminal is still running.
func (t *Terminal) IsRunning() bool {
	select {
	case <-t.done:
		return false
	default:
		return !t.closed.Load()
	}
}

// PID returns the shell process ID.
func (t *Terminal) PID() int {
	if t.cmd.Process == nil {
		return -1
	}
	return t.cmd.Process.Pid
}

// readLoop forwards PTY output until the shell exits.
func (t *Terminal) readLoop() {
	buf := make([]byte, 4096)
	for {
		n, err := t.pty.Read(buf)
		if n > 0 {
			t.mu.RLock()
			fn := t.onOutput
			t.mu.RUnlock()
			if fn != nil {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				fn(chunk)
			}
		}
		if err != nil {
			// io.EOF, or EIO on Linux once the shell has exited.
			break
		}
	}

	if state, _ := t.cmd.Process.Wait(); state != nil {
		t.exitCode.Store(int32(state.ExitCode()))
	}
	t.closed.Store(true)

	if t.onClose != nil {
		t.onClose()
	}
	close(t.done)
}
