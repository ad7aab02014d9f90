//go:build linux

package terminal

import (
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"golang.org/x/sys/unix"
)

const lineEnding = "\n"

func defaultShellArgs() []string {
	return []string{"-l"}
}

func startPTY(cmd *exec.Cmd, cols, rows uint16) (PTY, error) {
	master, slave, err := openPTY()
	if err != nil {
		return nil, err
	}

	if err := setWinSize(master, cols, rows); err != nil {
		master.Close()
		slave.Close()
		return nil, err
	}

	cmd.Stdin = slave
	cmd.Stdout = slave
	cmd.Stderr = slave
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setsid = true
	cmd.SysProcAttr.Setctty = true

	if err := cmd.Start(); err != nil {
		master.Close()
		slave.Close()
		return nil, err
	}

	// The child holds its own copy of the slave.
	slave.Close()

	return &filePTY{master: master}, nil
}

// openPTY opens a master/slave pair through /dev/ptmx.
func openPTY() (*os.File, *os.File, error) {
	master, err := os.OpenFile("/dev/ptmx", os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, nil, err
	}

	fd := int(master.Fd())
	if err := unix.IoctlSetPointerInt(fd, unix.TIOCSPTLCK, 0); err != nil {
		master.Close()
		return nil, nil, err
	}
	n, err := unix.IoctlGetUint32(fd, unix.TIOCGPTN)
	if err != nil {
		master.Close()
		return nil, nil, err
	}

	slave, err := os.OpenFile("/dev/pts/"+strconv.FormatUint(uint64(n), 10), os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		master.Close()
		return nil, nil, err
	}
	return master, slave, nil
}

func setWinSize(f *os.File, cols, rows uint16) error {
	return unix.IoctlSetWinsize(int(f.Fd()), unix.TIOCSWINSZ, &unix.Winsize{Row: rows, Col: cols})
}

// filePTY is a PTY backed by a master file descriptor.
type filePTY struct {
	master *os.File
}

func (p *filePTY) File() *os.File                 { return p.master }
func (p *filePTY) Read(buf []byte) (int, error)   { return p.master.Read(buf) }
func (p *filePTY) Write(data []byte) (int, error) { return p.master.Write(data) }
func (p *filePTY) Close() error                   { return p.master.Close() }

func (p *filePTY) Resize(cols, rows uint16) error {
	return setWinSize(p.master, cols, rows)
}
