//go:build darwin

package terminal

import (
	"bytes"
	"os"
	"os/exec"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

const lineEnding = "\n"

func defaultShellArgs() []string {
	return []string{"-l"}
}

func startPTY(cmd *exec.Cmd, cols, rows uint16) (PTY, error) {
	master, err := os.OpenFile("/dev/ptmx", os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, err
	}

	fd := int(master.Fd())
	if err := unix.IoctlSetInt(fd, unix.TIOCPTYGRANT, 0); err != nil {
		master.Close()
		return nil, err
	}
	if err := unix.IoctlSetInt(fd, unix.TIOCPTYUNLK, 0); err != nil {
		master.Close()
		return nil, err
	}
	slavePath, err := ptsName(master)
	if err != nil {
		master.Close()
		return nil, err
	}

	slave, err := os.OpenFile(slavePath, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		master.Close()
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
	slave.Close()

	return &filePTY{master: master}, nil
}

// ptsName reads the slave path with TIOCPTYGNAME.
func ptsName(master *os.File) (string, error) {
	var name [128]byte
	_, _, errno := syscall.Syscall(
		syscall.SYS_IOCTL,
		master.Fd(),
		uintptr(unix.TIOCPTYGNAME),
		uintptr(unsafe.Pointer(&name[0])),
	)
	if errno != 0 {
		return "", errno
	}
	if i := bytes.IndexByte(name[:], 0); i >= 0 {
		return string(name[:i]), nil
	}
	return string(name[:]), nil
}

func setWinSize(f *os.File, cols, rows uint16) error {
	return unix.IoctlSetWinsize(int(f.Fd()), unix.TIOCSWINSZ, &unix.Winsize{Row: rows, Col: cols})
}

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
