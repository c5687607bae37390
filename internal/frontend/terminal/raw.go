//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package terminal

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// rawMode switches a terminal into non canonical mode without echo and
// restores the previous state.
type rawMode struct {
	fd      int
	restore unix.Termios
}

func enterRawMode(file *os.File) (*rawMode, error) {
	fd := int(file.Fd())
	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return nil, fmt.Errorf("getting terminal state: %w", err)
	}

	raw := &rawMode{
		fd:      fd,
		restore: *termios,
	}

	state := *termios
	state.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR | unix.ICRNL | unix.IXON
	state.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN | unix.ISIG
	state.Cflag &^= unix.CSIZE | unix.PARENB
	state.Cflag |= unix.CS8

	// block reads until at least one byte is available
	state.Cc[unix.VMIN] = 1
	state.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &state); err != nil {
		return nil, fmt.Errorf("setting terminal raw mode: %w", err)
	}
	return raw, nil
}

func (r *rawMode) exit() error {
	if err := unix.IoctlSetTermios(r.fd, ioctlSetTermios, &r.restore); err != nil {
		return fmt.Errorf("restoring terminal state: %w", err)
	}
	return nil
}
