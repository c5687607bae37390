//go:build !(linux || darwin || dragonfly || freebsd || netbsd || openbsd)

package terminal

import (
	"errors"
	"os"
)

type rawMode struct{}

func enterRawMode(*os.File) (*rawMode, error) {
	return nil, errors.New("terminal raw mode is not supported on this platform")
}

func (r *rawMode) exit() error {
	return nil
}
