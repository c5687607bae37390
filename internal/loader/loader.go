// Package loader handles ROM file loading operations.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/machine"
)

var (
	// ErrEmptyROM is returned for files that contain no program.
	ErrEmptyROM = errors.New("ROM file is empty")
	// ErrROMTooLarge is returned for files that do not fit into the program memory.
	ErrROMTooLarge = errors.New("ROM file is too large")
)

// Loader handles loading ROM files from disk.
type Loader struct{}

// New creates a new ROM loader.
func New() *Loader {
	return &Loader{}
}

// Load reads a raw CHIP-8 program image. The file has no header, its content
// is loaded at the program start address of the machine.
func (l *Loader) Load(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	return l.Read(file)
}

// Read reads a raw CHIP-8 program image from the reader.
func (l *Loader) Read(reader io.Reader) ([]byte, error) {
	// read one byte more than allowed to detect oversized images
	data, err := io.ReadAll(io.LimitReader(reader, machine.MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading ROM: %w", err)
	}

	switch {
	case len(data) == 0:
		return nil, ErrEmptyROM
	case len(data) > machine.MaxProgramSize:
		return nil, fmt.Errorf("%w: more than %d bytes", ErrROMTooLarge, machine.MaxProgramSize)
	}
	return data, nil
}
