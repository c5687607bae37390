// Package terminal implements a frontend that renders the display with ANSI
// escape sequences and reads keys from a terminal in raw mode.
//
// Terminals only report key presses, every key press is therefore held down
// for a configurable number of frames. A lone Escape key or Ctrl-C quits,
// escape sequences of cursor and function keys are ignored.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrochip8/internal/keymap"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
)

const (
	keyEscape   = 0x1B
	keyCtrlC    = 0x03
	inputBuffer = 64

	// time to wait for the byte following an escape, a key that sends an
	// escape sequence delivers all bytes at once
	escapeTimeout = 25 * time.Millisecond

	escClearScreen = "\x1b[2J"
	escCursorHome  = "\x1b[H"
	escHideCursor  = "\x1b[?25l"
	escShowCursor  = "\x1b[?25h"
	escReset       = "\x1b[0m"
	bell           = "\a"
)

// DefaultHoldFrames is the number of frames a pressed key stays down.
const DefaultHoldFrames = 6

// Terminal is a text frontend.
type Terminal struct {
	logger     *log.Logger
	out        io.Writer
	raw        *rawMode
	holdFrames int

	input   chan byte
	errs    chan error
	release map[int]int // update count at which a held key is released
	updates int
}

// Open switches the terminal of the standard input into raw mode and returns a
// frontend rendering to the standard output. Close must be called to restore
// the terminal state.
func Open(logger *log.Logger, holdFrames int) (*Terminal, error) {
	raw, err := enterRawMode(os.Stdin)
	if err != nil {
		return nil, err
	}

	t := newTerminal(logger, os.Stdin, os.Stdout, holdFrames)
	t.raw = raw

	if _, err := io.WriteString(t.out, escHideCursor+escClearScreen); err != nil {
		_ = raw.exit()
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	return t, nil
}

func newTerminal(logger *log.Logger, in io.Reader, out io.Writer, holdFrames int) *Terminal {
	t := &Terminal{
		logger:     logger,
		out:        out,
		holdFrames: max(holdFrames, 1),
		input:      make(chan byte, inputBuffer),
		errs:       make(chan error, 1),
		release:    map[int]int{},
	}
	go t.readInput(in)
	return t
}

// readInput forwards all bytes of the reader to the input channel. The
// goroutine ends when the reader returns an error.
func (t *Terminal) readInput(in io.Reader) {
	reader := bufio.NewReader(in)
	for {
		b, err := reader.ReadByte()
		if err != nil {
			t.errs <- err
			return
		}
		t.input <- b
	}
}

// Close restores the terminal state.
func (t *Terminal) Close() error {
	if _, err := io.WriteString(t.out, escReset+escShowCursor+"\r\n"); err != nil {
		return fmt.Errorf("resetting screen: %w", err)
	}
	if t.raw == nil {
		return nil
	}
	return t.raw.exit()
}

// Update applies all pending key presses to the machine and releases keys
// whose hold time expired.
func (t *Terminal) Update(m *machine.Machine) error {
	for key, release := range t.release {
		if t.updates < release {
			continue
		}
		if err := m.Release(key); err != nil {
			return fmt.Errorf("releasing key: %w", err)
		}
		delete(t.release, key)
	}

	if err := t.drainInput(m); err != nil {
		return err
	}

	t.updates++
	return nil
}

func (t *Terminal) drainInput(m *machine.Machine) error {
	for {
		select {
		case b := <-t.input:
			if b == keyEscape && t.skipEscapeSequence() {
				continue
			}
			if err := t.handleKey(m, b); err != nil {
				return err
			}

		case err := <-t.errs:
			if errors.Is(err, io.EOF) {
				t.logger.Debug("Terminal input closed")
				return nil
			}
			return fmt.Errorf("reading terminal input: %w", err)

		default:
			return nil
		}
	}
}

// skipEscapeSequence consumes the rest of an escape sequence like the ones
// sent by cursor and function keys. It returns false for a lone escape.
func (t *Terminal) skipEscapeSequence() bool {
	b, ok := t.nextByte()
	if !ok || b == keyEscape {
		return false
	}
	if b != '[' && b != 'O' {
		return true // alt modified key
	}

	// parameter bytes until the final byte of the control sequence
	for {
		b, ok = t.nextByte()
		if !ok || (b >= 0x40 && b <= 0x7E) {
			return true
		}
	}
}

func (t *Terminal) nextByte() (byte, bool) {
	select {
	case b := <-t.input:
		return b, true
	case <-time.After(escapeTimeout):
		return 0, false
	}
}

func (t *Terminal) handleKey(m *machine.Machine, b byte) error {
	switch b {
	case keyEscape, keyCtrlC:
		return runner.ErrQuit
	}

	key, ok := keymap.Key(rune(b))
	if !ok {
		return nil
	}

	if err := m.Press(key); err != nil {
		return fmt.Errorf("pressing key: %w", err)
	}
	t.release[key] = t.updates + t.holdFrames
	return nil
}

// Present renders the display, two pixel rows per text line.
func (t *Terminal) Present(display *machine.Display) error {
	buf := &strings.Builder{}
	buf.WriteString(escCursorHome)
	buf.WriteString(strings.Join(frontend.TextLines(display), "\r\n"))

	if _, err := io.WriteString(t.out, buf.String()); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// Tone rings the terminal bell when a tone starts.
func (t *Terminal) Tone(on bool) error {
	if !on {
		return nil
	}
	if _, err := io.WriteString(t.out, bell); err != nil {
		return fmt.Errorf("ringing bell: %w", err)
	}
	return nil
}
