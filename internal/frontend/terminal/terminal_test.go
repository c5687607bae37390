package terminal

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newTestTerminal(t *testing.T, in io.Reader, holdFrames int) (*Terminal, *bytes.Buffer) {
	t.Helper()

	out := &bytes.Buffer{}
	return newTerminal(log.NewTestLogger(t), in, out, holdFrames), out
}

// updateUntil runs updates until the condition is met, input is delivered
// asynchronously by the reader goroutine.
func updateUntil(t *testing.T, term *Terminal, m *machine.Machine, condition func(err error) bool) {
	t.Helper()

	for range 1000 {
		if condition(term.Update(m)) {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met")
}

func TestTerminal_HoldKey(t *testing.T) {
	reader, writer := io.Pipe()
	term, _ := newTestTerminal(t, reader, 3)
	m := machine.New(machine.WithSeed(1))

	_, err := writer.Write([]byte("w"))
	assert.NoError(t, err)

	updateUntil(t, term, m, func(err error) bool {
		assert.NoError(t, err)
		down, _ := m.KeyDown(0x5)
		return down
	})

	// pressed in the last update, held for 3 updates
	for range 2 {
		assert.NoError(t, term.Update(m))
		down, err := m.KeyDown(0x5)
		assert.NoError(t, err)
		assert.True(t, down)
	}
	assert.NoError(t, term.Update(m))
	down, err := m.KeyDown(0x5)
	assert.NoError(t, err)
	assert.False(t, down)

	assert.NoError(t, writer.Close())
}

func TestTerminal_Quit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"escape", "\x1b"},
		{"ctrl c", "\x03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, _ := newTestTerminal(t, strings.NewReader(tt.input), DefaultHoldFrames)
			m := machine.New(machine.WithSeed(1))

			updateUntil(t, term, m, func(err error) bool {
				return errors.Is(err, runner.ErrQuit)
			})
		})
	}
}

func TestTerminal_EscapeSequences(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"cursor up", "\x1b[A"},
		{"cursor key application mode", "\x1bOA"},
		{"function key", "\x1b[15~"},
		{"alt modified key", "\x1bq"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, _ := newTestTerminal(t, strings.NewReader(tt.input+"w"), DefaultHoldFrames)
			m := machine.New(machine.WithSeed(1))

			updateUntil(t, term, m, func(err error) bool {
				assert.NoError(t, err)
				down, _ := m.KeyDown(0x5)
				return down
			})

			// only the key following the sequence was pressed
			for key := range machine.KeyCount {
				down, err := m.KeyDown(key)
				assert.NoError(t, err)
				assert.Equal(t, key == 0x5, down)
			}
		})
	}
}

func TestTerminal_HandleKey(t *testing.T) {
	term, _ := newTestTerminal(t, strings.NewReader(""), 2)
	m := machine.New(machine.WithSeed(1))

	assert.NoError(t, term.handleKey(m, 'V'))
	assert.NoError(t, term.handleKey(m, 'p'))

	down, err := m.KeyDown(0xF)
	assert.NoError(t, err)
	assert.True(t, down)
	assert.Len(t, term.release, 1)
	assert.Equal(t, 2, term.release[0xF])
}

func TestTerminal_HandleKeyResolvesWait(t *testing.T) {
	term, _ := newTestTerminal(t, strings.NewReader(""), 2)
	m := machine.New(machine.WithSeed(1))
	m.Load([]byte{0xF2, 0x0A})
	m.Step()
	assert.True(t, m.Waiting())

	assert.NoError(t, term.handleKey(m, 'x'))
	assert.False(t, m.Waiting())
	value, err := m.Register(2)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x0), value)
}

func TestTerminal_Present(t *testing.T) {
	term, out := newTestTerminal(t, strings.NewReader(""), 1)

	display := &machine.Display{}
	display.SetPixel(0, 0, true)
	assert.NoError(t, term.Present(display))

	output := out.String()
	assert.True(t, strings.HasPrefix(output, escCursorHome+"▀"))
	assert.Equal(t, machine.Height/2-1, strings.Count(output, "\r\n"))
}

func TestTerminal_Tone(t *testing.T) {
	term, out := newTestTerminal(t, strings.NewReader(""), 1)

	assert.NoError(t, term.Tone(true))
	assert.NoError(t, term.Tone(false))
	assert.Equal(t, bell, out.String())
}

func TestTerminal_Close(t *testing.T) {
	term, out := newTestTerminal(t, strings.NewReader(""), 1)

	assert.NoError(t, term.Close())
	assert.Contains(t, out.String(), escShowCursor)
}
