package headless

import (
	"bytes"
	"strings"
	"testing"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestFrontend_Hold(t *testing.T) {
	f := New(log.NewTestLogger(t))
	m := machine.New(machine.WithSeed(1))

	f.Hold(0x4, 2)
	for _, expected := range []bool{true, true, false, false} {
		assert.NoError(t, f.Update(m))
		down, err := m.KeyDown(0x4)
		assert.NoError(t, err)
		assert.Equal(t, expected, down)
	}
}

func TestFrontend_HoldInvalidKey(t *testing.T) {
	f := New(log.NewTestLogger(t))
	m := machine.New(machine.WithSeed(1))

	f.Hold(0x10, 1)
	assert.ErrorContains(t, f.Update(m), "pressing key")
}

func TestFrontend_PresentCopiesFrame(t *testing.T) {
	f := New(log.NewTestLogger(t))
	display := &machine.Display{}
	display.SetPixel(3, 4, true)

	assert.NoError(t, f.Present(display))
	display.SetPixel(3, 4, false)

	assert.Equal(t, 1, f.Frames())
	assert.True(t, f.Display().Pixel(3, 4))

	buf := &bytes.Buffer{}
	assert.NoError(t, f.WriteFrame(buf))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, machine.Height/2)
	assert.True(t, strings.HasPrefix(lines[2], "   \u2580"))
}

func TestFrontend_Tone(t *testing.T) {
	f := New(log.NewTestLogger(t))

	assert.NoError(t, f.Tone(true))
	assert.NoError(t, f.Tone(true))
	assert.True(t, f.ToneOn())
	assert.NoError(t, f.Tone(false))
	assert.NoError(t, f.Tone(true))

	assert.Equal(t, 2, f.Tones())
}
