package desktop

import (
	"encoding/binary"
	"testing"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestToneSource(t *testing.T) {
	source := newToneSource(sampleRate, toneFrequency)
	assert.Equal(t, 109, source.period)

	buf := make([]byte, 4*source.period+3)
	n, err := source.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 4*source.period, n)

	sample := func(frame int) int16 {
		left := int16(binary.LittleEndian.Uint16(buf[frame*bytesPerFrame:]))
		right := int16(binary.LittleEndian.Uint16(buf[frame*bytesPerFrame+2:]))
		assert.Equal(t, left, right)
		return left
	}

	assert.Equal(t, int16(0), sample(0))
	assert.True(t, sample(source.period/4) > 0)
	assert.True(t, sample(3*source.period/4) < 0)
	// a full period was written
	assert.Equal(t, 0, source.position)
}

func TestFrontend_Present(t *testing.T) {
	f := New(log.NewTestLogger(t), DefaultScale, nil)
	assert.Equal(t, background.R, f.pixels[0])
	assert.Equal(t, uint8(0xFF), f.pixels[3])

	display := &machine.Display{}
	display.SetPixel(1, 2, true)
	assert.NoError(t, f.Present(display))

	offset := (2*machine.Width + 1) * 4
	assert.Equal(t, foreground.R, f.pixels[offset])
	assert.Equal(t, foreground.G, f.pixels[offset+1])
	assert.Equal(t, foreground.B, f.pixels[offset+2])
	assert.Equal(t, background.R, f.pixels[offset+4])
}

func TestFrontend_ToneWithoutPlayer(t *testing.T) {
	f := New(log.NewTestLogger(t), 0, nil)
	assert.Equal(t, 1, f.scale)
	assert.NoError(t, f.Tone(true))
	assert.NoError(t, f.Tone(false))
}
