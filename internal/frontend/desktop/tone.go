package desktop

import (
	"encoding/binary"
	"math"
)

const (
	sampleRate    = 48000
	toneFrequency = 440
	toneAmplitude = 0.25

	// 16 bit little endian samples, 2 channels
	bytesPerFrame = 4
)

// toneSource is an endless sine wave in the sample format of the audio
// context.
type toneSource struct {
	period   int // samples per sine period
	position int
}

func newToneSource(rate, frequency int) *toneSource {
	return &toneSource{
		period: max(rate/frequency, 1),
	}
}

// Read fills the buffer with complete sample frames.
func (s *toneSource) Read(buf []byte) (int, error) {
	n := len(buf) / bytesPerFrame * bytesPerFrame

	for i := 0; i < n; i += bytesPerFrame {
		phase := 2 * math.Pi * float64(s.position) / float64(s.period)
		sample := uint16(int16(math.Sin(phase) * toneAmplitude * math.MaxInt16))
		binary.LittleEndian.PutUint16(buf[i:], sample)
		binary.LittleEndian.PutUint16(buf[i+2:], sample)

		s.position = (s.position + 1) % s.period
	}
	return n, nil
}
