// Package headless implements a frontend without any input or output device.
// It is used for scripted runs that print the final frame.
package headless

import (
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/log"
)

// Frontend keeps a copy of the last presented frame.
type Frontend struct {
	logger *log.Logger

	last     machine.Display
	frames   int // presented frames
	tones    int // number of started tones
	toneOn   bool
	keyTimes map[int]int // frame at which a key is released
	updates  int
}

// New returns a new headless frontend.
func New(logger *log.Logger) *Frontend {
	return &Frontend{
		logger:   logger,
		keyTimes: map[int]int{},
	}
}

// Hold presses the key on the next update and releases it after the given
// number of updates.
func (f *Frontend) Hold(key, updates int) {
	f.keyTimes[key] = f.updates + updates
}

// Update applies the held keys to the machine.
func (f *Frontend) Update(m *machine.Machine) error {
	for key, release := range f.keyTimes {
		if f.updates < release {
			if err := m.Press(key); err != nil {
				return fmt.Errorf("pressing key: %w", err)
			}
			continue
		}

		if err := m.Release(key); err != nil {
			return fmt.Errorf("releasing key: %w", err)
		}
		delete(f.keyTimes, key)
	}

	f.updates++
	return nil
}

// Present stores a copy of the display.
func (f *Frontend) Present(display *machine.Display) error {
	f.last = *display
	f.frames++
	return nil
}

// Tone records the tone state.
func (f *Frontend) Tone(on bool) error {
	if on && !f.toneOn {
		f.tones++
		f.logger.Debug("Tone started", log.Int("count", f.tones))
	}
	f.toneOn = on
	return nil
}

// Frames returns the number of presented frames.
func (f *Frontend) Frames() int {
	return f.frames
}

// Tones returns the number of started tones.
func (f *Frontend) Tones() int {
	return f.tones
}

// ToneOn returns whether the tone is currently playing.
func (f *Frontend) ToneOn() bool {
	return f.toneOn
}

// Display returns the last presented frame.
func (f *Frontend) Display() *machine.Display {
	return &f.last
}

// WriteFrame writes the last presented frame as text.
func (f *Frontend) WriteFrame(writer io.Writer) error {
	for _, line := range frontend.TextLines(&f.last) {
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return fmt.Errorf("writing frame line: %w", err)
		}
	}
	return nil
}
