package frontend

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/assert"
)

func TestTextLines(t *testing.T) {
	display := &machine.Display{}
	display.SetPixel(0, 0, true)
	display.SetPixel(1, 1, true)
	display.SetPixel(2, 0, true)
	display.SetPixel(2, 1, true)
	display.SetPixel(63, 31, true)

	lines := TextLines(display)
	assert.Len(t, lines, machine.Height/2)
	for _, line := range lines {
		assert.Equal(t, machine.Width, utf8.RuneCountInString(line))
	}

	assert.True(t, strings.HasPrefix(lines[0], "\u2580\u2584\u2588 "))
	assert.True(t, strings.HasSuffix(lines[15], " \u2584"))
	assert.Equal(t, strings.Repeat(" ", machine.Width), lines[7])
}
