// Package frontend contains helpers shared by the text based frontends.
package frontend

import (
	"strings"

	"github.com/retroenv/retrochip8/internal/machine"
)

// Two display rows are combined into one text row using half block characters.
var halfBlocks = [4]string{
	" ",      // both pixels off
	"\u2580", // upper half block
	"\u2584", // lower half block
	"\u2588", // full block
}

// TextLines renders the display as text, every line of the result combines
// two pixel rows.
func TextLines(display *machine.Display) []string {
	lines := make([]string, 0, machine.Height/2)
	buf := &strings.Builder{}

	for y := 0; y < machine.Height; y += 2 {
		buf.Reset()
		for x := range machine.Width {
			index := 0
			if display.Pixel(x, y) {
				index |= 1
			}
			if display.Pixel(x, y+1) {
				index |= 2
			}
			buf.WriteString(halfBlocks[index])
		}
		lines = append(lines, buf.String())
	}
	return lines
}
