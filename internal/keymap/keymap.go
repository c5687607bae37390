// Package keymap maps the physical keys of a keyboard to the sixteen keys of
// the CHIP-8 hexadecimal keypad.
//
// The 4x4 block of keys on the left side of a QWERTY keyboard is used:
//
//	1 2 3 4        1 2 3 C
//	Q W E R   ->   4 5 6 D
//	A S D F        7 8 9 E
//	Z X C V        A 0 B F
package keymap

import "unicode"

// Binding assigns a physical key to a keypad key.
type Binding struct {
	Physical rune
	Key      int
}

// Bindings lists all key bindings in keypad layout order, row by row.
var Bindings = []Binding{
	{'1', 0x1}, {'2', 0x2}, {'3', 0x3}, {'4', 0xC},
	{'q', 0x4}, {'w', 0x5}, {'e', 0x6}, {'r', 0xD},
	{'a', 0x7}, {'s', 0x8}, {'d', 0x9}, {'f', 0xE},
	{'z', 0xA}, {'x', 0x0}, {'c', 0xB}, {'v', 0xF},
}

var keys = func() map[rune]int {
	m := make(map[rune]int, len(Bindings))
	for _, binding := range Bindings {
		m[binding.Physical] = binding.Key
	}
	return m
}()

// Key returns the keypad key for a physical key, letters are matched case
// insensitive.
func Key(physical rune) (int, bool) {
	key, ok := keys[unicode.ToLower(physical)]
	return key, ok
}
