package keymap

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestKey(t *testing.T) {
	tests := []struct {
		physical rune
		key      int
		ok       bool
	}{
		{'1', 0x1, true},
		{'4', 0xC, true},
		{'w', 0x5, true},
		{'W', 0x5, true},
		{'f', 0xE, true},
		{'x', 0x0, true},
		{'V', 0xF, true},
		{'5', 0, false},
		{'p', 0, false},
		{' ', 0, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.physical), func(t *testing.T) {
			key, ok := Key(tt.physical)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestBindings_CoverKeypad(t *testing.T) {
	assert.Len(t, Bindings, 16)

	var seen [16]bool
	for _, binding := range Bindings {
		assert.False(t, seen[binding.Key], "key %X bound twice", binding.Key)
		seen[binding.Key] = true
	}
}
