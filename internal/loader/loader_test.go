package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/assert"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		expectedErr error
	}{
		{
			name: "small program",
			data: []byte{0x00, 0xE0, 0x12, 0x00},
		},
		{
			name: "maximum size",
			data: bytes.Repeat([]byte{0xAA}, machine.MaxProgramSize),
		},
		{
			name:        "empty file",
			data:        []byte{},
			expectedErr: ErrEmptyROM,
		},
		{
			name:        "too large",
			data:        bytes.Repeat([]byte{0xAA}, machine.MaxProgramSize+1),
			expectedErr: ErrROMTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := createTempFile(t, tt.data)

			data, err := New().Load(path)
			if tt.expectedErr != nil {
				assert.True(t, errors.Is(err, tt.expectedErr))
				assert.Nil(t, data)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.data, data)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := New().Load(filepath.Join(t.TempDir(), "missing.ch8"))
	assert.ErrorContains(t, err, "opening file")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.ch8")
	assert.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}
