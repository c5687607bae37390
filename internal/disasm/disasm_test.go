package disasm

import (
	"context"
	"errors"
	"hash/crc32"
	"testing"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func process(t *testing.T, program []byte) *Program {
	t.Helper()

	dis := New(log.NewTestLogger(t), program)
	app, err := dis.Process(context.Background())
	assert.NoError(t, err)
	return app
}

func TestProcess(t *testing.T) {
	program := []byte{
		0x00, 0xE0, // $200 cls
		0xA2, 0x0C, // $202 ld I, $20C
		0x22, 0x0A, // $204 call $20A
		0x12, 0x06, // $206 jp $206
		0xFF, 0xFF, // $208 unreachable
		0x00, 0xEE, // $20A ret
		0xF0, 0x90, // $20C sprite data
	}
	app := process(t, program)

	assert.Equal(t, crc32.ChecksumIEEE(program), app.Checksum)
	assert.Equal(t, len(program), app.Size)

	expected := []Line{
		{Address: 0x200, Label: "Start", Code: chip8.ClsInst.Name, Data: []byte{0x00, 0xE0}},
		{Address: 0x202, Code: chip8.LdInst.Name + " I, _data_020c", Data: []byte{0xA2, 0x0C}},
		{Address: 0x204, Code: chip8.CallInst.Name + " _func_020a", Data: []byte{0x22, 0x0A}},
		{Address: 0x206, Label: "_label_0206", Code: chip8.JpInst.Name + " _label_0206", Data: []byte{0x12, 0x06}},
		{Address: 0x208, Data: []byte{0xFF, 0xFF}},
		{Address: 0x20A, Label: "_func_020a", Code: chip8.RetInst.Name, Data: []byte{0x00, 0xEE}},
		{Address: 0x20C, Label: "_data_020c", Data: []byte{0xF0, 0x90}},
	}
	assert.Equal(t, len(expected), len(app.Lines))
	for i, line := range expected {
		assert.Equal(t, line, app.Lines[i], "line %d", i)
	}
}

func TestProcess_Skip(t *testing.T) {
	program := []byte{
		0x30, 0x00, // $200 se V0, $00
		0x12, 0x02, // $202 jp $202
		0x00, 0xE0, // $204 cls
		0x12, 0x06, // $206 jp $206
	}
	app := process(t, program)

	assert.Len(t, app.Lines, 4)
	for _, line := range app.Lines {
		assert.True(t, line.IsCode(), "address %04X", line.Address)
	}
	assert.Equal(t, "_label_0202", app.Lines[1].Label)
	assert.Equal(t, chip8.ClsInst.Name, app.Lines[2].Code)
}

func TestProcess_Data(t *testing.T) {
	tests := []struct {
		name     string
		program  []byte
		expected []Line
	}{
		{
			name:    "trailing odd byte",
			program: []byte{0x00, 0xE0, 0xFF},
			expected: []Line{
				{Address: 0x200, Label: "Start", Code: chip8.ClsInst.Name, Data: []byte{0x00, 0xE0}},
				{Address: 0x202, Data: []byte{0xFF}},
			},
		},
		{
			name:    "invalid instruction",
			program: []byte{0x00, 0xE0, 0x50, 0x01, 0x00, 0xE0},
			expected: []Line{
				{Address: 0x200, Label: "Start", Code: chip8.ClsInst.Name, Data: []byte{0x00, 0xE0}},
				{Address: 0x202, Data: []byte{0x50, 0x01, 0x00, 0xE0}},
			},
		},
		{
			name:    "indirect jump",
			program: []byte{0xB2, 0x00, 0x00, 0xE0},
			expected: []Line{
				{
					Address: 0x200, Label: "Start", Code: chip8.JpInst.Name + " V0, $200", Data: []byte{0xB2, 0x00},
					Comment: "indirect jump, destinations not followed",
				},
				{Address: 0x202, Data: []byte{0x00, 0xE0}},
			},
		},
		{
			name:    "branch into instruction",
			program: []byte{0x60, 0x12, 0x12, 0x01},
			expected: []Line{
				{
					Address: 0x200, Label: "Start", Code: chip8.LdInst.Name + " V0, $12", Data: []byte{0x60, 0x12},
					Comment: "branch into instruction detected",
				},
				{Address: 0x202, Code: chip8.JpInst.Name + " $201", Data: []byte{0x12, 0x01}},
			},
		},
		{
			name:    "target outside of program",
			program: []byte{0x13, 0x00},
			expected: []Line{
				{Address: 0x200, Label: "Start", Code: chip8.JpInst.Name + " $300", Data: []byte{0x13, 0x00}},
			},
		},
		{
			name:    "data reference into code",
			program: []byte{0xA2, 0x00, 0x12, 0x02},
			expected: []Line{
				{Address: 0x200, Label: "Start", Code: chip8.LdInst.Name + " I, Start", Data: []byte{0xA2, 0x00}},
				{Address: 0x202, Label: "_label_0202", Code: chip8.JpInst.Name + " _label_0202", Data: []byte{0x12, 0x02}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := process(t, tt.program)
			assert.Equal(t, tt.expected, app.Lines)
		})
	}
}

func TestProcess_Empty(t *testing.T) {
	app := process(t, nil)
	assert.Empty(t, app.Lines)
}

func TestProcess_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dis := New(log.NewTestLogger(t), []byte{0x00, 0xE0})
	_, err := dis.Process(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}
