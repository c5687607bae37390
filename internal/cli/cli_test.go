package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/assert"
)

func parseArgs(t *testing.T, args ...string) (options.Program, options.Disassembler, error) {
	t.Helper()

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = append([]string{"prog"}, args...)

	return ParseFlags()
}

func TestParseFlags_Defaults(t *testing.T) {
	opts, disasmOptions, err := parseArgs(t, "pong.ch8")
	assert.NoError(t, err)

	assert.Equal(t, "pong.ch8", opts.Input)
	assert.Equal(t, options.FrontendDesktop, opts.Frontend)
	assert.Equal(t, 10, opts.Cycles)
	assert.Equal(t, 60, opts.FrameRate)
	assert.Equal(t, 10, opts.Scale)
	assert.Equal(t, 6, opts.HoldFrames)
	assert.Equal(t, uint64(0), opts.Seed)
	assert.False(t, opts.Disasm)
	assert.Equal(t, arch.CHIP8System, disasmOptions.System)
}

func TestParseFlags_Emulation(t *testing.T) {
	opts, _, err := parseArgs(t, "-f", "TTY", "-cycles", "20", "-fps", "0", "-seed", "42",
		"-shift-vy", "-hold", "3", "-debug", "-trace", "pong.ch8")
	assert.NoError(t, err)

	assert.Equal(t, options.FrontendTerminal, opts.Frontend)
	assert.Equal(t, 20, opts.Cycles)
	assert.Equal(t, 0, opts.FrameRate)
	assert.Equal(t, uint64(42), opts.Seed)
	assert.True(t, opts.ShiftQuirk)
	assert.Equal(t, 3, opts.HoldFrames)
	assert.True(t, opts.Trace)
}

func TestParseFlags_DisasmOptions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options.Disassembler
	}{
		{
			name: "default flags",
			args: []string{"test.ch8"},
			want: options.Disassembler{HexComments: true, OffsetComments: true},
		},
		{
			name: "nohexcomments flag",
			args: []string{"-nohexcomments", "test.ch8"},
			want: options.Disassembler{OffsetComments: true},
		},
		{
			name: "nooffsets flag",
			args: []string{"-nooffsets", "test.ch8"},
			want: options.Disassembler{HexComments: true},
		},
		{
			name: "z flag",
			args: []string{"-z", "test.ch8"},
			want: options.Disassembler{HexComments: true, OffsetComments: true, ZeroBytes: true},
		},
		{
			name: "all disasm flags",
			args: []string{"-nohexcomments", "-nooffsets", "-z", "test.ch8"},
			want: options.Disassembler{ZeroBytes: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, got, err := parseArgs(t, append([]string{"-disasm"}, tt.args...)...)
			assert.NoError(t, err)
			assert.True(t, opts.Disasm)
			assert.Equal(t, tt.want.HexComments, got.HexComments)
			assert.Equal(t, tt.want.OffsetComments, got.OffsetComments)
			assert.Equal(t, tt.want.ZeroBytes, got.ZeroBytes)
			assert.Equal(t, !tt.want.HexComments, opts.NoHexComments)
		})
	}
}

func TestParseFlags_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no file", nil},
		{"unknown flag", []string{"-unknown", "test.ch8"}},
		{"flag after file", []string{"test.ch8", "-debug"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseArgs(t, tt.args...)
			var usageErr *UsageError
			assert.True(t, errors.As(err, &usageErr))
		})
	}
}

func TestParseFlags_InputFlag(t *testing.T) {
	opts, _, err := parseArgs(t, "-i", "test.ch8", "-disasm")
	assert.NoError(t, err)
	assert.Equal(t, "test.ch8", opts.Input)
}

func TestParseFlags_UnsupportedFrontend(t *testing.T) {
	_, _, err := parseArgs(t, "-f", "sdl", "test.ch8")
	assert.ErrorContains(t, err, "unsupported frontend: sdl")
}

func TestValidateOptionCombinations(t *testing.T) {
	valid := options.Program{
		Flags: options.Flags{
			Frontend:   options.FrontendDesktop,
			Cycles:     10,
			FrameRate:  60,
			Scale:      10,
			HoldFrames: 6,
		},
	}

	tests := []struct {
		name        string
		modify      func(opts *options.Program)
		expectError string
	}{
		{"no conflict", func(*options.Program) {}, ""},
		{"zero cycles", func(opts *options.Program) { opts.Cycles = 0 }, "cycles per frame"},
		{"negative frame rate", func(opts *options.Program) { opts.FrameRate = -1 }, "frame rate"},
		{"negative frames", func(opts *options.Program) { opts.Frames = -1 }, "frame count"},
		{"zero scale", func(opts *options.Program) { opts.Scale = 0 }, "scale"},
		{"zero hold", func(opts *options.Program) { opts.HoldFrames = 0 }, "hold frames"},
		{"debug and quiet", func(opts *options.Program) { opts.Debug, opts.Quiet = true, true }, "quiet"},
		{"trace without debug", func(opts *options.Program) { opts.Trace = true }, "tracing"},
		{"trace with debug", func(opts *options.Program) { opts.Trace, opts.Debug = true, true }, ""},
		{
			"headless without frames",
			func(opts *options.Program) { opts.Frontend = options.FrontendHeadless },
			"frame count",
		},
		{
			"headless disassembly",
			func(opts *options.Program) { opts.Frontend, opts.Disasm = options.FrontendHeadless, true },
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := valid
			tt.modify(&opts)

			err := validateOptionCombinations(opts)
			if tt.expectError == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.expectError)
			}
		})
	}
}
