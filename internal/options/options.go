// Package options contains the program options.
package options

import (
	"github.com/retroenv/retrogolib/arch"
)

// Supported frontend names.
const (
	FrontendDesktop  = "desktop"
	FrontendHeadless = "headless"
	FrontendTerminal = "terminal"
)

// Frontends lists all supported frontend names.
var Frontends = []string{FrontendDesktop, FrontendHeadless, FrontendTerminal}

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input ROM file"`
	Output string `flag:"o" usage:"output file of the disassembly or the final headless frame (default: stdout)"`
}

// Flags contains behavior options.
type Flags struct {
	Frontend   string `flag:"f" usage:"frontend: desktop, headless, terminal" default:"desktop"`
	System     string `flag:"s" usage:"target system: chip8 (default: auto-detect)"`
	Cycles     int    `flag:"cycles" usage:"instructions executed per frame" default:"10"`
	FrameRate  int    `flag:"fps" usage:"frames per second, 0 runs unthrottled" default:"60"`
	Frames     int    `flag:"frames" usage:"stop after the number of frames, 0 runs until quit"`
	Scale      int    `flag:"scale" usage:"window pixels per display pixel" default:"10"`
	Seed       uint64 `flag:"seed" usage:"seed of the random number generator, 0 uses a random seed"`
	ShiftQuirk bool   `flag:"shift-vy" usage:"shift instructions read the second register operand"`
	HoldFrames int    `flag:"hold" usage:"frames a key stays pressed in the terminal frontend" default:"6"`
	Disasm     bool   `flag:"disasm" usage:"disassemble the ROM instead of running it"`
	Trace      bool   `flag:"trace" usage:"log every executed instruction, requires -debug"`
	Debug      bool   `flag:"debug" usage:"enable debug logging"`
	Quiet      bool   `flag:"q" usage:"quiet mode"`
}

// OutputFlags contains disassembly output formatting options.
type OutputFlags struct {
	NoHexComments bool `flag:"nohexcomments" usage:"omit hex opcode bytes in comments"`
	NoOffsets     bool `flag:"nooffsets" usage:"omit file offsets in comments"`
	ZeroBytes     bool `flag:"z" usage:"include trailing zero bytes of the program"`
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	OutputFlags
}

// Disassembler defines options to control the disassembler.
type Disassembler struct {
	System arch.System // system type, always chip8

	HexComments    bool
	OffsetComments bool
	ZeroBytes      bool
}

// NewDisassembler returns a new options instance with default options.
func NewDisassembler() Disassembler {
	return Disassembler{
		System: arch.CHIP8System,

		HexComments:    true,
		OffsetComments: true,
	}
}
