package machine

// CHIP-8 memory layout constants.
//
// CHIP-8 memory map (4KB total):
//
//	0x000-0x04F: unused, zeroed
//	0x050-0x09F: hexadecimal digit glyphs (16 sprites of 5 bytes)
//	0x0A0-0x1FF: unused, zeroed
//	0x200-0xFFF: program space
const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 0x1000

	// AddressMask limits an address to the 12 bit memory space.
	AddressMask = MemorySize - 1

	// ProgramStart is the memory address where programs are loaded and execution begins.
	ProgramStart = 0x200

	// MaxProgramSize is the largest program image that fits into memory.
	MaxProgramSize = MemorySize - ProgramStart

	// FontStart is the memory address of the first glyph sprite.
	FontStart = 0x050

	// GlyphSize is the number of bytes (rows) of one glyph sprite.
	GlyphSize = 5
)

// Register and keypad constants.
const (
	RegisterCount = 16
	KeyCount      = 16

	// FlagRegister is the index of VF which reports carry, borrow, shift-out and collision.
	FlagRegister = 0xF
)

// Display dimensions in pixels.
const (
	Width  = 64
	Height = 32
)

// instructionSize is the size of every CHIP-8 instruction in bytes.
const instructionSize = 2

var glyphs = [16 * GlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Glyph returns the 5 sprite rows of the hexadecimal digit glyph for the low nibble of digit.
func Glyph(digit uint8) [GlyphSize]byte {
	var rows [GlyphSize]byte
	start := int(digit&0xF) * GlyphSize
	copy(rows[:], glyphs[start:start+GlyphSize])
	return rows
}
