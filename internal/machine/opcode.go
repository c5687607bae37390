package machine

import "fmt"

// Op identifies one of the CHIP-8 operations.
type Op uint8

// The decode fault sentinel, followed by the 35 defined operations.
const (
	OpInvalid Op = iota

	OpSys         // 0NNN legacy machine routine call, never produced by Decode
	OpClear       // 00E0
	OpReturn      // 00EE
	OpJump        // 1NNN
	OpCall        // 2NNN
	OpSkipEqImm   // 3XNN
	OpSkipNeImm   // 4XNN
	OpSkipEqReg   // 5XY0
	OpLoadImm     // 6XNN
	OpAddImm      // 7XNN
	OpMove        // 8XY0
	OpOr          // 8XY1
	OpAnd         // 8XY2
	OpXor         // 8XY3
	OpAddReg      // 8XY4
	OpSub         // 8XY5
	OpShiftRight  // 8XY6
	OpSubReverse  // 8XY7
	OpShiftLeft   // 8XYE
	OpSkipNeReg   // 9XY0
	OpLoadIndex   // ANNN
	OpJumpOffset  // BNNN
	OpRandom      // CXNN
	OpDraw        // DXYN
	OpSkipKeyDown // EX9E
	OpSkipKeyUp   // EXA1
	OpGetDelay    // FX07
	OpWaitKey     // FX0A
	OpSetDelay    // FX15
	OpSetSound    // FX18
	OpAddIndex    // FX1E
	OpGlyph       // FX29
	OpBCD         // FX33
	OpStore       // FX55
	OpRestore     // FX65

	opCount
)

var opNames = [opCount]string{
	OpInvalid:     "invalid",
	OpSys:         "sys",
	OpClear:       "clear",
	OpReturn:      "return",
	OpJump:        "jump",
	OpCall:        "call",
	OpSkipEqImm:   "skip_eq_imm",
	OpSkipNeImm:   "skip_ne_imm",
	OpSkipEqReg:   "skip_eq_reg",
	OpLoadImm:     "load_imm",
	OpAddImm:      "add_imm",
	OpMove:        "move",
	OpOr:          "or",
	OpAnd:         "and",
	OpXor:         "xor",
	OpAddReg:      "add_reg",
	OpSub:         "sub",
	OpShiftRight:  "shift_right",
	OpSubReverse:  "sub_reverse",
	OpShiftLeft:   "shift_left",
	OpSkipNeReg:   "skip_ne_reg",
	OpLoadIndex:   "load_index",
	OpJumpOffset:  "jump_offset",
	OpRandom:      "random",
	OpDraw:        "draw",
	OpSkipKeyDown: "skip_key_down",
	OpSkipKeyUp:   "skip_key_up",
	OpGetDelay:    "get_delay",
	OpWaitKey:     "wait_key",
	OpSetDelay:    "set_delay",
	OpSetSound:    "set_sound",
	OpAddIndex:    "add_index",
	OpGlyph:       "glyph",
	OpBCD:         "bcd",
	OpStore:       "store",
	OpRestore:     "restore",
}

// String returns the name of the operation.
func (o Op) String() string {
	if o >= opCount {
		return fmt.Sprintf("Op(%d)", uint8(o))
	}
	return opNames[o]
}

// Instruction is a decoded instruction word. Only the operand fields that the
// operation uses are meaningful, the remaining fields are zero.
type Instruction struct {
	Op   Op
	Word uint16

	Address uint16 // NNN, bits 0-11
	X       uint8  // bits 8-11
	Y       uint8  // bits 4-7
	N       uint8  // bits 0-3
	Byte    uint8  // NN, bits 0-7
}

// Valid returns whether the instruction is an executable operation.
func (i Instruction) Valid() bool {
	return i.Op != OpInvalid && i.Op != OpSys
}

// operand field layouts of the instruction encodings.
const (
	fieldNone = 0
	fieldNNN  = 1 << iota
	fieldX
	fieldY
	fieldN
	fieldNN
)

// opcodeInfo describes how a word is matched against an operation: the word
// matches if word&mask == value.
type opcodeInfo struct {
	mask   uint16
	value  uint16
	op     Op
	fields int
}

// opcodes contains all decodable encodings, grouped by the high nibble of the word.
var opcodes = [16][]opcodeInfo{
	0x0: {
		{mask: 0xFFFF, value: 0x00E0, op: OpClear, fields: fieldNone},
		{mask: 0xFFFF, value: 0x00EE, op: OpReturn, fields: fieldNone},
	},
	0x1: {{mask: 0xF000, value: 0x1000, op: OpJump, fields: fieldNNN}},
	0x2: {{mask: 0xF000, value: 0x2000, op: OpCall, fields: fieldNNN}},
	0x3: {{mask: 0xF000, value: 0x3000, op: OpSkipEqImm, fields: fieldX | fieldNN}},
	0x4: {{mask: 0xF000, value: 0x4000, op: OpSkipNeImm, fields: fieldX | fieldNN}},
	0x5: {{mask: 0xF00F, value: 0x5000, op: OpSkipEqReg, fields: fieldX | fieldY}},
	0x6: {{mask: 0xF000, value: 0x6000, op: OpLoadImm, fields: fieldX | fieldNN}},
	0x7: {{mask: 0xF000, value: 0x7000, op: OpAddImm, fields: fieldX | fieldNN}},
	0x8: {
		{mask: 0xF00F, value: 0x8000, op: OpMove, fields: fieldX | fieldY},
		{mask: 0xF00F, value: 0x8001, op: OpOr, fields: fieldX | fieldY},
		{mask: 0xF00F, value: 0x8002, op: OpAnd, fields: fieldX | fieldY},
		{mask: 0xF00F, value: 0x8003, op: OpXor, fields: fieldX | fieldY},
		{mask: 0xF00F, value: 0x8004, op: OpAddReg, fields: fieldX | fieldY},
		{mask: 0xF00F, value: 0x8005, op: OpSub, fields: fieldX | fieldY},
		{mask: 0xF00F, value: 0x8006, op: OpShiftRight, fields: fieldX | fieldY},
		{mask: 0xF00F, value: 0x8007, op: OpSubReverse, fields: fieldX | fieldY},
		{mask: 0xF00F, value: 0x800E, op: OpShiftLeft, fields: fieldX | fieldY},
	},
	0x9: {{mask: 0xF00F, value: 0x9000, op: OpSkipNeReg, fields: fieldX | fieldY}},
	0xA: {{mask: 0xF000, value: 0xA000, op: OpLoadIndex, fields: fieldNNN}},
	0xB: {{mask: 0xF000, value: 0xB000, op: OpJumpOffset, fields: fieldNNN}},
	0xC: {{mask: 0xF000, value: 0xC000, op: OpRandom, fields: fieldX | fieldNN}},
	0xD: {{mask: 0xF000, value: 0xD000, op: OpDraw, fields: fieldX | fieldY | fieldN}},
	0xE: {
		{mask: 0xF0FF, value: 0xE09E, op: OpSkipKeyDown, fields: fieldX},
		{mask: 0xF0FF, value: 0xE0A1, op: OpSkipKeyUp, fields: fieldX},
	},
	0xF: {
		{mask: 0xF0FF, value: 0xF007, op: OpGetDelay, fields: fieldX},
		{mask: 0xF0FF, value: 0xF00A, op: OpWaitKey, fields: fieldX},
		{mask: 0xF0FF, value: 0xF015, op: OpSetDelay, fields: fieldX},
		{mask: 0xF0FF, value: 0xF018, op: OpSetSound, fields: fieldX},
		{mask: 0xF0FF, value: 0xF01E, op: OpAddIndex, fields: fieldX},
		{mask: 0xF0FF, value: 0xF029, op: OpGlyph, fields: fieldX},
		{mask: 0xF0FF, value: 0xF033, op: OpBCD, fields: fieldX},
		{mask: 0xF0FF, value: 0xF055, op: OpStore, fields: fieldX},
		{mask: 0xF0FF, value: 0xF065, op: OpRestore, fields: fieldX},
	},
}

// Decode maps an instruction word to its operation and operands. Words that do
// not match any encoding return an instruction with Op set to OpInvalid.
func Decode(word uint16) Instruction {
	for _, info := range opcodes[word>>12] {
		if word&info.mask != info.value {
			continue
		}

		ins := Instruction{Op: info.op, Word: word}
		if info.fields&fieldNNN != 0 {
			ins.Address = word & 0x0FFF
		}
		if info.fields&fieldX != 0 {
			ins.X = extractRegisterX(word)
		}
		if info.fields&fieldY != 0 {
			ins.Y = extractRegisterY(word)
		}
		if info.fields&fieldN != 0 {
			ins.N = uint8(word & 0x000F)
		}
		if info.fields&fieldNN != 0 {
			ins.Byte = uint8(word & 0x00FF)
		}
		return ins
	}

	return Instruction{Op: OpInvalid, Word: word}
}

// extractRegisterX extracts the X register nibble from an instruction word.
func extractRegisterX(word uint16) uint8 {
	return uint8((word & 0x0F00) >> 8)
}

// extractRegisterY extracts the Y register nibble from an instruction word.
func extractRegisterY(word uint16) uint8 {
	return uint8((word & 0x00F0) >> 4)
}
