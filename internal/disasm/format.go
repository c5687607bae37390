package disasm

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// instructions maps every executable operation to its assembler instruction.
// Several operations share one mnemonic, the operands tell them apart.
var instructions = map[machine.Op]*chip8.Instruction{
	machine.OpClear:       chip8.ClsInst,
	machine.OpReturn:      chip8.RetInst,
	machine.OpJump:        chip8.JpInst,
	machine.OpCall:        chip8.CallInst,
	machine.OpSkipEqImm:   chip8.SeInst,
	machine.OpSkipNeImm:   chip8.SneInst,
	machine.OpSkipEqReg:   chip8.SeInst,
	machine.OpLoadImm:     chip8.LdInst,
	machine.OpAddImm:      chip8.AddInst,
	machine.OpMove:        chip8.LdInst,
	machine.OpOr:          chip8.OrInst,
	machine.OpAnd:         chip8.AndInst,
	machine.OpXor:         chip8.XorInst,
	machine.OpAddReg:      chip8.AddInst,
	machine.OpSub:         chip8.SubInst,
	machine.OpShiftRight:  chip8.ShrInst,
	machine.OpSubReverse:  chip8.SubnInst,
	machine.OpShiftLeft:   chip8.ShlInst,
	machine.OpSkipNeReg:   chip8.SneInst,
	machine.OpLoadIndex:   chip8.LdInst,
	machine.OpJumpOffset:  chip8.JpInst,
	machine.OpRandom:      chip8.RndInst,
	machine.OpDraw:        chip8.DrwInst,
	machine.OpSkipKeyDown: chip8.SkpInst,
	machine.OpSkipKeyUp:   chip8.SknpInst,
	machine.OpGetDelay:    chip8.LdInst,
	machine.OpWaitKey:     chip8.LdInst,
	machine.OpSetDelay:    chip8.LdInst,
	machine.OpSetSound:    chip8.LdInst,
	machine.OpAddIndex:    chip8.AddInst,
	machine.OpGlyph:       chip8.LdInst,
	machine.OpBCD:         chip8.LdInst,
	machine.OpStore:       chip8.LdInst,
	machine.OpRestore:     chip8.LdInst,
}

// Instruction returns the assembler instruction of a decoded operation, it
// returns nil for invalid words.
func Instruction(ins machine.Instruction) *chip8.Instruction {
	return instructions[ins.Op]
}

// IsSkip returns whether the instruction conditionally skips the next one.
func IsSkip(ins machine.Instruction) bool {
	instruction := Instruction(ins)
	if instruction == nil {
		return false
	}
	return chip8.SkipInstructions.Contains(instruction.Name)
}

// Format returns the assembler text of a decoded instruction, for example
// "ld V1, $05" or "drw V1, V1, $5". Invalid words return an empty string.
func Format(ins machine.Instruction) string {
	instruction := Instruction(ins)
	if instruction == nil {
		return ""
	}

	params := formatParams(ins)
	if params == "" {
		return instruction.Name
	}
	return fmt.Sprintf("%s %s", instruction.Name, params)
}

// formatWithTarget formats an instruction with an address operand, replacing
// the address by the given label.
func formatWithTarget(ins machine.Instruction, label string) string {
	instruction := Instruction(ins)
	switch ins.Op {
	case machine.OpJump, machine.OpCall:
		return fmt.Sprintf("%s %s", instruction.Name, label)
	case machine.OpLoadIndex:
		return fmt.Sprintf("%s I, %s", instruction.Name, label)
	default:
		return Format(ins)
	}
}

// formatParams returns the formatted parameter string of the instruction.
func formatParams(ins machine.Instruction) string {
	switch ins.Op {
	case machine.OpClear, machine.OpReturn:
		return "" // No parameters

	case machine.OpJump, machine.OpCall:
		return fmt.Sprintf("$%03X", ins.Address)
	case machine.OpJumpOffset:
		return fmt.Sprintf("V0, $%03X", ins.Address)
	case machine.OpLoadIndex:
		return fmt.Sprintf("I, $%03X", ins.Address)

	case machine.OpSkipEqImm, machine.OpSkipNeImm, machine.OpLoadImm, machine.OpAddImm, machine.OpRandom:
		return fmt.Sprintf("V%X, $%02X", ins.X, ins.Byte)

	case machine.OpSkipEqReg, machine.OpSkipNeReg, machine.OpMove, machine.OpOr, machine.OpAnd,
		machine.OpXor, machine.OpAddReg, machine.OpSub, machine.OpSubReverse,
		machine.OpShiftRight, machine.OpShiftLeft:
		return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)

	case machine.OpSkipKeyDown, machine.OpSkipKeyUp:
		return fmt.Sprintf("V%X", ins.X)

	case machine.OpDraw:
		return fmt.Sprintf("V%X, V%X, $%X", ins.X, ins.Y, ins.N)

	case machine.OpGetDelay:
		return fmt.Sprintf("V%X, DT", ins.X)
	case machine.OpWaitKey:
		return fmt.Sprintf("V%X, K", ins.X)
	case machine.OpSetDelay:
		return fmt.Sprintf("DT, V%X", ins.X)
	case machine.OpSetSound:
		return fmt.Sprintf("ST, V%X", ins.X)
	case machine.OpAddIndex:
		return fmt.Sprintf("I, V%X", ins.X)
	case machine.OpGlyph:
		return fmt.Sprintf("F, V%X", ins.X)
	case machine.OpBCD:
		return fmt.Sprintf("B, V%X", ins.X)
	case machine.OpStore:
		return fmt.Sprintf("[I], V%X", ins.X)
	case machine.OpRestore:
		return fmt.Sprintf("V%X, [I]", ins.X)
	}
	return ""
}
