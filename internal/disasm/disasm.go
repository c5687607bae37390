// Package disasm implements a CHIP-8 disassembler that follows the execution
// flow of a program to separate code from data.
package disasm

import (
	"context"
	"fmt"
	"hash/crc32"
	"slices"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

const (
	startLabel  = "Start"
	funcNaming  = "_func_%04x"
	labelNaming = "_label_%04x"
	dataNaming  = "_data_%04x"
)

// offsetType defines the type of a program offset.
type offsetType uint8

const (
	codeOffset      offsetType = 1 << iota // opcode byte of an instruction
	operandOffset                          // second byte of an instruction
	callDestination                        // offset is the target of a call
	jumpDestination                        // offset is the target of a jump
	dataReference                          // offset is referenced by a load of I
)

type offset struct {
	typ     offsetType
	ins     machine.Instruction
	label   string
	comment string
}

func (o *offset) isType(typ offsetType) bool {
	return o.typ&typ != 0
}

// Line is a single entry of the disassembled listing, either one instruction
// or a run of data bytes.
type Line struct {
	Address uint16
	Label   string
	Code    string // empty for data
	Data    []byte
	Comment string
}

// IsCode returns whether the line contains an instruction.
func (l Line) IsCode() bool {
	return l.Code != ""
}

// Program is the result of a disassembly.
type Program struct {
	Checksum uint32 // CRC32 of the program image
	Size     int
	Lines    []Line
}

// Disasm implements a disassembler.
type Disasm struct {
	logger  *log.Logger
	program []byte
	offsets []offset // indexed by address - machine.ProgramStart

	branchDestinations set.Set[uint16] // set of all addresses that are branched to
	dataReferences     set.Set[uint16] // set of all addresses that are loaded into I

	offsetsToParse      []uint16
	offsetsToParseAdded set.Set[uint16]
	offsetsParsed       set.Set[uint16]
}

// New creates a new disassembler for the program image that is loaded at the
// program start address.
func New(logger *log.Logger, program []byte) *Disasm {
	return &Disasm{
		logger:              logger,
		program:             program,
		offsets:             make([]offset, len(program)),
		branchDestinations:  set.New[uint16](),
		dataReferences:      set.New[uint16](),
		offsetsToParseAdded: set.New[uint16](),
		offsetsParsed:       set.New[uint16](),
	}
}

// Process disassembles the program.
func (dis *Disasm) Process(ctx context.Context) (*Program, error) {
	if len(dis.offsets) > 0 {
		dis.offsets[0].label = startLabel
	}
	dis.addAddressToParse(machine.ProgramStart, 0, false)

	if err := dis.followExecutionFlow(ctx); err != nil {
		return nil, err
	}
	dis.processJumpDestinations()
	dis.processDataReferences()

	crc32q := crc32.MakeTable(crc32.IEEE)
	app := &Program{
		Checksum: crc32.Checksum(dis.program, crc32q),
		Size:     len(dis.program),
		Lines:    dis.convertToLines(),
	}
	return app, nil
}

// followExecutionFlow parses all reachable instructions, starting at the
// program start address.
func (dis *Disasm) followExecutionFlow(ctx context.Context) error {
	for len(dis.offsetsToParse) > 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("following execution flow: %w", err)
		}

		address := dis.offsetsToParse[0]
		dis.offsetsToParse = dis.offsetsToParse[1:]
		if dis.offsetsParsed.Contains(address) {
			continue
		}
		dis.offsetsParsed.Add(address)

		dis.processOffset(address)
	}
	return nil
}

func (dis *Disasm) processOffset(address uint16) {
	index := int(address - machine.ProgramStart)
	if index+1 >= len(dis.program) {
		return // a single trailing byte can not be an instruction
	}

	offsetInfo := &dis.offsets[index]
	if offsetInfo.isType(operandOffset) {
		dis.offsets[index-1].comment = "branch into instruction detected"
		dis.logger.Debug("Branch into instruction detected", log.Hex("address", address))
		return
	}
	if dis.offsets[index+1].isType(codeOffset) {
		dis.logger.Debug("Instruction overlaps following instruction", log.Hex("address", address))
		return
	}

	word := uint16(dis.program[index])<<8 | uint16(dis.program[index+1])
	ins := machine.Decode(word)
	if !ins.Valid() {
		// Consider an unknown instruction as start of data
		return
	}

	offsetInfo.typ |= codeOffset
	offsetInfo.ins = ins
	dis.offsets[index+1].typ |= operandOffset

	dis.handleControlFlow(address, ins)
}

// handleControlFlow queues the addresses that the instruction can continue at.
func (dis *Disasm) handleControlFlow(address uint16, ins machine.Instruction) {
	next := address + 2

	switch {
	case ins.Op == machine.OpJump:
		dis.addAddressToParse(ins.Address, jumpDestination, true)

	case ins.Op == machine.OpJumpOffset:
		offsetInfo := &dis.offsets[address-machine.ProgramStart]
		offsetInfo.comment = "indirect jump, destinations not followed"

	case ins.Op == machine.OpCall:
		dis.addAddressToParse(ins.Address, callDestination, true)
		dis.addAddressToParse(next, 0, false)

	case IsSkip(ins):
		dis.addAddressToParse(next, 0, false)
		dis.addAddressToParse(next+2, 0, false)

	case ins.Op == machine.OpLoadIndex:
		if dis.inProgram(ins.Address) {
			dis.dataReferences.Add(ins.Address)
			dis.offsets[ins.Address-machine.ProgramStart].typ |= dataReference
		}
		dis.addAddressToParse(next, 0, false)

	case ins.Op != machine.OpReturn:
		dis.addAddressToParse(next, 0, false)
	}
}

// addAddressToParse adds an address to the list to be processed if the address
// has not been processed yet and is inside the program.
func (dis *Disasm) addAddressToParse(address uint16, typ offsetType, isABranchDestination bool) {
	if !dis.inProgram(address) {
		return
	}

	if isABranchDestination {
		dis.branchDestinations.Add(address)
		dis.offsets[address-machine.ProgramStart].typ |= typ
	}

	if dis.offsetsToParseAdded.Contains(address) {
		return
	}
	dis.offsetsToParseAdded.Add(address)
	dis.offsetsToParse = append(dis.offsetsToParse, address)
}

func (dis *Disasm) inProgram(address uint16) bool {
	return address >= machine.ProgramStart && int(address-machine.ProgramStart) < len(dis.program)
}

// processJumpDestinations generates the labels of all branch destinations.
func (dis *Disasm) processJumpDestinations() {
	for _, address := range sortedAddresses(dis.branchDestinations) {
		offsetInfo := &dis.offsets[address-machine.ProgramStart]
		if offsetInfo.label != "" || offsetInfo.isType(operandOffset) {
			continue
		}

		if offsetInfo.isType(callDestination) {
			offsetInfo.label = fmt.Sprintf(funcNaming, address)
		} else {
			offsetInfo.label = fmt.Sprintf(labelNaming, address)
		}
	}
}

// processDataReferences generates the labels of data that is loaded into I,
// references into code keep the address as operand.
func (dis *Disasm) processDataReferences() {
	for _, address := range sortedAddresses(dis.dataReferences) {
		offsetInfo := &dis.offsets[address-machine.ProgramStart]
		if offsetInfo.label != "" || offsetInfo.isType(codeOffset|operandOffset) {
			continue
		}
		offsetInfo.label = fmt.Sprintf(dataNaming, address)
	}
}

// convertToLines converts the parsed offsets to listing lines, consecutive
// data bytes are combined until the next label or instruction.
func (dis *Disasm) convertToLines() []Line {
	var lines []Line

	for index := 0; index < len(dis.offsets); index++ {
		offsetInfo := dis.offsets[index]
		address := machine.ProgramStart + uint16(index)

		if offsetInfo.isType(codeOffset) {
			lines = append(lines, Line{
				Address: address,
				Label:   offsetInfo.label,
				Code:    dis.formatCode(offsetInfo.ins),
				Data:    dis.program[index : index+2],
				Comment: offsetInfo.comment,
			})
			index++
			continue
		}

		end := index + 1
		for end < len(dis.offsets) {
			following := dis.offsets[end]
			if following.isType(codeOffset) || following.label != "" {
				break
			}
			end++
		}

		lines = append(lines, Line{
			Address: address,
			Label:   offsetInfo.label,
			Data:    dis.program[index:end],
			Comment: offsetInfo.comment,
		})
		index = end - 1
	}

	return lines
}

// formatCode formats the instruction and uses the label of the target address
// as operand if one exists.
func (dis *Disasm) formatCode(ins machine.Instruction) string {
	switch ins.Op {
	case machine.OpJump, machine.OpCall, machine.OpLoadIndex:
		if !dis.inProgram(ins.Address) {
			break
		}
		if label := dis.offsets[ins.Address-machine.ProgramStart].label; label != "" {
			return formatWithTarget(ins, label)
		}
	}
	return Format(ins)
}

func sortedAddresses(addresses set.Set[uint16]) []uint16 {
	sorted := make([]uint16, 0, len(addresses))
	for address := range addresses {
		sorted = append(sorted, address)
	}
	slices.Sort(sorted)
	return sorted
}
