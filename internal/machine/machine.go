// Package machine implements the CHIP-8 virtual machine: memory, registers,
// call stack, timers, display and keypad state, the instruction decoder and the
// execution of all operations.
package machine

import (
	"fmt"
	"math/rand/v2"

	"github.com/retroenv/retrogolib/log"
)

// Machine is a CHIP-8 interpreter instance. It is not safe for concurrent use,
// all calls are expected to come from one goroutine.
type Machine struct {
	memory    [MemorySize]byte
	registers [RegisterCount]uint8
	index     uint16
	pc        uint16
	stack     []uint16

	delayTimer uint8
	soundTimer uint8

	display Display
	keys    keypad

	rnd        Random
	shiftQuirk bool
	logger     *log.Logger
}

// Option configures a machine.
type Option func(*Machine)

// WithRandom sets the source of random bytes used by the random operation.
func WithRandom(rnd Random) Option {
	return func(m *Machine) {
		m.rnd = rnd
	}
}

// WithSeed seeds the default random source.
func WithSeed(seed uint64) Option {
	return func(m *Machine) {
		m.rnd = NewRandom(seed)
	}
}

// WithShiftQuirk makes the shift operations use VY as source instead of VX,
// as the original COSMAC VIP interpreter did.
func WithShiftQuirk(enabled bool) Option {
	return func(m *Machine) {
		m.shiftQuirk = enabled
	}
}

// WithLogger sets a logger that receives debug messages about ignored
// instructions.
func WithLogger(logger *log.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// New returns a new machine in its reset state.
func New(options ...Option) *Machine {
	m := &Machine{}
	for _, option := range options {
		option(m)
	}
	if m.rnd == nil {
		m.rnd = NewRandom(rand.Uint64())
	}

	m.Reset()
	return m
}

// Reset reinitializes the complete machine state and reloads the glyph sprites.
func (m *Machine) Reset() {
	m.memory = [MemorySize]byte{}
	copy(m.memory[FontStart:], glyphs[:])

	m.registers = [RegisterCount]uint8{}
	m.index = 0
	m.pc = ProgramStart
	m.stack = m.stack[:0]

	m.delayTimer = 0
	m.soundTimer = 0

	m.display.Clear()
	m.keys = keypad{}
}

// Load resets the machine and copies the program into memory at the program
// start address. Data that does not fit into memory is silently dropped, the
// number of copied bytes is returned.
func (m *Machine) Load(program []byte) int {
	m.Reset()
	return copy(m.memory[ProgramStart:], program)
}

// Step executes one cycle. If the machine waits for a key press nothing
// happens. Otherwise both timers are decremented and the next instruction is
// fetched and executed. It returns the executed instruction and whether a
// cycle was run.
func (m *Machine) Step() (Instruction, bool) {
	if m.keys.waiting {
		return Instruction{}, false
	}

	if m.delayTimer > 0 {
		m.delayTimer--
	}
	if m.soundTimer > 0 {
		m.soundTimer--
	}

	address := m.pc
	word := m.fetch(address)
	m.pc = (m.pc + instructionSize) & AddressMask

	ins := Decode(word)
	if !ins.Valid() {
		if m.logger != nil {
			m.logger.Debug("Ignoring invalid instruction",
				log.Hex("address", address),
				log.Hex("opcode", word))
		}
		return ins, true
	}

	m.execute(ins)
	return ins, true
}

// fetch reads the big-endian instruction word at the given address.
func (m *Machine) fetch(address uint16) uint16 {
	high := m.memory[address&AddressMask]
	low := m.memory[(address+1)&AddressMask]
	return uint16(high)<<8 | uint16(low)
}

// Press sets the key down. If the machine waits for a key and the key was up,
// the key is stored in the waiting register and execution resumes.
func (m *Machine) Press(key int) error {
	if key < 0 || key >= KeyCount {
		return fmt.Errorf("%w: %d", ErrKeyOutOfRange, key)
	}

	if m.keys.press(uint8(key)) {
		m.registers[m.keys.target] = uint8(key)
	}
	return nil
}

// Release sets the key up.
func (m *Machine) Release(key int) error {
	if key < 0 || key >= KeyCount {
		return fmt.Errorf("%w: %d", ErrKeyOutOfRange, key)
	}

	m.keys.release(uint8(key))
	return nil
}

// KeyDown returns whether the key is currently pressed.
func (m *Machine) KeyDown(key int) (bool, error) {
	if key < 0 || key >= KeyCount {
		return false, fmt.Errorf("%w: %d", ErrKeyOutOfRange, key)
	}
	return m.keys.down[key], nil
}

// PC returns the program counter.
func (m *Machine) PC() uint16 {
	return m.pc
}

// Index returns the address register I.
func (m *Machine) Index() uint16 {
	return m.index
}

// Register returns the value of register V0-VF.
func (m *Machine) Register(index int) (uint8, error) {
	if index < 0 || index >= RegisterCount {
		return 0, fmt.Errorf("%w: %d", ErrRegisterOutOfRange, index)
	}
	return m.registers[index], nil
}

// Memory returns the byte at the memory address.
func (m *Machine) Memory(address int) (uint8, error) {
	if address < 0 || address >= MemorySize {
		return 0, fmt.Errorf("%w: 0x%X", ErrAddressOutOfRange, address)
	}
	return m.memory[address], nil
}

// Pixel returns whether the display pixel is set, the coordinate wraps around
// the screen edges.
func (m *Machine) Pixel(x, y int) bool {
	return m.display.Pixel(x, y)
}

// Display returns the display of the machine.
func (m *Machine) Display() *Display {
	return &m.display
}

// ShouldRedraw returns whether the display changed since the last call.
func (m *Machine) ShouldRedraw() bool {
	return m.display.ShouldRedraw()
}

// Beep returns whether the sound timer is active.
func (m *Machine) Beep() bool {
	return m.soundTimer > 0
}

// DelayTimer returns the current value of the delay timer.
func (m *Machine) DelayTimer() uint8 {
	return m.delayTimer
}

// SoundTimer returns the current value of the sound timer.
func (m *Machine) SoundTimer() uint8 {
	return m.soundTimer
}

// Waiting returns whether execution is suspended until a key is pressed.
func (m *Machine) Waiting() bool {
	return m.keys.waiting
}

// StackDepth returns the number of return addresses on the call stack.
func (m *Machine) StackDepth() int {
	return len(m.stack)
}
