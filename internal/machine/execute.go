package machine

// execute applies a decoded, valid instruction to the machine state. The
// program counter already points to the following instruction.
func (m *Machine) execute(ins Instruction) {
	v := &m.registers
	x, y := ins.X, ins.Y

	switch ins.Op {
	// 00E0 - clear the display
	case OpClear:
		m.display.Clear()

	// 00EE - return from subroutine, ignored on an empty stack
	case OpReturn:
		m.returnFromSubroutine()

	// 1NNN - jump to NNN
	case OpJump:
		m.pc = ins.Address

	// 2NNN - call subroutine at NNN
	case OpCall:
		m.stack = append(m.stack, m.pc)
		m.pc = ins.Address

	// 3XNN - skip next instruction if VX == NN
	case OpSkipEqImm:
		m.skipIf(v[x] == ins.Byte)

	// 4XNN - skip next instruction if VX != NN
	case OpSkipNeImm:
		m.skipIf(v[x] != ins.Byte)

	// 5XY0 - skip next instruction if VX == VY
	case OpSkipEqReg:
		m.skipIf(v[x] == v[y])

	// 6XNN - VX = NN
	case OpLoadImm:
		v[x] = ins.Byte

	// 7XNN - VX += NN, VF is not changed
	case OpAddImm:
		v[x] += ins.Byte

	// 8XY0 - VX = VY
	case OpMove:
		v[x] = v[y]

	// 8XY1 - VX |= VY
	case OpOr:
		v[x] |= v[y]

	// 8XY2 - VX &= VY
	case OpAnd:
		v[x] &= v[y]

	// 8XY3 - VX ^= VY
	case OpXor:
		v[x] ^= v[y]

	// 8XY4 - VX += VY, VF = carry
	case OpAddReg:
		sum := uint16(v[x]) + uint16(v[y])
		v[x] = uint8(sum)
		m.setFlag(sum > 0xFF)

	// 8XY5 - VX -= VY, VF = not borrow
	case OpSub:
		noBorrow := v[x] >= v[y]
		v[x] -= v[y]
		m.setFlag(noBorrow)

	// 8XY6 - VX >>= 1, VF = shifted out bit
	case OpShiftRight:
		source := m.shiftSource(x, y)
		v[x] = source >> 1
		m.setFlag(source&0x01 != 0)

	// 8XY7 - VX = VY - VX, VF = not borrow
	case OpSubReverse:
		noBorrow := v[y] >= v[x]
		v[x] = v[y] - v[x]
		m.setFlag(noBorrow)

	// 8XYE - VX <<= 1, VF = shifted out bit
	case OpShiftLeft:
		source := m.shiftSource(x, y)
		v[x] = source << 1
		m.setFlag(source&0x80 != 0)

	// 9XY0 - skip next instruction if VX != VY
	case OpSkipNeReg:
		m.skipIf(v[x] != v[y])

	// ANNN - I = NNN
	case OpLoadIndex:
		m.index = ins.Address

	// BNNN - jump to V0 + NNN
	case OpJumpOffset:
		m.pc = (uint16(v[0]) + ins.Address) & AddressMask

	// CXNN - VX = random byte & NN
	case OpRandom:
		v[x] = m.rnd.Byte() & ins.Byte

	// DXYN - draw N sprite rows from I at VX, VY, VF = collision
	case OpDraw:
		m.draw(int(v[x]), int(v[y]), int(ins.N))

	// EX9E - skip next instruction if key VX is down
	case OpSkipKeyDown:
		m.skipIf(m.keys.down[v[x]&0x0F])

	// EXA1 - skip next instruction if key VX is up
	case OpSkipKeyUp:
		m.skipIf(!m.keys.down[v[x]&0x0F])

	// FX07 - VX = delay timer
	case OpGetDelay:
		v[x] = m.delayTimer

	// FX0A - wait for a key press and store it in VX
	case OpWaitKey:
		m.keys.wait(x)

	// FX15 - delay timer = VX
	case OpSetDelay:
		m.delayTimer = v[x]

	// FX18 - sound timer = VX
	case OpSetSound:
		m.soundTimer = v[x]

	// FX1E - I += VX, VF = overflow of the address space
	case OpAddIndex:
		sum := m.index + uint16(v[x])
		m.index = sum & AddressMask
		m.setFlag(sum >= MemorySize)

	// FX29 - I = address of the glyph for the low nibble of VX
	case OpGlyph:
		m.index = FontStart + uint16(v[x]&0x0F)*GlyphSize

	// FX33 - store the decimal digits of VX at I, I+1, I+2
	case OpBCD:
		value := v[x]
		m.writeMemory(m.index, value/100)
		m.writeMemory(m.index+1, value/10%10)
		m.writeMemory(m.index+2, value%10)

	// FX55 - store V0 to VX at I, I += X + 1
	case OpStore:
		for i := range uint16(x) + 1 {
			m.writeMemory(m.index+i, v[i])
		}
		m.index = (m.index + uint16(x) + 1) & AddressMask

	// FX65 - load V0 to VX from I, I += X + 1
	case OpRestore:
		for i := range uint16(x) + 1 {
			v[i] = m.readMemory(m.index + i)
		}
		m.index = (m.index + uint16(x) + 1) & AddressMask
	}
}

func (m *Machine) returnFromSubroutine() {
	if len(m.stack) == 0 {
		if m.logger != nil {
			m.logger.Debug("Ignoring return with empty stack")
		}
		return
	}

	last := len(m.stack) - 1
	m.pc = m.stack[last]
	m.stack = m.stack[:last]
}

func (m *Machine) skipIf(condition bool) {
	if condition {
		m.pc = (m.pc + instructionSize) & AddressMask
	}
}

// setFlag writes the flag register, it is always written after the result so
// that VF holds the flag when it is also the destination.
func (m *Machine) setFlag(set bool) {
	if set {
		m.registers[FlagRegister] = 1
	} else {
		m.registers[FlagRegister] = 0
	}
}

func (m *Machine) shiftSource(x, y uint8) uint8 {
	if m.shiftQuirk {
		return m.registers[y]
	}
	return m.registers[x]
}

func (m *Machine) draw(x, y, rows int) {
	sprite := make([]byte, rows)
	for row := range sprite {
		sprite[row] = m.readMemory(m.index + uint16(row))
	}

	collision := m.display.drawSprite(x%Width, y%Height, sprite)
	m.setFlag(collision)
}

func (m *Machine) readMemory(address uint16) uint8 {
	return m.memory[address&AddressMask]
}

func (m *Machine) writeMemory(address uint16, value uint8) {
	m.memory[address&AddressMask] = value
}
