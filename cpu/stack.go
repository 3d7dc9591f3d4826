package cpu

// Push stores a 16-bit value on the descending stack, high byte first.
func (cpu *Cpu) Push(value uint16) {
	cpu.SP--
	cpu.Memory[cpu.SP] = uint8(value >> 8)
	cpu.SP--
	cpu.Memory[cpu.SP] = uint8(value)
}

// Pop removes a 16-bit value from the stack.
func (cpu *Cpu) Pop() (value uint16) {
	value = uint16(cpu.Memory[cpu.SP])
	cpu.SP++
	value |= uint16(cpu.Memory[cpu.SP]) << 8
	cpu.SP++
	return
}

// Peek returns the 16-bit value at the top of the stack.
func (cpu *Cpu) Peek() (value uint16) {
	return uint16(cpu.Memory[cpu.SP]) | uint16(cpu.Memory[cpu.SP+1])<<8
}

func (cpu *Cpu) pushPsw() {
	flags := cpu.Flags&^FLAG_UNUSED | FLAG_ONE
	cpu.Push(uint16(cpu.A)<<8 | uint16(flags))
}

func (cpu *Cpu) popPsw() {
	value := cpu.Pop()
	cpu.A = uint8(value >> 8)
	cpu.Flags = uint8(value)&^FLAG_UNUSED | FLAG_ONE
}

// xthl exchanges H:L with the top of the stack.
func (cpu *Cpu) xthl() {
	lo, hi := cpu.Memory[cpu.SP], cpu.Memory[cpu.SP+1]
	cpu.Memory[cpu.SP], cpu.Memory[cpu.SP+1] = cpu.L, cpu.H
	cpu.L, cpu.H = lo, hi
}
