package cpu

const (
	MEMORY_SIZE = 0x1_0000 // Size of the address space.
	STACK_TOP   = 0x0fff   // Stack pointer after a reset.
	FLAGS_RESET = 0x02     // Flag register after a reset.
)

// Memory is the full 64KiB address space.
type Memory [MEMORY_SIZE]byte

// Word reads the little-endian 16-bit value at addr.
func (mem *Memory) Word(addr uint16) uint16 {
	return uint16(mem[addr]) | uint16(mem[addr+1])<<8
}

// SetWord writes a little-endian 16-bit value at addr.
func (mem *Memory) SetWord(addr uint16, value uint16) {
	mem[addr] = uint8(value)
	mem[addr+1] = uint8(value >> 8)
}
