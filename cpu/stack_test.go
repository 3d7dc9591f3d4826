package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(nil)
	assert.Equal(uint16(STACK_TOP), cpu.SP)

	cpu.Push(0x1234)
	assert.Equal(uint16(STACK_TOP-2), cpu.SP)
	assert.Equal(uint8(0x12), cpu.Memory[STACK_TOP-1])
	assert.Equal(uint8(0x34), cpu.Memory[STACK_TOP-2])
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(nil)
	cpu.Push(0x1234)
	cpu.Push(0xABCD)

	assert.Equal(uint16(0xABCD), cpu.Peek())
	assert.Equal(uint16(0xABCD), cpu.Pop())
	assert.Equal(uint16(0x1234), cpu.Pop())
	assert.Equal(uint16(STACK_TOP), cpu.SP)
}

func TestStack_Wrap(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(nil)
	cpu.SP = 0x0001
	cpu.Push(0xBEEF)
	assert.Equal(uint16(0xFFFF), cpu.SP)
	assert.Equal(uint8(0xEF), cpu.Memory[0xFFFF])
	assert.Equal(uint8(0xBE), cpu.Memory[0x0000])

	assert.Equal(uint16(0xBEEF), cpu.Pop())
	assert.Equal(uint16(0x0001), cpu.SP)
}

func TestStack_Psw(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		stored uint16
		a      uint8
		flags  uint8
	}){
		{"all", 0x12FF, 0x12, 0xD7},
		{"none", 0x3400, 0x34, 0x02},
		{"carry", 0x5601, 0x56, 0x03},
		{"unused", 0x7828, 0x78, 0x02},
	}

	for _, entry := range table {
		cpu := NewCpu(nil)
		cpu.Push(entry.stored)
		cpu.popPsw()
		assert.Equal(entry.a, cpu.A, entry.name)
		assert.Equal(entry.flags, cpu.Flags, entry.name)

		cpu.pushPsw()
		assert.Equal(uint16(entry.a)<<8|uint16(entry.flags), cpu.Pop(), entry.name)
	}
}

func TestStack_Xthl(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(nil)
	cpu.Push(0x1234)
	cpu.SetHL(0xABCD)
	cpu.xthl()

	assert.Equal(uint16(0x1234), cpu.HL())
	assert.Equal(uint16(0xABCD), cpu.Pop())
}
