package config

import (
	"errors"
	"maps"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/i8080/emulator"
)

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	src := `
firmware = "roms/bios.bin"
firmware_origin = 0xf000
cycles_limit = 2 * 1000 * 1000
stack_top = STACK_TOP + 0x1001
verbose = True
defines = {"BAUD": 9600, "NEG": -1, "PORT": PORT_CONSOLE_DATA}
`
	emu := emulator.NewEmulator()
	cfg, err := Load("/etc/i8080/i8080.star", src, emu.Defines())
	if !assert.NoError(err) {
		return
	}

	assert.Equal("roms/bios.bin", cfg.Firmware)
	assert.Equal("/etc/i8080/roms/bios.bin", cfg.FirmwarePath())
	assert.Equal(uint16(0xf000), cfg.FirmwareOrigin)
	assert.Equal(uint64(2_000_000), cfg.CyclesLimit)
	assert.Equal(uint16(0x2000), cfg.StackTop)
	assert.True(cfg.Verbose)
	assert.Equal(map[string]int32{"BAUD": 9600, "NEG": -1, "PORT": 0x84}, cfg.Defines)
}

func TestLoad_Empty(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Load("empty.star", "", maps.All(map[string]int32{}))
	if !assert.NoError(err) {
		return
	}

	assert.Equal(&Config{Dir: ".", Defines: map[string]int32{}}, cfg)
	assert.Equal("", cfg.FirmwarePath())
}

func TestLoad_Errors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		src  string
		want string
		err  error
	}){
		{"firmware", "firmware = 3", "string", nil},
		{"verbose", "verbose = 1", "bool", nil},
		{"stack_top", "stack_top = 'x'", "int", nil},
		{"defines", "defines = [1]", "dict", nil},
		{"defines key", "defines = {1: 2}", "string", nil},
		{"firmware_origin", "firmware_origin = 0x10000", "", ErrRange},
		{"cycles_limit", "cycles_limit = -1", "", ErrRange},
		{"defines[BIG]", "defines = {'BIG': 0x10000}", "", ErrRange},
	}

	for _, entry := range table {
		cfg, err := Load("bad.star", entry.src, maps.All(map[string]int32{}))
		assert.Nil(cfg, entry.name)
		if entry.err != nil {
			var ev *ErrValue
			if assert.True(errors.As(err, &ev), entry.name) {
				assert.Equal(entry.name, ev.Name)
			}
			assert.ErrorIs(err, entry.err, entry.name)
			continue
		}
		var et *ErrType
		if assert.True(errors.As(err, &et), entry.name) {
			assert.Equal(entry.name, et.Name)
			assert.Equal(entry.want, et.Want)
		}
	}

	_, err := Load("syntax.star", "x = = 1", maps.All(map[string]int32{}))
	assert.Error(err)
}

func TestApply(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "bios.bin"), []byte{0x76}, 0o644)
	if !assert.NoError(err) {
		return
	}

	src := `
firmware = "bios.bin"
firmware_origin = 0x100
stack_top = 0x4000
`
	emu := emulator.NewEmulator()
	cfg, err := Load(filepath.Join(dir, "i8080.star"), src, emu.Defines())
	if !assert.NoError(err) {
		return
	}

	assert.NoError(cfg.Apply(emu))
	assert.Equal(uint16(0x100), emu.Firmware.Origin)
	assert.Equal([]byte{0x76}, emu.Firmware.Data)
	assert.Equal(uint16(0x4000), emu.StackTop)

	assert.NoError(emu.Reset())
	assert.Equal(uint8(0x76), emu.Cpu.Memory[0x100])
	assert.Equal(uint16(0x4000), emu.Cpu.SP)

	cfg.Firmware = "missing.bin"
	assert.Error(cfg.Apply(emu))
}
