// Package config loads emulator settings from a Starlark file.
//
// The file is executed with the emulator defines predeclared, and its
// global variables are read back:
//
//	firmware        = "bios.bin"    # image overlaid onto memory
//	firmware_origin = 0xf000        # load address of the image
//	cycles_limit    = 2000000       # cycles per second, 0 is unlimited
//	stack_top       = STACK_TOP     # SP after reset
//	verbose         = False
//	defines         = {"BAUD": 9600} # extra assembler symbols
package config

import (
	"iter"
	"math"
	"os"
	"path/filepath"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/i8080/emulator"
)

// Config is the result of a configuration file.
type Config struct {
	Dir            string           // Directory of the configuration file.
	Firmware       string           // Firmware image path, relative to Dir.
	FirmwareOrigin uint16           // Firmware load address.
	CyclesLimit    uint64           // Cycles per second limit, 0 if unlimited.
	StackTop       uint16           // SP after reset, 0 for the CPU default.
	Verbose        bool             // Emulator verbose logging.
	Defines        map[string]int32 // Extra assembler symbols.
}

// Load executes a configuration file. src is as for starlark.ExecFile:
// nil reads filename, otherwise a string, []byte or io.Reader.
func Load(filename string, src any, predeclared iter.Seq2[string, int32]) (cfg *Config, err error) {
	pred := starlark.StringDict{}
	for name, value := range predeclared {
		pred[name] = starlark.MakeInt(int(value))
	}

	thread := &starlark.Thread{Name: filename}
	opts := syntax.FileOptions{}
	globals, err := starlark.ExecFileOptions(&opts, thread, filename, src, pred)
	if err != nil {
		return
	}

	cfg = &Config{
		Dir:     filepath.Dir(filename),
		Defines: map[string]int32{},
	}

	var origin, limit, stack int64
	err = getString(globals, "firmware", &cfg.Firmware)
	if err == nil {
		err = getInt(globals, "firmware_origin", &origin, 0, math.MaxUint16)
	}
	if err == nil {
		err = getInt(globals, "cycles_limit", &limit, 0, math.MaxInt64)
	}
	if err == nil {
		err = getInt(globals, "stack_top", &stack, 0, math.MaxUint16)
	}
	if err == nil {
		err = getBool(globals, "verbose", &cfg.Verbose)
	}
	if err == nil {
		err = getDefines(globals, "defines", cfg.Defines)
	}
	if err != nil {
		cfg = nil
		return
	}

	cfg.FirmwareOrigin = uint16(origin)
	cfg.CyclesLimit = uint64(limit)
	cfg.StackTop = uint16(stack)

	return
}

// FirmwarePath returns the firmware image path, or "" if there is none.
func (cfg *Config) FirmwarePath() string {
	if len(cfg.Firmware) == 0 || filepath.IsAbs(cfg.Firmware) {
		return cfg.Firmware
	}

	return filepath.Join(cfg.Dir, cfg.Firmware)
}

// Apply configures an emulator, loading the firmware image if set.
func (cfg *Config) Apply(emu *emulator.Emulator) (err error) {
	emu.Verbose = emu.Verbose || cfg.Verbose
	emu.StackTop = cfg.StackTop

	path := cfg.FirmwarePath()
	if len(path) == 0 {
		return
	}

	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	emu.Firmware.Origin = cfg.FirmwareOrigin
	return emu.Firmware.Load(file)
}
