// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"

	"github.com/ezrec/i8080/asm"
	"github.com/ezrec/i8080/config"
	"github.com/ezrec/i8080/cpu"
	"github.com/ezrec/i8080/emulator"
)

func main() {
	var compile string
	var configFile string
	var firmware string
	var origin string
	var binary string
	var image string
	var listing string
	var save bool
	var input string
	var output string
	var limit uint64
	var verbose bool
	var trace bool

	flag.StringVar(&compile, "c", "", ".asm file to compile")
	flag.StringVar(&configFile, "config", "", ".star configuration file")
	flag.StringVar(&firmware, "f", "", "Firmware image")
	flag.StringVar(&origin, "F", "0", "Firmware load address")
	flag.StringVar(&binary, "b", "", "Save the 64KiB memory image")
	flag.StringVar(&image, "x", "", "Memory image to execute, instead of compiling")
	flag.StringVar(&listing, "L", "", "Save the assembly listing")
	flag.BoolVar(&save, "s", false, "Save outputs only, do not execute")
	flag.StringVar(&input, "i", "-", "Console input")
	flag.StringVar(&output, "o", "-", "Console output")
	flag.Uint64Var(&limit, "l", 0, "Cycles per second limit, 0 is unlimited")
	flag.BoolVar(&verbose, "v", false, "Verbose assembler")
	flag.BoolVar(&trace, "t", false, "Trace execution")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	limitSet := false
	flag.Visit(func(fl *flag.Flag) {
		if fl.Name == "l" {
			limitSet = true
		}
	})

	emu := emulator.NewEmulator()
	emu.Verbose = trace

	defines := map[string]int32{}
	if len(configFile) != 0 {
		cfg, err := config.Load(configFile, nil, emu.Defines())
		if err != nil {
			log.Fatalf("%v: %v", configFile, err)
		}
		err = cfg.Apply(emu)
		if err != nil {
			log.Fatalf("%v: %v", configFile, err)
		}
		if !limitSet {
			limit = cfg.CyclesLimit
		}
		defines = cfg.Defines
	}

	if len(firmware) != 0 {
		addr, err := strconv.ParseUint(origin, 0, 16)
		if err != nil {
			log.Fatalf("-F %v: %v", origin, err)
		}
		emu.Firmware.Origin = uint16(addr)
		inf, err := os.Open(firmware)
		if err != nil {
			log.Fatalf("%v: %v", firmware, err)
		}
		err = emu.Firmware.Load(inf)
		inf.Close()
		if err != nil {
			log.Fatalf("%v: %v", firmware, err)
		}
	}

	prog := &asm.Program{}

	// Compile a new memory image.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		assembler := &asm.Assembler{Verbose: verbose}
		emu.Predefine(assembler)
		for name, value := range defines {
			assembler.Predefine(name, value)
		}
		prog, err = assembler.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	} else if len(image) != 0 {
		inf, err := os.Open(image)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
		_, err = io.ReadFull(inf, prog.Memory[:])
		inf.Close()
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
			log.Fatalf("%v: %v", image, err)
		}
	}

	if len(binary) != 0 {
		err := os.WriteFile(binary, prog.Binary(), 0o644)
		if err != nil {
			log.Fatalf("%v: %v", binary, err)
		}
	}

	if len(listing) != 0 {
		ouf, err := os.Create(listing)
		if err != nil {
			log.Fatalf("%v: %v", listing, err)
		}
		err = prog.Listing(ouf)
		if err == nil {
			err = ouf.Close()
		}
		if err != nil {
			log.Fatalf("%v: %v", listing, err)
		}
	}

	if save {
		return
	}

	emu.Program = prog

	err := execute(emu, limit, input, output)
	if err != nil {
		log.Fatal(err)
	}
}

// execute runs the emulator on the console until it halts.
func execute(emu *emulator.Emulator, limit uint64, input string, output string) (err error) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if input == "-" {
		var tty *terminal
		tty, err = openTerminal(cancel)
		if err != nil {
			return
		}
		if tty != nil {
			defer tty.Close()
			emu.Console.Reader = tty
			emu.Console.CRLF = true
		} else {
			emu.Console.Reader = os.Stdin
		}
	} else {
		var inf *os.File
		inf, err = os.Open(input)
		if err != nil {
			return
		}
		defer inf.Close()
		emu.Console.Reader = inf
	}

	if output == "-" {
		emu.Console.Writer = os.Stdout
	} else {
		var ouf *os.File
		ouf, err = os.Create(output)
		if err != nil {
			return
		}
		defer ouf.Close()
		emu.Console.Writer = ouf
	}

	err = emu.Reset()
	if err != nil {
		return
	}

	ctl := emulator.NewController(ctx, emu, limit)
	ctl.Run()

	var last cpu.State
	for st := range ctl.Status() {
		last = st.State
		if st.Halted {
			ctl.Close()
		}
	}

	err = ctl.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	if emu.Verbose {
		log.Printf("%v", last.String())
	}

	return
}
