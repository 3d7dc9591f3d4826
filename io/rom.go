package io

import (
	"io"
	"io/fs"
	"iter"
	"maps"

	"github.com/ezrec/i8080/cpu"
)

// Rom is a firmware image placed at Origin.
type Rom struct {
	Origin uint16
	Data   []byte
}

// Defines returns an iter of defines for the rom.
func (rom *Rom) Defines() iter.Seq2[string, int32] {
	return maps.All(map[string]int32{
		"ROM_ORIGIN": int32(rom.Origin),
		"ROM_SIZE":   int32(len(rom.Data)),
	})
}

// Load replaces the image with the contents of r.
func (rom *Rom) Load(r io.Reader) (err error) {
	data, err := io.ReadAll(io.LimitReader(r, cpu.MEMORY_SIZE+1))
	if err != nil {
		return
	}

	if len(data) == 0 {
		err = ErrRomEmpty
		return
	}

	if int(rom.Origin)+len(data) > cpu.MEMORY_SIZE {
		err = ErrRomOverflow
		return
	}

	rom.Data = data
	return
}

// LoadFS loads the image from a file in a filesystem.
func (rom *Rom) LoadFS(filesys fs.FS, name string) (err error) {
	file, err := filesys.Open(name)
	if err != nil {
		return
	}
	defer file.Close()

	return rom.Load(file)
}

// Merge overlays the image onto memory.
func (rom *Rom) Merge(mem *cpu.Memory) (err error) {
	if int(rom.Origin)+len(rom.Data) > cpu.MEMORY_SIZE {
		err = ErrRomOverflow
		return
	}

	copy(mem[rom.Origin:], rom.Data)
	return
}
