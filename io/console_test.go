package io

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/i8080/cpu"
)

func TestConsole_Output(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		crlf   bool
		port   uint8
		input  []uint8
		output string
	}){
		{"plain", false, PORT_CONSOLE_DATA, []uint8("Hi\n"), "Hi\n"},
		{"crlf", true, PORT_CONSOLE_DATA, []uint8("a\nb"), "a\r\nb"},
		{"escape", false, PORT_CONSOLE_DATA, []uint8{0x1b, '[', '2', 'J'}, "[2J"},
		{"status", false, PORT_CONSOLE_STATUS, []uint8("x"), ""},
		{"other", false, 0x10, []uint8("x"), ""},
	}

	for _, entry := range table {
		out := &bytes.Buffer{}
		con := &Console{Writer: out, CRLF: entry.crlf}
		for _, value := range entry.input {
			con.Output(entry.port, value)
		}
		assert.Equal(entry.output, out.String(), entry.name)
	}
}

func TestConsole_Input(t *testing.T) {
	assert := assert.New(t)

	con := &Console{Reader: strings.NewReader("ok")}

	assert.Equal(uint8(CONSOLE_READY), con.Input(PORT_CONSOLE_STATUS))
	assert.Equal(uint8('o'), con.Input(PORT_CONSOLE_DATA))
	assert.Equal(uint8('k'), con.Input(PORT_CONSOLE_DATA))
	assert.Equal(uint8(0), con.Input(PORT_CONSOLE_DATA))
	assert.Equal(uint8(cpu.PORT_UNMAPPED), con.Input(0xa0))

	con.Rewind()
	con.Reader = strings.NewReader("!")
	assert.Equal(uint8('!'), con.Input(PORT_CONSOLE_DATA))
}

type emptyReader struct {
	reads int
}

func (er *emptyReader) Read(p []byte) (int, error) {
	er.reads++
	return 0, nil
}

func TestConsole_EmptyReader(t *testing.T) {
	assert := assert.New(t)

	er := &emptyReader{}
	con := &Console{Reader: er}

	assert.Equal(uint8(0), con.Input(PORT_CONSOLE_DATA))
	assert.Equal(CONSOLE_EMPTY_READS, er.reads)

	assert.Equal(uint8(0), con.Input(PORT_CONSOLE_DATA))
	assert.Equal(CONSOLE_EMPTY_READS, er.reads)
}

func TestConsole_Nil(t *testing.T) {
	assert := assert.New(t)

	con := &Console{}
	con.Output(PORT_CONSOLE_DATA, 'x')
	assert.Equal(uint8(0), con.Input(PORT_CONSOLE_DATA))
}

func TestConsole_Cpu(t *testing.T) {
	assert := assert.New(t)

	// IN 84H; OUT 84H; HLT
	var mem cpu.Memory
	copy(mem[:], []uint8{0xdb, 0x84, 0xd3, 0x84, 0x76})

	out := &bytes.Buffer{}
	cp := cpu.NewCpu(&mem)
	cp.Port = &Console{Reader: strings.NewReader("Z"), Writer: out}

	assert.NoError(cp.Run())
	assert.Equal("Z", out.String())
}

func TestConsole_Defines(t *testing.T) {
	assert := assert.New(t)

	defines := map[string]int32{}
	for name, value := range (&Console{}).Defines() {
		defines[name] = value
	}

	assert.Equal(int32(0x84), defines["PORT_CONSOLE_DATA"])
	assert.Equal(int32(0x85), defines["PORT_CONSOLE_STATUS"])
}
