package asm

import (
	"errors"
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	assert := assert.New(t)

	for _, name := range []string{"START", "@LOOP", "?TMP", ":X", "A1_B2", "LOOP.2"} {
		assert.NoError(ValidateName(name), name)
	}

	table := [](struct {
		name string
		err  error
	}){
		{"", ErrSymbolInvalid},
		{"1ABC", ErrSymbolInvalid},
		{"_ABC", ErrSymbolInvalid},
		{"AB-C", ErrSymbolInvalid},
		{"MOV", ErrSymbolReserved},
		{"ENDM", ErrSymbolReserved},
		{"DW", ErrSymbolReserved},
		{"SHL", ErrSymbolReserved},
		{"CAF\xc3\xa9", ErrNonAscii},
	}

	for _, entry := range table {
		assert.ErrorIs(ValidateName(entry.name), entry.err, entry.name)
	}
}

func TestSymbolTableDefine(t *testing.T) {
	assert := assert.New(t)

	st := &SymbolTable{}

	assert.NoError(st.Define("START", 0x100, SYMBOL_LABEL, Scope{}, 1))
	assert.ErrorIs(st.Define("START", 0x200, SYMBOL_LABEL, Scope{}, 2), ErrSymbolDuplicate)
	assert.ErrorIs(st.Define("START", 0x200, SYMBOL_SET, Scope{}, 2), ErrSymbolDuplicate)

	assert.NoError(st.Define("COUNT", 1, SYMBOL_SET, Scope{}, 3))
	assert.NoError(st.Define("COUNT", 2, SYMBOL_SET, Scope{}, 4))
	assert.ErrorIs(st.Define("COUNT", 3, SYMBOL_EQU, Scope{}, 5), ErrSymbolDuplicate)

	value, err := st.Lookup("COUNT", Scope{})
	assert.NoError(err)
	assert.Equal(int32(2), value)

	// A SET inside an expansion updates the global SET.
	inner := Scope{Macro: "BUMP", Id: 1}
	assert.NoError(st.Define("COUNT", 7, SYMBOL_SET, inner, 6))
	value, err = st.Lookup("COUNT", Scope{})
	assert.NoError(err)
	assert.Equal(int32(7), value)
	_, ok := st.Get("COUNT", inner)
	assert.False(ok)

	values := maps.Collect(st.Globals())
	assert.Equal(map[string]int32{"START": 0x100, "COUNT": 7}, values)
}

func TestSymbolTableScope(t *testing.T) {
	assert := assert.New(t)

	st := &SymbolTable{}

	first := Scope{Macro: "DELAY", Id: 1}
	second := Scope{Macro: "DELAY", Id: 2}

	assert.NoError(st.Define("LOOP", 0x10, SYMBOL_LABEL, first, 1))
	assert.NoError(st.Define("LOOP", 0x20, SYMBOL_LABEL, second, 1))
	assert.NoError(st.Define("TOP", 0x30, SYMBOL_LABEL, Scope{}, 2))

	value, err := st.Lookup("LOOP", first)
	assert.NoError(err)
	assert.Equal(int32(0x10), value)

	value, err = st.Lookup("LOOP", second)
	assert.NoError(err)
	assert.Equal(int32(0x20), value)

	value, err = st.Lookup("TOP", second)
	assert.NoError(err)
	assert.Equal(int32(0x30), value)

	var eu *ErrUndefined

	_, err = st.Lookup("LOOP", Scope{})
	assert.True(errors.As(err, &eu))
	assert.Contains(eu.Error(), "cannot be used outside macro")

	_, err = st.Lookup("LOOP", Scope{Macro: "OTHER", Id: 3})
	assert.True(errors.As(err, &eu))
	assert.Contains(eu.Error(), "local to a different macro")

	_, err = st.Lookup("NOWHERE", first)
	assert.True(errors.As(err, &eu))
	assert.Equal("NOWHERE", eu.Name)
	assert.Empty(eu.Detail)
}
