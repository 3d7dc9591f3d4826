package asm

import (
	"iter"
	"maps"
	"slices"
	"strconv"
)

//go:generate go tool stringer -linecomment -type=SymbolKind

// SymbolKind is how a symbol was defined.
type SymbolKind int

const (
	SYMBOL_LABEL = SymbolKind(iota) // label
	SYMBOL_EQU                      // EQU
	SYMBOL_SET                      // SET
)

// Scope of a symbol. The zero Scope is global; every macro expansion gets
// a fresh, non-zero Id.
type Scope struct {
	Macro string // Name of the expanding macro.
	Id    int    // Expansion identifier.
}

// IsGlobal returns true for the global scope.
func (s Scope) IsGlobal() bool {
	return s.Id == 0
}

// Entry is a defined symbol.
type Entry struct {
	Name   string
	Value  int32
	Kind   SymbolKind
	Scope  Scope
	LineNo int
}

// SymbolTable maps names to values, keeping macro local symbols apart by
// expansion.
type SymbolTable struct {
	entries map[string]*Entry
	locals  map[string]int
}

// symbolKey returns the table key of a name in a scope.
func symbolKey(name string, scope Scope) string {
	if scope.IsGlobal() {
		return name
	}
	return name + "@" + strconv.Itoa(scope.Id)
}

// ValidateName checks the lexical rules of a symbol name.
func ValidateName(name string) (err error) {
	if len(name) == 0 {
		err = &ErrInvalidToken{Token: name, Kind: TOKEN_LABEL, Err: ErrSymbolInvalid}
		return
	}

	for n := 0; n < len(name); n++ {
		c := name[n]
		if c >= 0x80 {
			err = &ErrInvalidToken{Token: name, Kind: TOKEN_LABEL, Err: ErrNonAscii}
			return
		}
		alpha := (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
		if n == 0 && !alpha && c != '@' && c != '?' && c != ':' {
			err = &ErrInvalidToken{Token: name, Kind: TOKEN_LABEL, Err: ErrSymbolInvalid}
			return
		}
		if n > 0 && !isSymbolChar(c) {
			err = &ErrInvalidToken{Token: name, Kind: TOKEN_LABEL, Err: ErrSymbolInvalid}
			return
		}
	}

	if IsReserved(name) {
		err = &ErrInvalidToken{Token: name, Kind: TOKEN_LABEL, Err: ErrSymbolReserved}
		return
	}

	return
}

// Reset removes all symbols.
func (st *SymbolTable) Reset() {
	st.entries = make(map[string]*Entry)
	st.locals = make(map[string]int)
}

// Get returns the symbol defined exactly in the scope, if any.
func (st *SymbolTable) Get(name string, scope Scope) (entry *Entry, ok bool) {
	entry, ok = st.entries[symbolKey(name, scope)]
	return
}

// Define adds or updates a symbol. Only a SET may update an existing SET;
// any other redefinition is an error. A SET within a macro expansion
// updates a global SET of the same name if one exists.
func (st *SymbolTable) Define(name string, value int32, kind SymbolKind, scope Scope, lineno int) (err error) {
	if st.entries == nil {
		st.Reset()
	}

	if kind == SYMBOL_SET && !scope.IsGlobal() {
		global, ok := st.entries[name]
		if ok && global.Kind == SYMBOL_SET {
			global.Value = value
			return
		}
	}

	key := symbolKey(name, scope)
	entry, ok := st.entries[key]
	if ok {
		if entry.Kind == SYMBOL_SET && kind == SYMBOL_SET {
			entry.Value = value
			return
		}
		err = &ErrInvalidToken{Token: name, Kind: TOKEN_LABEL, Err: ErrSymbolDuplicate}
		return
	}

	st.entries[key] = &Entry{
		Name:   name,
		Value:  value,
		Kind:   kind,
		Scope:  scope,
		LineNo: lineno,
	}
	if !scope.IsGlobal() {
		st.locals[name]++
	}

	return
}

// Lookup resolves a name as seen from a scope: the scope's own local
// symbol first, then the global one.
func (st *SymbolTable) Lookup(name string, scope Scope) (value int32, err error) {
	if !scope.IsGlobal() {
		entry, ok := st.entries[symbolKey(name, scope)]
		if ok {
			value = entry.Value
			return
		}
	}

	entry, ok := st.entries[name]
	if ok {
		value = entry.Value
		return
	}

	undefined := &ErrUndefined{Name: name}
	if st.locals[name] > 0 {
		if scope.IsGlobal() {
			undefined.Detail = f("is local and cannot be used outside macro")
		} else {
			undefined.Detail = f("is local to a different macro")
		}
	}
	err = undefined

	return
}

// Resolver returns a Resolver bound to a scope.
func (st *SymbolTable) Resolver(scope Scope) Resolver {
	return func(name string) (int32, error) {
		return st.Lookup(name, scope)
	}
}

// Globals returns an iterator over the global symbols, sorted by name.
func (st *SymbolTable) Globals() iter.Seq2[string, int32] {
	return func(yield func(name string, value int32) bool) {
		for _, key := range slices.Sorted(maps.Keys(st.entries)) {
			entry := st.entries[key]
			if !entry.Scope.IsGlobal() {
				continue
			}
			if !yield(entry.Name, entry.Value) {
				return
			}
		}
	}
}
