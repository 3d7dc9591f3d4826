package emulator

import (
	"github.com/ezrec/i8080/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int    // Source line, or 0 if the address was not assembled.
	Addr   uint16 // Address of the failing instruction.
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d (%04Xh) %v", err.LineNo, err.Addr, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
