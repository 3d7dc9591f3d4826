package io

import (
	"errors"

	"github.com/ezrec/i8080/translate"
)

var f = translate.From

var (
	// Rom errors
	ErrRomOverflow = errors.New(f("rom exceeds address space"))
	ErrRomEmpty    = errors.New(f("rom empty"))
)
