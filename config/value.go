package config

import (
	"errors"

	"go.starlark.net/starlark"

	"github.com/ezrec/i8080/translate"
)

var f = translate.From

var (
	ErrRange = errors.New(f("value out of range"))
)

// ErrType is a configuration global with the wrong type.
type ErrType struct {
	Name string
	Want string
	Got  string
}

func (err *ErrType) Error() string {
	return f("%v: want %v, got %v", err.Name, err.Want, err.Got)
}

// ErrValue is a configuration global with an unusable value.
type ErrValue struct {
	Name string
	Err  error
}

func (err *ErrValue) Error() string {
	return f("%v: %v", err.Name, err.Err)
}

func (err *ErrValue) Unwrap() error {
	return err.Err
}

func getString(globals starlark.StringDict, name string, out *string) (err error) {
	value, ok := globals[name]
	if !ok || value == starlark.None {
		return
	}

	str, ok := value.(starlark.String)
	if !ok {
		err = &ErrType{Name: name, Want: "string", Got: value.Type()}
		return
	}

	*out = string(str)
	return
}

func getBool(globals starlark.StringDict, name string, out *bool) (err error) {
	value, ok := globals[name]
	if !ok || value == starlark.None {
		return
	}

	b, ok := value.(starlark.Bool)
	if !ok {
		err = &ErrType{Name: name, Want: "bool", Got: value.Type()}
		return
	}

	*out = bool(b)
	return
}

func toInt(name string, value starlark.Value, low int64, high int64) (out int64, err error) {
	st_int, ok := value.(starlark.Int)
	if !ok {
		err = &ErrType{Name: name, Want: "int", Got: value.Type()}
		return
	}

	out, ok = st_int.Int64()
	if !ok || out < low || out > high {
		err = &ErrValue{Name: name, Err: ErrRange}
		return
	}

	return
}

func getInt(globals starlark.StringDict, name string, out *int64, low int64, high int64) (err error) {
	value, ok := globals[name]
	if !ok || value == starlark.None {
		return
	}

	*out, err = toInt(name, value, low, high)
	return
}

func getDefines(globals starlark.StringDict, name string, out map[string]int32) (err error) {
	value, ok := globals[name]
	if !ok || value == starlark.None {
		return
	}

	dict, ok := value.(*starlark.Dict)
	if !ok {
		err = &ErrType{Name: name, Want: "dict", Got: value.Type()}
		return
	}

	for _, item := range dict.Items() {
		key, ok := item[0].(starlark.String)
		if !ok {
			err = &ErrType{Name: name + " key", Want: "string", Got: item[0].Type()}
			return
		}
		var v int64
		v, err = toInt(name+"["+string(key)+"]", item[1], -0x8000, 0xffff)
		if err != nil {
			return
		}
		out[string(key)] = int32(v)
	}

	return
}
