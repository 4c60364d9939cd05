package errcode

import (
	"errors"
	"strings"
)

// Code is a stable, log-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Transport
	BusError Code = "bus_error" // any I2C failure without a finer classification
	Nack     Code = "nack"      // address or data byte not acknowledged
	Timeout  Code = "timeout"

	// Boot-time resource claims
	InUse      Code = "in_use"
	UnknownBus Code = "unknown_bus"
	UnknownPin Code = "unknown_pin"

	InvalidConfig Code = "invalid_config"

	Error Code = "error" // generic fallback
)

// E keeps an operation name and the transport cause alongside a Code.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += " (" + e.Err.Error() + ")"
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is(err, errcode.Nack) match a wrapped *E.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// Wrap builds an *E for op, classifying err with MapDriverErr.
// A nil err yields nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &E{C: MapDriverErr(err), Op: op, Err: err}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	var x coder
	if errors.As(err, &x) {
		return x.Code()
	}
	return Error
}

// MapDriverErr maps low-level I2C errors to a Code.
// machine.I2C and periph report failures as plain errors, so the heuristics
// look at the message text.
func MapDriverErr(err error) Code {
	if err == nil {
		return OK
	}
	if c := Of(err); c != Error {
		return c
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		return Timeout
	case strings.Contains(msg, "nack"), strings.Contains(msg, "not acknowledged"), strings.Contains(msg, "abort"):
		return Nack
	}
	return BusError
}
