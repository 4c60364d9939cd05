// Package logx is the logging surface shared by firmware and host builds.
// Host builds log through zerolog; TinyGo builds write plain lines to a
// serial console.
package logx

import "errors"

type Level int8

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	Disabled
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	}
	return "disabled"
}

var ErrUnknownLevel = errors.New("logx: unknown level")

// ParseLevel accepts debug, info, warn, error and off. The empty string is
// info.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "debug":
		return DebugLevel, nil
	case "", "info":
		return InfoLevel, nil
	case "warn":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "off", "disabled":
		return Disabled, nil
	}
	return InfoLevel, ErrUnknownLevel
}

// Logger takes a message plus alternating key/value pairs.
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, err error, kv ...any)
	With(kv ...any) Logger
}

type nop struct{}

func (nop) Debug(string, ...any)        {}
func (nop) Info(string, ...any)         {}
func (nop) Warn(string, ...any)         {}
func (nop) Error(string, error, ...any) {}
func (n nop) With(...any) Logger        { return n }

// Nop discards everything.
func Nop() Logger { return nop{} }

// OrNop returns l, or Nop if l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return nop{}
	}
	return l
}
