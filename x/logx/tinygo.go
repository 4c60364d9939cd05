//go:build tinygo

package logx

import "io"

// New returns the console line logger; zerolog is too heavy for the MCU.
func New(w io.Writer, min Level) Logger { return NewLine(w, min) }
