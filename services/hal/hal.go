// Package hal owns the board's hardware resources and hands them out once.
//
// Every resource is claimed by a named device at boot. A second claim of
// the same counter, pin or (bus, address) pair fails with errcode.InUse, so
// two clocks can never run on one counter and two drivers never drive one
// LED. I2C buses themselves are shared: transactions on a bus are
// serialised by the provider.
//
// Providers: RP2 (TinyGo on rp2040/rp2350), Periph (Linux via periph.io) and
// Sim (host simulation and tests).
package hal

import (
	"tinygo.org/x/drivers"

	"envmon-go/x/timex"
)

// Pin is a claimed output line.
type Pin interface {
	Set(high bool)
}

type Registry interface {
	// TickHz is the rate of the counter returned by ClaimCounter.
	TickHz() uint32
	ClaimCounter(dev string) (timex.Counter, error)
	ReleaseCounter(dev string)

	ClaimI2C(dev, bus string, addr uint16) (drivers.I2C, error)
	ReleaseI2C(dev, bus string, addr uint16)

	ClaimPin(dev string, n int) (Pin, error)
	ReleasePin(dev string, n int)

	Close() error
}
