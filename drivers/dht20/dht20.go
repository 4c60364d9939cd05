// Package dht20 drives the DHT20/AHT20 humidity and temperature sensor.
//
// A measurement is one blocking cycle:
//
//	status read -> (calibration writes if needed) -> trigger -> 80 ms -> 8-byte frame read
//
// The settle wait runs on the Delayer given to New, so the driver never
// sleeps the scheduler and never shares wait state with other drivers.
//
// NOTE: I2C.Tx with only w performs a write, with only r a plain read.
package dht20

import (
	"tinygo.org/x/drivers"

	"envmon-go/errcode"
	"envmon-go/types"
	"envmon-go/x/logx"
)

// I2C address.
const Address = 0x38

// Commands and status bits.
const (
	cmdTrigger = 0xAC

	// Both bits must be set after power-up; otherwise the calibration
	// registers are rewritten before measuring.
	statusCalMask = 0x18

	defaultSettleMs = 80
)

// Calibration registers written with two zero bytes each.
var calRegs = [...]byte{0x1B, 0x1C, 0x1E}

// Delayer is the blocking wait the driver settles on.
// timex.Delay satisfies it.
type Delayer interface {
	DelayMs(ms uint32)
}

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// Address defaults to 0x38 if zero.
	Address uint16
	// SettleMs is the wait between trigger and frame read. Default 80.
	SettleMs uint32
	Logger   logx.Logger
}

// Device wraps an I2C connection to a DHT20.
type Device struct {
	bus     drivers.I2C
	delay   Delayer
	Address uint16

	settleMs uint32
	log      logx.Logger

	w     [3]byte
	st    [1]byte
	frame Frame
}

// New creates a Device on an already configured bus. It does not touch the
// hardware.
func New(bus drivers.I2C, delay Delayer) *Device {
	return &Device{
		bus:      bus,
		delay:    delay,
		Address:  Address,
		settleMs: defaultSettleMs,
		log:      logx.Nop(),
	}
}

// Configure applies optional settings.
func (d *Device) Configure(cfg Config) {
	if cfg.Address != 0 {
		d.Address = cfg.Address
	}
	if cfg.SettleMs != 0 {
		d.settleMs = cfg.SettleMs
	}
	if cfg.Logger != nil {
		d.log = cfg.Logger
	}
}

// Status reads the status byte with a plain one-byte read.
func (d *Device) Status() (byte, error) {
	if err := d.bus.Tx(d.Address, nil, d.st[:]); err != nil {
		return 0, errcode.Wrap("dht20.status", err)
	}
	return d.st[0], nil
}

// Read runs one full measurement cycle and decodes the frame.
// Any bus failure aborts the cycle and is returned wrapped in *errcode.E.
func (d *Device) Read() (types.Reading, error) {
	f, err := d.ReadFrame()
	if err != nil {
		return types.Reading{}, err
	}
	return Decode(f), nil
}

// ReadFrame is Read without decoding.
func (d *Device) ReadFrame() (Frame, error) {
	st, err := d.Status()
	if err != nil {
		return Frame{}, err
	}
	// Re-checked on every cycle: the sensor loses calibration on brown-out.
	if st&statusCalMask != statusCalMask {
		d.log.Debug("resetting", "status", st)
		if err := d.calibrate(); err != nil {
			return Frame{}, err
		}
	}
	if err := d.write("dht20.trigger", cmdTrigger, 0x33, 0x00); err != nil {
		return Frame{}, err
	}
	d.delay.DelayMs(d.settleMs)

	if err := d.bus.Tx(d.Address, nil, d.frame[:]); err != nil {
		return Frame{}, errcode.Wrap("dht20.frame", err)
	}
	return d.frame, nil
}

func (d *Device) calibrate() error {
	for _, reg := range calRegs {
		if err := d.write("dht20.calibrate", reg, 0x00, 0x00); err != nil {
			return err
		}
	}
	return nil
}

func (d *Device) write(op string, b0, b1, b2 byte) error {
	d.w = [3]byte{b0, b1, b2}
	return errcode.Wrap(op, d.bus.Tx(d.Address, d.w[:], nil))
}
