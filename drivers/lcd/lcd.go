// Package lcd drives a 16x2 HD44780 character display behind a PCF8574 I2C
// backpack, and provides an in-memory display for simulation.
package lcd

import (
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/hd44780i2c"

	"envmon-go/errcode"
)

// Address is the usual PCF8574 backpack address.
const Address = 0x27

const (
	Width  = 16
	Height = 2

	defaultPowerOnMs = 50
)

// Display is the character display as seen by the monitor loop.
// Every call is a bus transaction and may fail.
type Display interface {
	SetDisplay(on bool) error
	SetBacklight(on bool) error
	Clear() error
	SetCursor(col, row uint8) error
	Print(s string) error
}

// Delayer is the blocking wait used for the controller's power-on settle.
type Delayer interface {
	DelayMs(ms uint32)
}

type Config struct {
	Address   uint8 // default 0x27
	Width     uint8 // 16x2 when both are zero
	Height    uint8
	PowerOnMs uint32
}

// Device adapts hd44780i2c, whose calls do not report bus errors, to the
// fallible Display interface.
type Device struct {
	bus   *latch
	delay Delayer
	dev   hd44780i2c.Device
}

var _ Display = (*Device)(nil)

func New(bus drivers.I2C, delay Delayer) *Device {
	return &Device{bus: &latch{bus: bus}, delay: delay}
}

// Configure waits for the controller to power up and initialises it in
// 4-bit mode.
func (d *Device) Configure(cfg Config) error {
	if cfg.Address == 0 {
		cfg.Address = Address
	}
	if cfg.Width == 0 && cfg.Height == 0 {
		cfg.Width, cfg.Height = Width, Height
	}
	if cfg.PowerOnMs == 0 {
		cfg.PowerOnMs = defaultPowerOnMs
	}
	d.delay.DelayMs(cfg.PowerOnMs)

	d.bus.take()
	d.dev = hd44780i2c.New(d.bus, cfg.Address)
	if err := d.dev.Configure(hd44780i2c.Config{Width: cfg.Width, Height: cfg.Height}); err != nil {
		return &errcode.E{C: errcode.InvalidConfig, Op: "lcd.configure", Err: err}
	}
	return d.done("lcd.configure")
}

func (d *Device) SetDisplay(on bool) error {
	d.dev.DisplayOn(on)
	return d.done("lcd.display")
}

func (d *Device) SetBacklight(on bool) error {
	d.dev.BacklightOn(on)
	return d.done("lcd.backlight")
}

func (d *Device) Clear() error {
	d.dev.ClearDisplay()
	return d.done("lcd.clear")
}

func (d *Device) SetCursor(col, row uint8) error {
	d.dev.SetCursor(col, row)
	return d.done("lcd.cursor")
}

func (d *Device) Print(s string) error {
	d.dev.Print([]byte(s))
	return d.done("lcd.print")
}

func (d *Device) done(op string) error { return errcode.Wrap(op, d.bus.take()) }

// latch forwards transactions and keeps the first failure until taken.
type latch struct {
	bus drivers.I2C
	err error
}

func (l *latch) Tx(addr uint16, w, r []byte) error {
	err := l.bus.Tx(addr, w, r)
	if err != nil && l.err == nil {
		l.err = err
	}
	return err
}

func (l *latch) take() error {
	err := l.err
	l.err = nil
	return err
}
