//go:build rp2040 || rp2350

package hal

import (
	"io"
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers"

	"envmon-go/drivers/systick"
	"envmon-go/errcode"
	"envmon-go/services/config"
	"envmon-go/x/timex"
)

// RP2 hands out the RP2040/RP2350 peripherals named in a board config.
type RP2 struct {
	board  config.Board
	claims *claims
	tick   *systick.SysTick

	buses   map[string]*sharedBus
	console *uartx.UART
}

var _ Registry = (*RP2)(nil)

// NewRP2 configures the I2C buses and the console UART from the board plan.
func NewRP2(b config.Board) (*RP2, error) {
	r := &RP2{
		board:  b,
		claims: newClaims(),
		tick:   systick.New(),
		buses:  make(map[string]*sharedBus),
	}

	for _, p := range b.I2C {
		var hw *machine.I2C
		switch p.ID {
		case "i2c0":
			hw = machine.I2C0
		case "i2c1":
			hw = machine.I2C1
		default:
			return nil, &errcode.E{C: errcode.UnknownBus, Op: "hal.rp2", Msg: p.ID}
		}
		sda := machine.Pin(p.SDA)
		scl := machine.Pin(p.SCL)
		sda.Configure(machine.PinConfig{Mode: machine.PinI2C})
		scl.Configure(machine.PinConfig{Mode: machine.PinI2C})
		if err := hw.Configure(machine.I2CConfig{
			SCL:       scl,
			SDA:       sda,
			Frequency: p.Hz,
		}); err != nil {
			return nil, errcode.Wrap("hal.rp2."+p.ID, err)
		}
		r.buses[p.ID] = &sharedBus{bus: hw}
	}

	if u := b.Console; u.ID != "" {
		var hw *uartx.UART
		switch u.ID {
		case "uart0":
			hw = uartx.UART0
		case "uart1":
			hw = uartx.UART1
		default:
			return nil, &errcode.E{C: errcode.UnknownBus, Op: "hal.rp2", Msg: u.ID}
		}
		// Defaults inside uartx apply if zero.
		_ = hw.Configure(uartx.UARTConfig{
			BaudRate: u.Baud,
			TX:       machine.Pin(u.TX),
			RX:       machine.Pin(u.RX),
		})
		r.console = hw
	}
	return r, nil
}

// Console is the configured UART, or nil.
func (r *RP2) Console() io.Writer {
	if r.console == nil {
		return nil
	}
	return r.console
}

func (r *RP2) TickHz() uint32 { return machine.CPUFrequency() }

func (r *RP2) ClaimCounter(dev string) (timex.Counter, error) {
	if err := r.claims.take(counterKey, dev); err != nil {
		return nil, err
	}
	return r.tick, nil
}

func (r *RP2) ReleaseCounter(dev string) { r.claims.release(counterKey, dev) }

func (r *RP2) ClaimI2C(dev, bus string, addr uint16) (drivers.I2C, error) {
	b := r.buses[bus]
	if b == nil {
		return nil, errcode.UnknownBus
	}
	if err := r.claims.take(i2cKey(bus, addr), dev); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *RP2) ReleaseI2C(dev, bus string, addr uint16) {
	r.claims.release(i2cKey(bus, addr), dev)
}

func (r *RP2) ClaimPin(dev string, n int) (Pin, error) {
	if n < r.board.GPIOMin || n > r.board.GPIOMax {
		return nil, errcode.UnknownPin
	}
	if err := r.claims.take(pinKey(n), dev); err != nil {
		return nil, err
	}
	p := machine.Pin(n)
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	p.Low()
	return p, nil
}

func (r *RP2) ReleasePin(dev string, n int) {
	if o, ok := r.claims.holder(pinKey(n)); !ok || o != dev {
		return
	}
	machine.Pin(n).Configure(machine.PinConfig{Mode: machine.PinInput})
	r.claims.release(pinKey(n), dev)
}

func (r *RP2) Close() error {
	r.tick.Stop()
	return nil
}
