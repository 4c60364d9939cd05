//go:build linux && !tinygo

package hal

import (
	"errors"
	"strconv"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
	"tinygo.org/x/drivers"

	"envmon-go/drivers/systick"
	"envmon-go/errcode"
	"envmon-go/services/config"
	"envmon-go/x/timex"
)

// Periph runs the monitor on a Linux SBC: I2C through /dev/i2c-N and GPIO
// through the periph.io host drivers. The clock counter is emulated.
type Periph struct {
	board  config.Board
	claims *claims

	counter *systick.Host
	hz      uint32

	closers []i2c.BusCloser
	buses   map[string]*sharedBus
}

var _ Registry = (*Periph)(nil)

func NewPeriph(cfg config.Config) (*Periph, error) {
	if _, err := host.Init(); err != nil {
		return nil, errcode.Wrap("hal.periph.init", err)
	}
	hz := cfg.TickHz
	if hz == 0 {
		hz = 1_000_000
	}
	p := &Periph{
		board:   cfg.Board,
		claims:  newClaims(),
		counter: systick.NewHost(hz, 32),
		hz:      hz,
		buses:   make(map[string]*sharedBus),
	}
	for _, b := range cfg.Board.I2C {
		bc, err := i2creg.Open(b.ID)
		if err != nil {
			_ = p.Close()
			return nil, &errcode.E{C: errcode.UnknownBus, Op: "hal.periph", Msg: b.ID, Err: err}
		}
		p.closers = append(p.closers, bc)
		if b.Hz != 0 {
			if err := bc.SetSpeed(physic.Frequency(b.Hz) * physic.Hertz); err != nil {
				_ = p.Close()
				return nil, errcode.Wrap("hal.periph."+b.ID, err)
			}
		}
		p.buses[b.ID] = &sharedBus{bus: bc}
	}
	return p, nil
}

func (p *Periph) TickHz() uint32 { return p.hz }

func (p *Periph) ClaimCounter(dev string) (timex.Counter, error) {
	if err := p.claims.take(counterKey, dev); err != nil {
		return nil, err
	}
	return p.counter, nil
}

func (p *Periph) ReleaseCounter(dev string) { p.claims.release(counterKey, dev) }

func (p *Periph) ClaimI2C(dev, bus string, addr uint16) (drivers.I2C, error) {
	b := p.buses[bus]
	if b == nil {
		return nil, errcode.UnknownBus
	}
	if err := p.claims.take(i2cKey(bus, addr), dev); err != nil {
		return nil, err
	}
	return b, nil
}

func (p *Periph) ReleaseI2C(dev, bus string, addr uint16) {
	p.claims.release(i2cKey(bus, addr), dev)
}

func (p *Periph) ClaimPin(dev string, n int) (Pin, error) {
	if n < p.board.GPIOMin || n > p.board.GPIOMax {
		return nil, errcode.UnknownPin
	}
	pin := gpioreg.ByName("GPIO" + strconv.Itoa(n))
	if pin == nil {
		return nil, errcode.UnknownPin
	}
	if err := p.claims.take(pinKey(n), dev); err != nil {
		return nil, err
	}
	if err := pin.Out(gpio.Low); err != nil {
		p.claims.release(pinKey(n), dev)
		return nil, errcode.Wrap("hal.periph.gpio", err)
	}
	return periphPin{pin}, nil
}

func (p *Periph) ReleasePin(dev string, n int) {
	if o, ok := p.claims.holder(pinKey(n)); !ok || o != dev {
		return
	}
	if pin := gpioreg.ByName("GPIO" + strconv.Itoa(n)); pin != nil {
		_ = pin.In(gpio.PullNoChange, gpio.NoEdge)
	}
	p.claims.release(pinKey(n), dev)
}

func (p *Periph) Close() error {
	var errs []error
	for _, c := range p.closers {
		errs = append(errs, c.Close())
	}
	p.closers = nil
	return errors.Join(errs...)
}

// periphPin drops write errors; Pin.Set has no error result.
type periphPin struct{ p gpio.PinIO }

func (pp periphPin) Set(high bool) { _ = pp.p.Out(gpio.Level(high)) }
