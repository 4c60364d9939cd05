package hal

import (
	"errors"
	"sync"

	"tinygo.org/x/drivers"

	"envmon-go/drivers/systick"
	"envmon-go/errcode"
	"envmon-go/services/config"
	"envmon-go/x/timex"
)

var errSimNack = errors.New("sim i2c: address nack")

const defaultSimHz = 125_000_000

type SimOptions struct {
	// Counter defaults to a host-emulated 24-bit SysTick at TickHz.
	Counter timex.Counter
	// TickHz defaults to cfg.TickHz, then 125 MHz.
	TickHz uint32
	// Sensor defaults to a sweep from 0 % in 7.5 % steps at 21.5 °C.
	Sensor *SimDHT20
}

// Sim is a Registry backed by simulated hardware: a DHT20 at the sensor
// address, an acknowledging display backpack and recording pins.
type Sim struct {
	board  config.Board
	claims *claims

	counter timex.Counter
	hz      uint32
	sensor  *SimDHT20

	buses map[string]*sharedBus
	mu    sync.Mutex
	pins  map[int]*SimPin
}

var _ Registry = (*Sim)(nil)

func NewSim(cfg config.Config, opts SimOptions) *Sim {
	hz := opts.TickHz
	if hz == 0 {
		hz = cfg.TickHz
	}
	if hz == 0 {
		hz = defaultSimHz
	}
	if opts.Counter == nil {
		opts.Counter = systick.NewHost(hz, systick.Bits)
	}
	if opts.Sensor == nil {
		opts.Sensor = NewSimDHT20(Sweep(7.5, 21.5))
	}
	s := &Sim{
		board:   cfg.Board,
		claims:  newClaims(),
		counter: opts.Counter,
		hz:      hz,
		sensor:  opts.Sensor,
		buses:   make(map[string]*sharedBus),
		pins:    make(map[int]*SimPin),
	}
	for _, b := range cfg.Board.I2C {
		sb := simBus{}
		if b.ID == cfg.Sensor.Bus {
			sb[cfg.Sensor.Addr] = s.sensor
		}
		if b.ID == cfg.Display.Bus {
			sb[cfg.Display.Addr] = backpack{}
		}
		s.buses[b.ID] = &sharedBus{bus: sb}
	}
	return s
}

func (s *Sim) Sensor() *SimDHT20 { return s.sensor }

// Pin returns the simulated pin n, creating it if needed.
func (s *Sim) Pin(n int) *SimPin {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.pins[n]
	if p == nil {
		p = &SimPin{}
		s.pins[n] = p
	}
	return p
}

func (s *Sim) TickHz() uint32 { return s.hz }

func (s *Sim) ClaimCounter(dev string) (timex.Counter, error) {
	if err := s.claims.take(counterKey, dev); err != nil {
		return nil, err
	}
	return s.counter, nil
}

func (s *Sim) ReleaseCounter(dev string) { s.claims.release(counterKey, dev) }

func (s *Sim) ClaimI2C(dev, bus string, addr uint16) (drivers.I2C, error) {
	b := s.buses[bus]
	if b == nil {
		return nil, errcode.UnknownBus
	}
	if err := s.claims.take(i2cKey(bus, addr), dev); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Sim) ReleaseI2C(dev, bus string, addr uint16) {
	s.claims.release(i2cKey(bus, addr), dev)
}

func (s *Sim) ClaimPin(dev string, n int) (Pin, error) {
	if n < s.board.GPIOMin || n > s.board.GPIOMax {
		return nil, errcode.UnknownPin
	}
	if err := s.claims.take(pinKey(n), dev); err != nil {
		return nil, err
	}
	p := s.Pin(n)
	p.Set(false)
	return p, nil
}

func (s *Sim) ReleasePin(dev string, n int) { s.claims.release(pinKey(n), dev) }

func (s *Sim) Close() error { return nil }

// simBus routes transactions by address; absent devices do not acknowledge.
// It is built once and only read afterwards.
type simBus map[uint16]drivers.I2C

func (b simBus) Tx(addr uint16, w, r []byte) error {
	d := b[addr]
	if d == nil {
		return errSimNack
	}
	return d.Tx(addr, w, r)
}

// backpack acknowledges PCF8574 writes and reads back zeros.
type backpack struct{}

func (backpack) Tx(_ uint16, _, r []byte) error {
	for i := range r {
		r[i] = 0
	}
	return nil
}

// SimPin records the level it was last driven to.
type SimPin struct {
	mu   sync.Mutex
	high bool
	sets int
}

func (p *SimPin) Set(high bool) {
	p.mu.Lock()
	p.high = high
	p.sets++
	p.mu.Unlock()
}

func (p *SimPin) High() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.high
}

func (p *SimPin) Sets() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sets
}
