// Package station claims the board resources named in a config and builds
// the drivers the monitor runs on.
package station

import (
	"envmon-go/drivers/dht20"
	"envmon-go/drivers/lcd"
	"envmon-go/drivers/ledbar"
	"envmon-go/services/config"
	"envmon-go/services/hal"
	"envmon-go/services/monitor"
	"envmon-go/types"
	"envmon-go/x/logx"
	"envmon-go/x/timex"
)

// Device names used for claims.
const (
	devClock  = "clock"
	devSensor = "dht20"
	devLCD    = "lcd"
	devBar    = "ledbar"
	devFault  = "fault"
)

// Station is a fully claimed and configured set of peripherals.
type Station struct {
	reg hal.Registry
	cfg config.Config
	log logx.Logger

	Clock   *timex.Clock
	Sensor  *dht20.Device
	Info    types.SensorInfo
	Display lcd.Display
	Bar     *ledbar.Bar
	Fault   *ledbar.Fault
	// Loop is the monitor's own delay handle. The sensor and display hold
	// separate handles on the same clock.
	Loop timex.Delay

	release []func()
}

// Options override parts of the assembly. The zero value builds everything
// from the registry.
type Options struct {
	// Display replaces the I2C character display, e.g. with lcd.Memory.
	Display lcd.Display
}

// Build claims the counter, both I2C devices and all LED pins, in that
// order. Any failed claim releases what was already taken and returns the
// error; nothing runs on a partly claimed board.
func Build(reg hal.Registry, cfg config.Config, log logx.Logger, opts Options) (*Station, error) {
	s := &Station{reg: reg, cfg: cfg, log: logx.OrNop(log)}
	if err := s.build(opts); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Station) build(opts Options) error {
	ctr, err := s.reg.ClaimCounter(devClock)
	if err != nil {
		return s.fail("counter", err)
	}
	s.release = append(s.release, func() { s.reg.ReleaseCounter(devClock) })

	hz := s.reg.TickHz()
	s.Clock = timex.NewClock(ctr, hz)
	s.release = append(s.release, func() { s.Clock.Release() })
	s.Loop = timex.NewDelay(s.Clock)

	sc := s.cfg.Sensor
	sbus, err := s.reg.ClaimI2C(devSensor, sc.Bus, sc.Addr)
	if err != nil {
		return s.fail("sensor bus", err)
	}
	s.release = append(s.release, func() { s.reg.ReleaseI2C(devSensor, sc.Bus, sc.Addr) })
	s.Info = types.SensorInfo{Sensor: devSensor, Addr: sc.Addr, Bus: sc.Bus}
	s.Sensor = dht20.New(sbus, timex.NewDelay(s.Clock))
	s.Sensor.Configure(dht20.Config{
		Address:  sc.Addr,
		SettleMs: sc.SettleMs,
		Logger:   s.log.With("dev", devSensor),
	})

	if opts.Display != nil {
		s.Display = opts.Display
	} else {
		dc := s.cfg.Display
		dbus, err := s.reg.ClaimI2C(devLCD, dc.Bus, dc.Addr)
		if err != nil {
			return s.fail("display bus", err)
		}
		s.release = append(s.release, func() { s.reg.ReleaseI2C(devLCD, dc.Bus, dc.Addr) })
		d := lcd.New(dbus, timex.NewDelay(s.Clock))
		if err := d.Configure(lcd.Config{Address: uint8(dc.Addr), PowerOnMs: dc.PowerOnMs}); err != nil {
			// A dead display is reported every cycle by the monitor.
			s.log.Error("display configure failed", err)
		}
		s.Display = d
	}

	var pins [ledbar.Size]ledbar.Pin
	for i, n := range s.cfg.Board.BarPins {
		p, err := s.claimPin(devBar, n)
		if err != nil {
			return s.fail("bar pin", err)
		}
		pins[i] = p
	}
	s.Bar = ledbar.New(pins)

	fp, err := s.claimPin(devFault, s.cfg.Board.FaultPin)
	if err != nil {
		return s.fail("fault pin", err)
	}
	s.Fault = ledbar.NewFault(fp)

	s.log.Info("station ready",
		"board", s.cfg.Board.Name,
		"tick_hz", hz,
		"counter_bits", s.Clock.Bits(),
		"sensor", s.Info.Sensor,
		"sensor_bus", s.Info.Bus,
		"sensor_addr", s.Info.Addr)
	return nil
}

func (s *Station) claimPin(dev string, n int) (hal.Pin, error) {
	p, err := s.reg.ClaimPin(dev, n)
	if err != nil {
		return nil, err
	}
	s.release = append(s.release, func() { s.reg.ReleasePin(dev, n) })
	return p, nil
}

func (s *Station) fail(what string, err error) error {
	s.log.Error("claim failed", err, "resource", what)
	return err
}

// Deps returns the monitor collaborators backed by this station.
func (s *Station) Deps(obs ...monitor.Observer) monitor.Deps {
	return monitor.Deps{
		Sensor:    s.Sensor,
		Gauge:     s.Bar,
		Display:   s.Display,
		Fault:     s.Fault,
		Delay:     s.Loop,
		Logger:    s.log,
		Observers: obs,
	}
}

// Monitor builds a monitor over the station using the config's settings.
func (s *Station) Monitor(obs ...monitor.Observer) *monitor.Monitor {
	return monitor.New(monitor.FromConfig(s.cfg.Monitor), s.Deps(obs...))
}

// Close turns the LEDs off and releases every claim in reverse order.
func (s *Station) Close() {
	if s.Bar != nil {
		s.Bar.Clear()
	}
	if s.Fault != nil {
		s.Fault.Set(false)
	}
	for i := len(s.release) - 1; i >= 0; i-- {
		s.release[i]()
	}
	s.release = nil
}
