// Package monitor runs the sample/display/gauge cycle.
//
// One cycle, strictly in order:
//
//	read sensor -> gauge -> display -> observers -> sleep period -> clear gauge
//
// A failed read or display write lights the fault indicator and the loop
// carries on; the next cycle retries from scratch.
package monitor

import (
	"context"

	"envmon-go/drivers/lcd"
	"envmon-go/drivers/ledbar"
	"envmon-go/services/config"
	"envmon-go/types"
	"envmon-go/x/logx"
	"envmon-go/x/mathx"
	"envmon-go/x/strconvx"
)

type Sensor interface {
	Read() (types.Reading, error)
}

// Gauge is the bar graph.
type Gauge interface {
	Update(humidity float32)
	Clear()
}

type Indicator interface {
	Set(on bool)
}

// Sleeper is the monitor's own delay handle.
type Sleeper interface {
	DelayMs(ms uint32)
}

type Observer interface {
	Observe(o Outcome)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Outcome)

func (f ObserverFunc) Observe(o Outcome) { f(o) }

type Config struct {
	PeriodMs uint32
	Decimals uint32
	Title    string
	ValueCol uint8
	ValueRow uint8
	Unit     string
	// LatchFault keeps the fault indicator lit after the first failure
	// instead of clearing it on the next clean cycle.
	LatchFault bool
}

func FromConfig(m config.Monitor) Config {
	return Config{
		PeriodMs: m.PeriodMs,
		Decimals: m.Decimals,
		Title:    m.Title,
		ValueCol: m.ValueCol,
		ValueRow: m.ValueRow,
		Unit:     m.Unit,
	}
}

type Deps struct {
	Sensor    Sensor
	Gauge     Gauge
	Display   lcd.Display
	Fault     Indicator
	Delay     Sleeper
	Logger    logx.Logger
	Observers []Observer
}

// Outcome describes one cycle.
type Outcome struct {
	Cycle      uint64
	Reading    types.Reading // zero when SensorErr is set
	Shown      float32       // rounded humidity on screen, FaultHumidity on error
	Text       string        // value text as printed
	Lit        int           // bar elements lit
	SensorErr  error
	DisplayErr error
}

func (o Outcome) Status() types.CycleStatus {
	st := types.CycleStatus{Sensor: types.LinkUp, Display: types.LinkUp}
	if o.SensorErr != nil {
		st.Sensor = types.LinkDown
		st.Error = o.SensorErr.Error()
	}
	if o.DisplayErr != nil {
		st.Display = types.LinkDown
		if st.Error == "" {
			st.Error = o.DisplayErr.Error()
		}
	}
	return st
}

type Monitor struct {
	cfg   Config
	d     Deps
	log   logx.Logger
	cycle uint64
	fault bool
}

func New(cfg Config, d Deps) *Monitor {
	return &Monitor{cfg: cfg, d: d, log: logx.OrNop(d.Logger)}
}

// Step runs the read, gauge, display and observer stages of one cycle.
func (m *Monitor) Step() Outcome {
	m.cycle++
	o := Outcome{Cycle: m.cycle}

	h := types.FaultHumidity
	r, err := m.d.Sensor.Read()
	if err != nil {
		o.SensorErr = err
		m.log.Error("sensor read failed", err, "cycle", m.cycle)
	} else {
		o.Reading = r
		h = r.Humidity
		m.d.Gauge.Update(h)
		o.Lit = ledbar.Level(h)
	}

	o.Shown = mathx.RoundToDecimal(h, m.cfg.Decimals)
	o.Text = strconvx.FormatFloat(float64(o.Shown), 'f', int(m.cfg.Decimals), 32)
	if err := m.show(o.Text); err != nil {
		o.DisplayErr = err
		m.log.Error("display update failed", err, "cycle", m.cycle)
	}

	m.setFault(o.SensorErr != nil || o.DisplayErr != nil)
	for _, obs := range m.d.Observers {
		obs.Observe(o)
	}
	return o
}

// Cycle runs Step, waits one period and clears the gauge.
func (m *Monitor) Cycle() Outcome {
	o := m.Step()
	m.d.Delay.DelayMs(m.cfg.PeriodMs)
	m.d.Gauge.Clear()
	return o
}

// Run cycles until ctx is done. Cancellation is only observed between
// cycles; a period in progress always completes.
func (m *Monitor) Run(ctx context.Context) error {
	m.log.Info("monitor started", "period_ms", m.cfg.PeriodMs)
	for {
		if err := ctx.Err(); err != nil {
			m.log.Info("monitor stopping", "cycles", m.cycle)
			return err
		}
		m.Cycle()
	}
}

func (m *Monitor) show(value string) error {
	d := m.d.Display
	if err := d.SetDisplay(true); err != nil {
		return err
	}
	if err := d.SetBacklight(true); err != nil {
		return err
	}
	if err := d.Clear(); err != nil {
		return err
	}
	if err := d.Print(m.cfg.Title); err != nil {
		return err
	}
	if err := d.SetCursor(m.cfg.ValueCol, m.cfg.ValueRow); err != nil {
		return err
	}
	if err := d.Print(value); err != nil {
		return err
	}
	return d.Print(m.cfg.Unit)
}

func (m *Monitor) setFault(failed bool) {
	switch {
	case failed:
		m.fault = true
	case m.cfg.LatchFault:
		return
	default:
		if !m.fault {
			return
		}
		m.fault = false
	}
	m.d.Fault.Set(m.fault)
}
