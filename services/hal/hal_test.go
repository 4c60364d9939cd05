package hal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envmon-go/drivers/dht20"
	"envmon-go/drivers/systick"
	"envmon-go/errcode"
	"envmon-go/services/config"
	"envmon-go/types"
	"envmon-go/x/timex"
)

func simConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load("sim")
	require.NoError(t, err)
	return cfg
}

func TestClaimKeys(t *testing.T) {
	assert.Equal(t, "i2c:i2c1@0x38", i2cKey("i2c1", 0x38))
	assert.Equal(t, "i2c:1@0x27", i2cKey("1", 0x27))
	assert.Equal(t, "gpio25", pinKey(25))
}

func TestClaimsTakeOnce(t *testing.T) {
	c := newClaims()
	require.NoError(t, c.take("gpio25", "fault"))

	err := c.take("gpio25", "bar")
	require.Error(t, err)
	assert.Equal(t, errcode.InUse, errcode.Of(err))
	assert.Contains(t, err.Error(), "gpio25 held by fault")

	c.release("gpio25", "bar") // not the holder
	o, ok := c.holder("gpio25")
	assert.True(t, ok)
	assert.Equal(t, "fault", o)

	c.release("gpio25", "fault")
	assert.NoError(t, c.take("gpio25", "bar"))
}

func TestSimCounterClaimedOnce(t *testing.T) {
	ctr := systick.NewSim(systick.Bits, 1)
	r := NewSim(simConfig(t), SimOptions{Counter: ctr, TickHz: 1_000_000})
	assert.Equal(t, uint32(1_000_000), r.TickHz())

	got, err := r.ClaimCounter("clock")
	require.NoError(t, err)
	assert.Same(t, ctr, got)

	_, err = r.ClaimCounter("second-clock")
	assert.Equal(t, errcode.InUse, errcode.Of(err))

	r.ReleaseCounter("clock")
	_, err = r.ClaimCounter("second-clock")
	assert.NoError(t, err)
}

func TestSimI2CClaims(t *testing.T) {
	r := NewSim(simConfig(t), SimOptions{})

	_, err := r.ClaimI2C("x", "i2c9", 0x38)
	assert.Equal(t, errcode.UnknownBus, errcode.Of(err))

	_, err = r.ClaimI2C("sensor", "i2c1", 0x38)
	require.NoError(t, err)
	_, err = r.ClaimI2C("other", "i2c1", 0x38)
	assert.Equal(t, errcode.InUse, errcode.Of(err))

	// Different address on the same bus is fine.
	bus, err := r.ClaimI2C("probe", "i2c1", 0x40)
	require.NoError(t, err)
	err = bus.Tx(0x40, []byte{0}, nil)
	assert.Equal(t, errcode.Nack, errcode.MapDriverErr(err), "nothing lives at 0x40")
}

func TestSimPins(t *testing.T) {
	r := NewSim(simConfig(t), SimOptions{})

	_, err := r.ClaimPin("bar", 99)
	assert.Equal(t, errcode.UnknownPin, errcode.Of(err))

	p, err := r.ClaimPin("fault", 25)
	require.NoError(t, err)
	p.Set(true)
	assert.True(t, r.Pin(25).High())

	_, err = r.ClaimPin("bar", 25)
	assert.Equal(t, errcode.InUse, errcode.Of(err))

	r.ReleasePin("fault", 25)
	_, err = r.ClaimPin("bar", 25)
	require.NoError(t, err)
	assert.False(t, r.Pin(25).High(), "claim drives the pin low")
	assert.NoError(t, r.Close())
}

type countingDelay struct{ ms []uint32 }

func (d *countingDelay) DelayMs(ms uint32) { d.ms = append(d.ms, ms) }

func TestSimSensorWithDriver(t *testing.T) {
	cfg := simConfig(t)
	sensor := NewSimDHT20(func() types.Reading { return types.Reading{Temperature: 23.4, Humidity: 56.7} })
	r := NewSim(cfg, SimOptions{Sensor: sensor})

	bus, err := r.ClaimI2C("dht20", cfg.Sensor.Bus, cfg.Sensor.Addr)
	require.NoError(t, err)
	var dl countingDelay
	dev := dht20.New(bus, &dl)

	got, err := dev.Read()
	require.NoError(t, err)
	assert.InDelta(t, 56.7, got.Humidity, 1e-3)
	assert.InDelta(t, 23.4, got.Temperature, 1e-3)
	cal, trig := sensor.Counts()
	assert.Equal(t, 3, cal, "first read calibrates")
	assert.Equal(t, 1, trig)

	_, err = dev.Read()
	require.NoError(t, err)
	cal, _ = sensor.Counts()
	assert.Equal(t, 3, cal, "already calibrated")

	sensor.Uncalibrate()
	_, err = dev.Read()
	require.NoError(t, err)
	cal, _ = sensor.Counts()
	assert.Equal(t, 6, cal)

	sensor.FailNext(errors.New("I2C timeout"))
	_, err = dev.Read()
	assert.Equal(t, errcode.Timeout, errcode.Of(err))
	assert.Equal(t, []uint32{80, 80, 80}, dl.ms)
}

func TestSimDisplayBackpackAcks(t *testing.T) {
	cfg := simConfig(t)
	r := NewSim(cfg, SimOptions{})
	bus, err := r.ClaimI2C("lcd", cfg.Display.Bus, cfg.Display.Addr)
	require.NoError(t, err)
	assert.NoError(t, bus.Tx(cfg.Display.Addr, []byte{0x08}, nil))
}

func TestSweep(t *testing.T) {
	src := Sweep(40, 20)
	var hs []float32
	for i := 0; i < 4; i++ {
		hs = append(hs, src().Humidity)
	}
	assert.Equal(t, []float32{0, 40, 80, 20}, hs)
}

func TestDefaultSimCounterDrivesClock(t *testing.T) {
	r := NewSim(simConfig(t), SimOptions{TickHz: 1_000_000})
	ctr, err := r.ClaimCounter("clock")
	require.NoError(t, err)
	clk := timex.NewClock(ctr, r.TickHz())
	d := timex.NewDelay(clk)

	start := clk.Now()
	d.DelayMs(2)
	assert.GreaterOrEqual(t, clk.Since(start), uint32(2000))
	clk.Release()
}
