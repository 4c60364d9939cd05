package monitor

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envmon-go/drivers/lcd"
	"envmon-go/types"
)

func TestBlinkCode(t *testing.T) {
	cases := []struct {
		h      float32
		blinks int
	}{
		{50, 1}, {10.1, 1}, {89.9, 1},
		{5, 2}, {0, 2},
		{95, 3}, {101, 3},
		{10, 4}, {90, 4}, {float32(math.NaN()), 4},
	}
	for _, c := range cases {
		n, solid := BlinkCode(types.Reading{Humidity: c.h}, nil)
		assert.False(t, solid)
		assert.Equal(t, c.blinks, n, "h=%v", c.h)
	}

	n, solid := BlinkCode(types.Reading{Humidity: 50}, errors.New("nack"))
	assert.True(t, solid)
	assert.Zero(t, n)
}

func TestBlink(t *testing.T) {
	r := &rec{}
	Blink(r, r, 2)
	assert.Equal(t, []string{
		"fault:true", "sleep:500", "fault:false", "sleep:500",
		"fault:true", "sleep:500", "fault:false", "sleep:500",
	}, r.log)
}

func TestLEDSweep(t *testing.T) {
	r := &rec{}
	LEDSweep(r, r)
	require.Len(t, r.log, 4*len(SweepLevels))
	assert.Equal(t, []string{"gauge:10", "sleep:500", "gauge:clear", "sleep:500"}, r.log[:4])
	assert.Equal(t, "gauge:90", r.log[16])
}

func TestSensorCheck(t *testing.T) {
	r := &rec{readings: []types.Reading{{Humidity: 95}}}
	_, n, err := SensorCheck(r, r, r)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "sleep:15000", r.log[len(r.log)-1])

	r = &rec{errs: []error{errors.New("timeout")}}
	_, _, err = SensorCheck(r, r, r)
	require.Error(t, err)
	assert.Equal(t, []string{"read", "fault:true", "sleep:15000"}, r.log)
}

func TestLCDCheck(t *testing.T) {
	m := lcd.NewMemory()
	require.NoError(t, LCDCheck(m))
	assert.Equal(t, "Testing         ", m.Row(0))
	assert.Equal(t, "55.3 %          ", m.Row(1))
	assert.True(t, m.Lit())
}

func TestCheckAll(t *testing.T) {
	r, deps := newRec()
	screen := lcd.NewMemory()
	deps.Display = screen
	r.readings = []types.Reading{{Humidity: 50}}

	require.NoError(t, CheckAll(deps))
	assert.Equal(t, "Test: LEDs      ", screen.Row(0))
	assert.Contains(t, r.log, "gauge:90")
	assert.Contains(t, r.log, "fault:true")

	screen.FailWith(errors.New("gone"))
	assert.Error(t, CheckAll(deps))
}
