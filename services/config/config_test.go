package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envmon-go/errcode"
)

func TestLoadEmbeddedBoards(t *testing.T) {
	for _, b := range Boards() {
		cfg, err := Load(b)
		require.NoError(t, err, b)
		assert.Equal(t, b, cfg.Board.Name)
	}
}

func TestPicoWiring(t *testing.T) {
	cfg, err := Load("pico")
	require.NoError(t, err)

	assert.Equal(t, [5]int{15, 14, 16, 13, 12}, cfg.Board.BarPins)
	assert.Equal(t, 25, cfg.Board.FaultPin)
	assert.Equal(t, []I2CBus{
		{ID: "i2c0", SDA: 0, SCL: 1, Hz: 100_000},
		{ID: "i2c1", SDA: 18, SCL: 19, Hz: 400_000},
	}, cfg.Board.I2C)
	assert.Equal(t, Sensor{Bus: "i2c1", Addr: 0x38, SettleMs: 80}, cfg.Sensor)
	assert.Equal(t, "i2c0", cfg.Display.Bus)
	assert.Equal(t, uint16(0x27), cfg.Display.Addr)

	// Defaults survive the overlay.
	assert.Equal(t, uint32(10_000), cfg.Monitor.PeriodMs)
	assert.Equal(t, "Current Humidity", cfg.Monitor.Title)
	assert.Equal(t, uint8(5), cfg.Monitor.ValueCol)
	assert.Equal(t, uint8(1), cfg.Monitor.ValueRow)
	assert.Equal(t, " %", cfg.Monitor.Unit)
	assert.Zero(t, cfg.TickHz)
}

func TestLoadUnknownBoard(t *testing.T) {
	_, err := Load("nope")
	assert.Equal(t, errcode.InvalidConfig, errcode.Of(err))
}

func TestLoadWithLookupOverride(t *testing.T) {
	old := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(string) ([]byte, bool) {
		return []byte(`{"board": {"name": "x", "gpio_max": 29, "i2c": [{"id": "a"}],
			"bar_pins": [1,2,3,4,5], "fault_pin": 6},
			"sensor": {"bus": "a"}, "display": {"bus": "a"}, "monitor": {"period_ms": 5}}`), true
	}
	t.Cleanup(func() { EmbeddedConfigLookup = old })

	cfg, err := Load("x")
	require.NoError(t, err)
	assert.Equal(t, uint32(5), cfg.Monitor.PeriodMs)
}

func TestOverlayRejectsUnknownKeys(t *testing.T) {
	_, err := Overlay(Default(), []byte(`{"sensro": {}}`))
	assert.Equal(t, errcode.InvalidConfig, errcode.Of(err))
}

func TestValidateReportsProblems(t *testing.T) {
	cfg, err := Load("pico")
	require.NoError(t, err)

	cfg.Board.BarPins[2] = 25 // fault LED
	cfg.Board.FaultPin = 40
	cfg.Sensor.Bus = "i2c7"
	cfg.Monitor.PeriodMs = 0
	cfg.Monitor.ValueRow = 2

	err = cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "fault pin 40 is outside the board range")
	assert.Contains(t, msg, `sensor bus "i2c7" is not configured`)
	assert.Contains(t, msg, "monitor.period_ms must be positive")
	assert.Contains(t, msg, "off screen")
	assert.Equal(t, errcode.InvalidConfig, errcode.Of(err))
}

func TestValidatePinConflict(t *testing.T) {
	cfg, err := Load("pico")
	require.NoError(t, err)
	cfg.Board.BarPins[0] = 18

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bar[0] and i2c1.sda both use pin 18")
}

func TestValidateSharedAddress(t *testing.T) {
	cfg, err := Load("rpi")
	require.NoError(t, err)
	cfg.Display.Addr = cfg.Sensor.Addr

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sensor and display share address 0x38")
}
