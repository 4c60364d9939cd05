// Package config holds the board wiring and monitor settings. Each board has
// an embedded JSON document overlaid on Default(); hosts may overlay a file
// on top of that.
package config

import (
	"sort"
	"strings"

	"envmon-go/errcode"
	"envmon-go/x/strconvx"
)

type I2CBus struct {
	ID  string `json:"id"`
	SDA int    `json:"sda"`
	SCL int    `json:"scl"`
	Hz  uint32 `json:"hz"` // 0 leaves the platform default
}

type UART struct {
	ID   string `json:"id"` // empty disables the console
	TX   int    `json:"tx"`
	RX   int    `json:"rx"`
	Baud uint32 `json:"baud"`
}

type Board struct {
	Name     string   `json:"name"`
	GPIOMin  int      `json:"gpio_min"`
	GPIOMax  int      `json:"gpio_max"`
	I2C      []I2CBus `json:"i2c"`
	Console  UART     `json:"console"`
	BarPins  [5]int   `json:"bar_pins"`
	FaultPin int      `json:"fault_pin"`
}

type Sensor struct {
	Bus      string `json:"bus"`
	Addr     uint16 `json:"addr"`
	SettleMs uint32 `json:"settle_ms"`
}

type Display struct {
	Bus       string `json:"bus"`
	Addr      uint16 `json:"addr"`
	PowerOnMs uint32 `json:"power_on_ms"`
}

type Monitor struct {
	PeriodMs uint32 `json:"period_ms"`
	Decimals uint32 `json:"decimals"`
	Title    string `json:"title"`
	ValueCol uint8  `json:"value_col"`
	ValueRow uint8  `json:"value_row"`
	Unit     string `json:"unit"`
}

type Config struct {
	Board    Board   `json:"board"`
	TickHz   uint32  `json:"tick_hz"` // 0 means the CPU clock
	Sensor   Sensor  `json:"sensor"`
	Display  Display `json:"display"`
	Monitor  Monitor `json:"monitor"`
	LogLevel string  `json:"log_level"`
}

const (
	maxDecimals = 6
	lcdCols     = 16
	lcdRows     = 2
)

// Default returns the settings shared by every board.
func Default() Config {
	return Config{
		Sensor:  Sensor{Addr: 0x38, SettleMs: 80},
		Display: Display{Addr: 0x27, PowerOnMs: 50},
		Monitor: Monitor{
			PeriodMs: 10_000,
			Decimals: 1,
			Title:    "Current Humidity",
			ValueCol: 5,
			ValueRow: 1,
			Unit:     " %",
		},
		LogLevel: "info",
	}
}

// EmbeddedConfigLookup allows overriding how board configs are resolved.
var EmbeddedConfigLookup = func(board string) ([]byte, bool) {
	b, ok := embeddedConfigs[board]
	return b, ok
}

// Boards lists the embedded board names.
func Boards() []string {
	out := make([]string, 0, len(embeddedConfigs))
	for k := range embeddedConfigs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Load resolves the embedded config for board, overlays it on Default and
// validates the result.
func Load(board string) (Config, error) {
	raw, ok := EmbeddedConfigLookup(board)
	if !ok || len(raw) == 0 {
		return Config{}, &errcode.E{C: errcode.InvalidConfig, Op: "config.load", Msg: "no embedded config for board " + board}
	}
	cfg, err := Overlay(Default(), raw)
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks wiring for missing buses and pin conflicts.
func (c *Config) Validate() error {
	var (
		problems []string
		usedPins = map[int]string{}
		buses    = map[string]bool{}
	)
	usePin := func(name string, pin int) {
		if pin < c.Board.GPIOMin || pin > c.Board.GPIOMax {
			problems = append(problems, name+" pin "+strconvx.Itoa(pin)+" is outside the board range")
			return
		}
		if other, exists := usedPins[pin]; exists {
			problems = append(problems, name+" and "+other+" both use pin "+strconvx.Itoa(pin))
			return
		}
		usedPins[pin] = name
	}

	for _, b := range c.Board.I2C {
		if b.ID == "" {
			problems = append(problems, "i2c bus without id")
			continue
		}
		if buses[b.ID] {
			problems = append(problems, "i2c bus "+b.ID+" listed twice")
		}
		buses[b.ID] = true
		// Linux buses are wired by the kernel.
		if b.SDA != 0 || b.SCL != 0 {
			usePin(b.ID+".sda", b.SDA)
			usePin(b.ID+".scl", b.SCL)
		}
	}
	if c.Board.Console.ID != "" {
		usePin("console.tx", c.Board.Console.TX)
		usePin("console.rx", c.Board.Console.RX)
	}
	for i, p := range c.Board.BarPins {
		usePin("bar["+strconvx.Itoa(i)+"]", p)
	}
	usePin("fault", c.Board.FaultPin)

	if !buses[c.Sensor.Bus] {
		problems = append(problems, "sensor bus "+quote(c.Sensor.Bus)+" is not configured")
	}
	if !buses[c.Display.Bus] {
		problems = append(problems, "display bus "+quote(c.Display.Bus)+" is not configured")
	}
	if c.Sensor.Bus == c.Display.Bus && c.Sensor.Addr == c.Display.Addr {
		problems = append(problems, "sensor and display share address 0x"+strconvx.FormatUint(uint64(c.Sensor.Addr), 16))
	}

	m := c.Monitor
	if m.PeriodMs == 0 {
		problems = append(problems, "monitor.period_ms must be positive")
	}
	if m.Decimals > maxDecimals {
		problems = append(problems, "monitor.decimals above "+strconvx.Itoa(maxDecimals))
	}
	if len(m.Title) > lcdCols {
		problems = append(problems, "monitor.title longer than the display")
	}
	if m.ValueRow >= lcdRows || m.ValueCol >= lcdCols {
		problems = append(problems, "monitor value position is off screen")
	}

	if len(problems) > 0 {
		return &errcode.E{C: errcode.InvalidConfig, Op: "config.validate", Msg: strings.Join(problems, "; ")}
	}
	return nil
}

func quote(s string) string { return `"` + s + `"` }
