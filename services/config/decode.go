package config

import (
	"strings"

	"github.com/andreyvit/tinyjson"

	"envmon-go/errcode"
)

// Overlay decodes raw JSON on top of base. Keys absent from raw keep their
// base value; arrays replace the base array. Unknown keys, malformed JSON
// and out-of-range numbers are rejected with errcode.InvalidConfig.
func Overlay(base Config, raw []byte) (cfg Config, err error) {
	defer func() {
		if p := recover(); p != nil {
			cfg = Config{}
			err = &errcode.E{C: errcode.InvalidConfig, Op: "config.decode", Msg: panicText(p)}
		}
	}()
	r := tinyjson.Raw(raw)
	base.decodeJSON(&r)
	r.EnsureEOF()
	return base, nil
}

func panicText(p any) string {
	switch v := p.(type) {
	case string:
		return v
	case error:
		return v.Error()
	}
	return "invalid JSON"
}

func unknownKey(section, key string) {
	if section != "" {
		key = section + "." + key
	}
	panic("unknown key " + key)
}

// str copies the string out of the input buffer, which tinyjson aliases.
func str(r *tinyjson.Raw) string { return strings.Clone(r.Str()) }

func uintField(r *tinyjson.Raw, key string, max uint64) uint64 {
	v := r.Uint64()
	if v > max {
		panic(key + " out of range")
	}
	return v
}

func (c *Config) decodeJSON(r *tinyjson.Raw) {
	for key := r.StartObject(); key != nil; key = r.ContinueObject() {
		switch k := key.Str(); k {
		case "board":
			c.Board.decodeJSON(r)
		case "tick_hz":
			c.TickHz = uint32(uintField(r, k, 1<<32-1))
		case "sensor":
			c.Sensor.decodeJSON(r)
		case "display":
			c.Display.decodeJSON(r)
		case "monitor":
			c.Monitor.decodeJSON(r)
		case "log_level":
			c.LogLevel = str(r)
		default:
			unknownKey("", k)
		}
	}
}

func (b *Board) decodeJSON(r *tinyjson.Raw) {
	for key := r.StartObject(); key != nil; key = r.ContinueObject() {
		switch k := key.Str(); k {
		case "name":
			b.Name = str(r)
		case "gpio_min":
			b.GPIOMin = r.Int()
		case "gpio_max":
			b.GPIOMax = r.Int()
		case "i2c":
			b.I2C = nil
			for r.StartArray(); r.ContinueArray(); {
				var bus I2CBus
				bus.decodeJSON(r)
				b.I2C = append(b.I2C, bus)
			}
		case "console":
			b.Console.decodeJSON(r)
		case "bar_pins":
			i := 0
			for r.StartArray(); r.ContinueArray(); i++ {
				if i >= len(b.BarPins) {
					panic("board.bar_pins has more than 5 entries")
				}
				b.BarPins[i] = r.Int()
			}
		case "fault_pin":
			b.FaultPin = r.Int()
		default:
			unknownKey("board", k)
		}
	}
}

func (b *I2CBus) decodeJSON(r *tinyjson.Raw) {
	for key := r.StartObject(); key != nil; key = r.ContinueObject() {
		switch k := key.Str(); k {
		case "id":
			b.ID = str(r)
		case "sda":
			b.SDA = r.Int()
		case "scl":
			b.SCL = r.Int()
		case "hz":
			b.Hz = uint32(uintField(r, "i2c.hz", 1<<32-1))
		default:
			unknownKey("i2c", k)
		}
	}
}

func (u *UART) decodeJSON(r *tinyjson.Raw) {
	for key := r.StartObject(); key != nil; key = r.ContinueObject() {
		switch k := key.Str(); k {
		case "id":
			u.ID = str(r)
		case "tx":
			u.TX = r.Int()
		case "rx":
			u.RX = r.Int()
		case "baud":
			u.Baud = uint32(uintField(r, "console.baud", 1<<32-1))
		default:
			unknownKey("console", k)
		}
	}
}

func (s *Sensor) decodeJSON(r *tinyjson.Raw) {
	for key := r.StartObject(); key != nil; key = r.ContinueObject() {
		switch k := key.Str(); k {
		case "bus":
			s.Bus = str(r)
		case "addr":
			s.Addr = uint16(uintField(r, "sensor.addr", 0x7F))
		case "settle_ms":
			s.SettleMs = uint32(uintField(r, "sensor.settle_ms", 1<<32-1))
		default:
			unknownKey("sensor", k)
		}
	}
}

func (d *Display) decodeJSON(r *tinyjson.Raw) {
	for key := r.StartObject(); key != nil; key = r.ContinueObject() {
		switch k := key.Str(); k {
		case "bus":
			d.Bus = str(r)
		case "addr":
			d.Addr = uint16(uintField(r, "display.addr", 0x7F))
		case "power_on_ms":
			d.PowerOnMs = uint32(uintField(r, "display.power_on_ms", 1<<32-1))
		default:
			unknownKey("display", k)
		}
	}
}

func (m *Monitor) decodeJSON(r *tinyjson.Raw) {
	for key := r.StartObject(); key != nil; key = r.ContinueObject() {
		switch k := key.Str(); k {
		case "period_ms":
			m.PeriodMs = uint32(uintField(r, "monitor.period_ms", 1<<32-1))
		case "decimals":
			m.Decimals = uint32(uintField(r, "monitor.decimals", 1<<32-1))
		case "title":
			m.Title = str(r)
		case "value_col":
			m.ValueCol = uint8(uintField(r, "monitor.value_col", 0xFF))
		case "value_row":
			m.ValueRow = uint8(uintField(r, "monitor.value_row", 0xFF))
		case "unit":
			m.Unit = str(r)
		default:
			unknownKey("monitor", k)
		}
	}
}
