package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: board name (selected at build time or with -board on hosts)
// Val: raw JSON overlaid on Default()
// -----------------------------------------------------------------------------

// Raspberry Pi Pico: sensor on I2C1 (GP18/19, 400 kHz), display on I2C0
// (GP0/1, 100 kHz), console on UART1.
const cfgPico = `{
  "board": {
    "name": "pico",
    "gpio_min": 0,
    "gpio_max": 29,
    "i2c": [
      {"id": "i2c0", "sda": 0, "scl": 1, "hz": 100000},
      {"id": "i2c1", "sda": 18, "scl": 19, "hz": 400000}
    ],
    "console": {"id": "uart1", "tx": 8, "rx": 9, "baud": 115200},
    "bar_pins": [15, 14, 16, 13, 12],
    "fault_pin": 25
  },
  "sensor":  {"bus": "i2c1", "addr": 56, "settle_ms": 80},
  "display": {"bus": "i2c0", "addr": 39, "power_on_ms": 50}
}`

// Host simulation: the pico wiring with a faster cycle.
const cfgSim = `{
  "board": {
    "name": "sim",
    "gpio_min": 0,
    "gpio_max": 29,
    "i2c": [
      {"id": "i2c0", "sda": 0, "scl": 1, "hz": 100000},
      {"id": "i2c1", "sda": 18, "scl": 19, "hz": 400000}
    ],
    "bar_pins": [15, 14, 16, 13, 12],
    "fault_pin": 25
  },
  "tick_hz": 125000000,
  "sensor":  {"bus": "i2c1", "addr": 56},
  "display": {"bus": "i2c0", "addr": 39},
  "monitor": {"period_ms": 1000}
}`

// Raspberry Pi running Linux: both devices on /dev/i2c-1, BCM pin numbers.
const cfgRPi = `{
  "board": {
    "name": "rpi",
    "gpio_min": 2,
    "gpio_max": 27,
    "i2c": [{"id": "1"}],
    "bar_pins": [17, 27, 22, 23, 24],
    "fault_pin": 5
  },
  "tick_hz": 1000000,
  "sensor":  {"bus": "1", "addr": 56},
  "display": {"bus": "1", "addr": 39}
}`

var embeddedConfigs = map[string][]byte{
	"pico": []byte(cfgPico),
	"sim":  []byte(cfgSim),
	"rpi":  []byte(cfgRPi),
}
