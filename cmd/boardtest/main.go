//go:build rp2040 || rp2350

// Command boardtest exercises one part of the board at a time.
//
//	tinygo flash -target pico -ldflags "-X main.mode=leds" ./cmd/boardtest
//
// Modes: leds, sensor, lcd, all.
package main

import (
	"io"
	"os"
	"time"

	"envmon-go/services/config"
	"envmon-go/services/hal"
	"envmon-go/services/monitor"
	"envmon-go/services/station"
	"envmon-go/x/logx"
)

var (
	mode  = "all"
	board = "pico"
)

func main() {
	time.Sleep(2 * time.Second)

	cfg, err := config.Load(board)
	if err != nil {
		println("Error: config:", err.Error())
		halt()
	}
	reg, err := hal.NewRP2(cfg.Board)
	if err != nil {
		println("Error: hal:", err.Error())
		halt()
	}
	var out io.Writer = os.Stdout
	if w := reg.Console(); w != nil {
		out = w
	}
	log := logx.New(out, logx.DebugLevel).With("mode", mode)

	st, err := station.Build(reg, cfg, log, station.Options{})
	if err != nil {
		log.Error("boot failed", err)
		halt()
	}
	d := st.Deps()
	log.Info("boardtest started")

	switch mode {
	case "leds":
		for {
			monitor.LEDSweep(d.Gauge, d.Delay)
		}
	case "sensor":
		for {
			r, n, err := monitor.SensorCheck(d.Sensor, d.Fault, d.Delay)
			if err != nil {
				log.Error("sensor read failed", err)
				continue
			}
			log.Info("sensor", "humidity", r.Humidity, "temperature", r.Temperature, "blinks", n)
		}
	case "lcd":
		if err := monitor.LCDCheck(d.Display); err != nil {
			log.Error("lcd test failed", err)
			d.Fault.Set(true)
		}
		halt()
	case "all":
		for {
			if err := monitor.CheckAll(d); err != nil {
				log.Error("display failed", err)
				d.Fault.Set(true)
				d.Delay.DelayMs(1000)
			}
		}
	default:
		log.Warn("unknown mode")
		halt()
	}
}

func halt() {
	for {
		time.Sleep(time.Hour)
	}
}
