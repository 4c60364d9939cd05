//go:build !tinygo

// Command envmon-host runs the humidity monitor on a Linux board through
// periph.io, or against simulated hardware.
//
//	envmon-host -board rpi -statsd 127.0.0.1:8125
//	envmon-host -sim -cycles 20 -log-level debug
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"envmon-go/drivers/lcd"
	"envmon-go/services/config"
	"envmon-go/services/hal"
	"envmon-go/services/monitor"
	"envmon-go/services/station"
	"envmon-go/services/telemetry"
	"envmon-go/x/logx"
)

type options struct {
	board    string
	file     string
	level    string
	sim      bool
	statsd   string
	cycles   int
	humanLog bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("envmon-host", flag.ContinueOnError)
	fs.StringVar(&o.board, "board", "rpi", "embedded board config")
	fs.StringVar(&o.file, "config", "", "JSON file overlaid on the board config")
	fs.StringVar(&o.level, "log-level", "", "debug, info, warn, error or off (default from config)")
	fs.BoolVar(&o.sim, "sim", false, "use simulated hardware")
	fs.StringVar(&o.statsd, "statsd", "", "DogStatsD address; empty disables metrics")
	fs.IntVar(&o.cycles, "cycles", 0, "stop after n cycles; 0 runs until interrupted")
	fs.BoolVar(&o.humanLog, "console", false, "human-readable log output")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.sim && o.board == "rpi" {
		o.board = "sim"
	}
	return o, nil
}

// loadConfig resolves the board config, applies the overlay file and the
// log level flag, and validates the result.
func loadConfig(o options) (config.Config, error) {
	cfg, err := config.Load(o.board)
	if err != nil {
		return cfg, err
	}
	if o.file != "" {
		raw, err := os.ReadFile(o.file)
		if err != nil {
			return cfg, err
		}
		if cfg, err = config.Overlay(cfg, raw); err != nil {
			return cfg, err
		}
	}
	if o.level != "" {
		cfg.LogLevel = o.level
	}
	if _, err := logx.ParseLevel(cfg.LogLevel); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	zl := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if o.humanLog {
		zl = zl.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg, err := loadConfig(o)
	if err != nil {
		zl.Fatal().Err(err).Str("board", o.board).Msg("Invalid configuration")
	}
	lvl, _ := logx.ParseLevel(cfg.LogLevel)
	zl = zl.Level(logx.ZerologLevel(lvl))
	log := logx.FromZerolog(zl).With("board", cfg.Board.Name)

	var (
		reg  hal.Registry
		opts station.Options
		obs  []monitor.Observer
	)
	if o.sim {
		reg = hal.NewSim(cfg, hal.SimOptions{})
		mem := lcd.NewMemory()
		opts.Display = mem
		obs = append(obs, monitor.ObserverFunc(func(monitor.Outcome) {
			log.Info("display", "row0", mem.Row(0), "row1", mem.Row(1))
		}))
	} else {
		p, err := hal.NewPeriph(cfg)
		if err != nil {
			zl.Fatal().Err(err).Msg("Failed to open hardware")
		}
		reg = p
	}
	defer reg.Close()

	st, err := station.Build(reg, cfg, log, opts)
	if err != nil {
		zl.Fatal().Err(err).Msg("Refusing to start on a partly claimed board")
	}
	defer st.Close()

	if o.statsd != "" {
		tags := append([]string{"board:" + cfg.Board.Name}, telemetry.SensorTags(st.Info)...)
		c, err := telemetry.Dial(o.statsd, "envmon.", tags)
		if err != nil {
			zl.Fatal().Err(err).Str("addr", o.statsd).Msg("Failed to create statsd client")
		}
		defer c.Close()
		obs = append(obs, telemetry.New(c, log))
	}

	mon := st.Monitor(obs...)
	if o.cycles > 0 {
		for i := 0; i < o.cycles; i++ {
			mon.Cycle()
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	_ = mon.Run(ctx)
}
