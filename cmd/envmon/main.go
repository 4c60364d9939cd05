//go:build rp2040 || rp2350

// Command envmon is the humidity monitor firmware.
//
//	tinygo flash -target pico ./cmd/envmon
//	tinygo flash -target pico -ldflags "-X main.board=pico" ./cmd/envmon
package main

import (
	"context"
	"io"
	"os"
	"time"

	"envmon-go/services/config"
	"envmon-go/services/hal"
	"envmon-go/services/station"
	"envmon-go/x/logx"
)

var board = "pico"

func main() {
	// Give a USB console time to attach.
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
	lvl, err := logx.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = logx.InfoLevel
	}
	log := logx.New(out, lvl).With("board", cfg.Board.Name)

	st, err := station.Build(reg, cfg, log, station.Options{})
	if err != nil {
		log.Error("boot failed", err)
		halt()
	}
	_ = st.Monitor().Run(context.Background())
}

// halt parks the CPU after a boot failure. The loop never starts on a
// partly claimed board.
func halt() {
	for {
		time.Sleep(time.Hour)
	}
}
