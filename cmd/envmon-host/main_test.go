package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envmon-go/errcode"
)

func TestParseFlagsSimSelectsSimBoard(t *testing.T) {
	o, err := parseFlags([]string{"-sim", "-cycles", "3"})
	require.NoError(t, err)
	assert.Equal(t, "sim", o.board)
	assert.Equal(t, 3, o.cycles)

	o, err = parseFlags([]string{"-sim", "-board", "pico"})
	require.NoError(t, err)
	assert.Equal(t, "pico", o.board)
}

func TestLoadConfigOverlayAndLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"monitor":{"period_ms":2500}}`), 0o644))

	cfg, err := loadConfig(options{board: "sim", file: path, level: "debug"})
	require.NoError(t, err)
	assert.Equal(t, uint32(2500), cfg.Monitor.PeriodMs)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigRejects(t *testing.T) {
	_, err := loadConfig(options{board: "sim", level: "loud"})
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"monitor":{"period_ms":0}}`), 0o644))
	_, err = loadConfig(options{board: "sim", file: path})
	require.Error(t, err)
	assert.Equal(t, errcode.InvalidConfig, errcode.Of(err))

	_, err = loadConfig(options{board: "nope"})
	assert.Equal(t, errcode.InvalidConfig, errcode.Of(err))
}
