//go:build !linux && !tinygo

package hal

import (
	"envmon-go/errcode"
	"envmon-go/services/config"
)

// Periph is only available on Linux. Elsewhere NewPeriph always fails so
// host builds still link and can run against Sim.
type Periph struct{ Registry }

func NewPeriph(config.Config) (*Periph, error) {
	return nil, &errcode.E{C: errcode.Error, Op: "hal.periph", Msg: "periph requires linux"}
}
