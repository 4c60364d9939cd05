package hal

import (
	"sync"

	"envmon-go/drivers/dht20"
	"envmon-go/types"
)

// SimDHT20 answers DHT20 bus traffic from a reading source. It starts
// uncalibrated, like a sensor after power-on.
type SimDHT20 struct {
	mu sync.Mutex

	source     func() types.Reading
	calibrated bool
	frame      dht20.Frame
	fail       []error

	calWrites int
	triggers  int
}

func NewSimDHT20(source func() types.Reading) *SimDHT20 {
	return &SimDHT20{source: source}
}

// FailNext makes the next len(errs) transactions fail in order.
func (s *SimDHT20) FailNext(errs ...error) {
	s.mu.Lock()
	s.fail = append(s.fail, errs...)
	s.mu.Unlock()
}

// Uncalibrate clears the calibration bits, as a brown-out would.
func (s *SimDHT20) Uncalibrate() {
	s.mu.Lock()
	s.calibrated = false
	s.mu.Unlock()
}

func (s *SimDHT20) Counts() (calWrites, triggers int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calWrites, s.triggers
}

func (s *SimDHT20) Tx(_ uint16, w, r []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.fail) > 0 {
		err := s.fail[0]
		s.fail = s.fail[1:]
		return err
	}
	if len(w) == 3 {
		switch w[0] {
		case 0x1B, 0x1C:
			s.calWrites++
		case 0x1E:
			s.calWrites++
			s.calibrated = true
		case 0xAC:
			s.triggers++
			s.frame = dht20.Encode(s.source())
			s.frame[0] = s.status()
		}
	}
	switch {
	case len(r) == 1:
		r[0] = s.status()
	case len(r) > 1:
		copy(r, s.frame[:])
	}
	return nil
}

func (s *SimDHT20) status() byte {
	if s.calibrated {
		return 0x18
	}
	return 0x00
}

// Sweep returns a source that walks humidity from 0 to 100 % in step
// increments and wraps, with a fixed temperature.
func Sweep(step, tempC float32) func() types.Reading {
	var h float32
	var mu sync.Mutex
	return func() types.Reading {
		mu.Lock()
		defer mu.Unlock()
		r := types.Reading{Temperature: tempC, Humidity: h}
		h += step
		if h > 100 {
			h -= 100
		}
		return r
	}
}
