package systick

import "sync/atomic"

// Sim is a deterministic down-counter. Every Current call returns the
// present value and then decrements it by Step, wrapping at the register
// width. It is safe for concurrent readers.
type Sim struct {
	bits uint8
	mask uint32
	step uint32

	val   atomic.Uint32
	on    atomic.Bool
	reads atomic.Uint64

	// OnRead, if set before use, is called after every read with the raw
	// value returned. Tests use it to interleave work with a busy-wait.
	OnRead func(raw uint32)
}

func NewSim(bits uint8, step uint32) *Sim {
	if bits == 0 || bits > 32 {
		bits = 32
	}
	mask := ^uint32(0)
	if bits < 32 {
		mask = uint32(1)<<bits - 1
	}
	s := &Sim{bits: bits, mask: mask, step: step}
	s.val.Store(mask)
	return s
}

func (s *Sim) Start() {
	s.val.Store(s.mask)
	s.on.Store(true)
}

func (s *Sim) Stop() { s.on.Store(false) }

func (s *Sim) Running() bool { return s.on.Load() }

func (s *Sim) Current() uint32 {
	var raw uint32
	if !s.on.Load() {
		raw = s.val.Load()
	} else {
		for {
			raw = s.val.Load()
			if s.val.CompareAndSwap(raw, (raw-s.step)&s.mask) {
				break
			}
		}
	}
	s.reads.Add(1)
	if s.OnRead != nil {
		s.OnRead(raw)
	}
	return raw
}

func (s *Sim) Bits() uint8 { return s.bits }

// Set forces the raw register value.
func (s *Sim) Set(raw uint32) { s.val.Store(raw & s.mask) }

// Advance moves the counter forward by ticks without a read.
func (s *Sim) Advance(ticks uint32) {
	for {
		raw := s.val.Load()
		if s.val.CompareAndSwap(raw, (raw-ticks)&s.mask) {
			return
		}
	}
}

// Reads returns the number of Current calls so far.
func (s *Sim) Reads() uint64 { return s.reads.Load() }
