package systick

import (
	"sync"
	"time"
)

// Host emulates a free-running down-counter from the Go monotonic clock.
// It stands in for SysTick when the firmware runs on a development machine.
type Host struct {
	hz   uint32
	bits uint8
	mask uint32

	mu    sync.Mutex
	epoch time.Time
	on    bool
}

// NewHost returns a counter ticking at hz with the given register width.
func NewHost(hz uint32, bits uint8) *Host {
	if bits == 0 || bits > 32 {
		bits = 32
	}
	mask := ^uint32(0)
	if bits < 32 {
		mask = uint32(1)<<bits - 1
	}
	return &Host{hz: hz, bits: bits, mask: mask}
}

func (h *Host) Start() {
	h.mu.Lock()
	h.epoch = time.Now()
	h.on = true
	h.mu.Unlock()
}

func (h *Host) Stop() {
	h.mu.Lock()
	h.on = false
	h.mu.Unlock()
}

func (h *Host) Current() uint32 {
	h.mu.Lock()
	on, epoch := h.on, h.epoch
	h.mu.Unlock()
	if !on {
		return h.mask
	}
	el := uint64(time.Since(epoch))
	sec, ns := el/uint64(time.Second), el%uint64(time.Second)
	ticks := sec*uint64(h.hz) + ns*uint64(h.hz)/uint64(time.Second)
	return h.mask - uint32(ticks)&h.mask
}

func (h *Host) Bits() uint8 { return h.bits }
