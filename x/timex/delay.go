package timex

import "time"

// Millis is any unsigned millisecond argument accepted by DelayMsN.
type Millis interface {
	~uint8 | ~uint16 | ~uint32
}

// Delay is a busy-wait handle bound to a Clock. It holds no state of its
// own, so any number of handles (and copies) can wait concurrently or nest.
// The zero Delay is unusable.
type Delay struct {
	clk *Clock
}

func NewDelay(c *Clock) Delay { return Delay{clk: c} }

// Clock returns the clock the handle waits on.
func (d Delay) Clock() *Clock { return d.clk }

// Ticks returns the wait length for ms milliseconds. The per-millisecond
// factor is tickHz/1000 truncated, so tick rates that are not a multiple of
// 1 kHz wait slightly less than the nominal time.
func (d Delay) Ticks(ms uint32) uint64 {
	return uint64(ms) * uint64(d.clk.hz/1000)
}

// DelayMs blocks for at least ms milliseconds. Zero returns immediately.
func (d Delay) DelayMs(ms uint32) { d.spin(d.Ticks(ms)) }

func (d Delay) DelayMs16(ms uint16) { d.DelayMs(uint32(ms)) }
func (d Delay) DelayMs8(ms uint8)   { d.DelayMs(uint32(ms)) }

// DelayMsN is DelayMs for any of the unsigned widths.
func DelayMsN[T Millis](d Delay, ms T) { d.DelayMs(uint32(ms)) }

// DelayUs blocks for at least us microseconds (tickHz/1e6 ticks each).
func (d Delay) DelayUs(us uint32) {
	d.spin(uint64(us) * uint64(d.clk.hz/1_000_000))
}

// DelayNs blocks for ns nanoseconds, truncated to whole microseconds.
func (d Delay) DelayNs(ns uint32) {
	d.spin(uint64(ns/1000) * uint64(d.clk.hz/1_000_000))
}

// Sleep adapts Delay to code written against time.Duration.
func (d Delay) Sleep(dur time.Duration) {
	if dur <= 0 {
		return
	}
	hz := uint64(d.clk.hz)
	ms := uint64(dur / time.Millisecond)
	rem := uint64(dur % time.Millisecond)
	d.spin(ms*(hz/1000) + rem*hz/uint64(time.Second))
}

// spin waits until ticks have elapsed. Elapsed time is accumulated between
// consecutive polls, so a wait may span any number of counter wraps provided
// no two polls are a full period apart.
func (d Delay) spin(ticks uint64) {
	if ticks == 0 {
		return
	}
	c := d.clk
	last := c.Now()
	var elapsed uint64
	for elapsed < ticks {
		now := c.Now()
		elapsed += uint64(c.Diff(now, last))
		last = now
	}
}
