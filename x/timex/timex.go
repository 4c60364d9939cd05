// Package timex turns a single free-running hardware down-counter into a
// monotonic tick source (Clock) and hands out any number of independent
// busy-wait handles (Delay) that share it.
//
// The Clock is read-only after construction, so handles never coordinate:
// each one snapshots the counter on entry and spins until enough ticks have
// elapsed. Wrap-around is handled once, in Clock.Diff.
package timex

// Counter is a hardware down-counter such as the Cortex-M SysTick.
//
// Start reloads the counter with its maximum value, clears the current value
// and enables free-running countdown. Current returns the raw register value;
// only the low Bits() bits are significant.
type Counter interface {
	Start()
	Stop()
	Current() uint32
	Bits() uint8
}

// maskFor returns the all-ones value for a counter of the given width.
// Widths of 0 or above 32 are treated as 32.
func maskFor(bits uint8) uint32 {
	if bits == 0 || bits >= 32 {
		return ^uint32(0)
	}
	return uint32(1)<<bits - 1
}
