// Package systick provides down-counter sources for timex.Clock: the
// Cortex-M SysTick register on RP2 targets, a wall-clock emulation for hosts
// and a deterministic simulator for tests.
package systick

// Bits is the width of the Cortex-M SysTick current-value register.
const Bits = 24

// MaxReload is the largest value SysTick can count down from.
const MaxReload = 1<<Bits - 1
