//go:build rp2040 || rp2350

package systick

import (
	"runtime/volatile"
	"unsafe"
)

// System Control Space SysTick registers (ARMv6-M/ARMv8-M).
const (
	regCSR = 0xE000E010 // control and status
	regRVR = 0xE000E014 // reload value
	regCVR = 0xE000E018 // current value

	csrEnable    = 1 << 0
	csrTickInt   = 1 << 1
	csrClkSource = 1 << 2 // processor clock
)

var (
	csr = (*volatile.Register32)(unsafe.Pointer(uintptr(regCSR)))
	rvr = (*volatile.Register32)(unsafe.Pointer(uintptr(regRVR)))
	cvr = (*volatile.Register32)(unsafe.Pointer(uintptr(regCVR)))
)

// SysTick is the core's SysTick timer clocked from the processor clock with
// its interrupt disabled. There is one per core; claim it through the
// resource registry rather than constructing several.
type SysTick struct{}

func New() *SysTick { return &SysTick{} }

func (*SysTick) Start() {
	csr.Set(0)
	rvr.Set(MaxReload)
	cvr.Set(0) // any write clears the counter and COUNTFLAG
	csr.Set(csrEnable | csrClkSource)
}

func (*SysTick) Stop() { csr.ClearBits(csrEnable | csrTickInt) }

func (*SysTick) Current() uint32 { return cvr.Get() & MaxReload }

func (*SysTick) Bits() uint8 { return Bits }
