package timex_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envmon-go/drivers/systick"
	"envmon-go/x/timex"
)

const mhz = 1_000_000

func TestNowIsMaxMinusRawFor32Bit(t *testing.T) {
	s := systick.NewSim(32, 1)
	clk := timex.NewClock(s, mhz)
	require.True(t, s.Running())

	s.Set(100)
	assert.Equal(t, ^uint32(0)-100, clk.Now())
	assert.Equal(t, uint8(32), clk.Bits())
	assert.Equal(t, uint64(1)<<32, clk.Period())
}

func TestNowMonotonicAcrossWrap(t *testing.T) {
	s := systick.NewSim(systick.Bits, 1000)
	clk := timex.NewClock(s, 125_000_000)

	s.Set(500)
	t1 := clk.Now()
	t2 := clk.Now()

	assert.Equal(t, uint32(systick.MaxReload-500), t1)
	assert.Equal(t, uint32(499), t2, "counter wrapped between reads")
	assert.Equal(t, uint32(1000), clk.Diff(t2, t1))
}

func TestDelayLowerBound(t *testing.T) {
	s := systick.NewSim(systick.Bits, 1000)
	clk := timex.NewClock(s, mhz)
	d := timex.NewDelay(clk)

	before := clk.Now()
	d.DelayMs(10)
	assert.GreaterOrEqual(t, clk.Since(before), uint32(10_000))
}

func TestDelaySpansManyWraps(t *testing.T) {
	// One second at 125 MHz is about 7.5 periods of a 24-bit counter.
	s := systick.NewSim(systick.Bits, 1<<20)
	clk := timex.NewClock(s, 125_000_000)
	d := timex.NewDelay(clk)

	var ticks uint64
	last := clk.Now()
	s.OnRead = func(raw uint32) {
		now := uint32(systick.MaxReload) - raw
		ticks += uint64(clk.Diff(now, last))
		last = now
	}
	d.DelayMs(1000)

	assert.GreaterOrEqual(t, ticks, d.Ticks(1000))
	assert.Less(t, ticks, d.Ticks(1000)+2*(1<<20))
}

func TestDelayZeroReturnsImmediately(t *testing.T) {
	s := systick.NewSim(systick.Bits, 1)
	clk := timex.NewClock(s, mhz)
	d := timex.NewDelay(clk)

	d.DelayMs(0)
	d.DelayMs8(0)
	d.DelayUs(0)
	d.DelayNs(999)
	d.Sleep(0)
	assert.Zero(t, s.Reads())
}

func TestTicksTruncatesPerMillisecondFactor(t *testing.T) {
	clk := timex.NewClock(systick.NewSim(systick.Bits, 1), 1_500_999)
	d := timex.NewDelay(clk)
	assert.Equal(t, uint64(3000), d.Ticks(2))

	fast := timex.NewDelay(timex.NewClock(systick.NewSim(systick.Bits, 1), 125_000_000))
	assert.Equal(t, uint64(7_500_000_000), fast.Ticks(60_000), "no 32-bit overflow")
}

func TestDelayWidthsAgree(t *testing.T) {
	reads := func(f func(d timex.Delay)) uint64 {
		s := systick.NewSim(systick.Bits, 7)
		f(timex.NewDelay(timex.NewClock(s, mhz)))
		return s.Reads()
	}
	want := reads(func(d timex.Delay) { d.DelayMs(3) })
	assert.Equal(t, want, reads(func(d timex.Delay) { d.DelayMs16(3) }))
	assert.Equal(t, want, reads(func(d timex.Delay) { d.DelayMs8(3) }))
	assert.Equal(t, want, reads(func(d timex.Delay) { timex.DelayMsN(d, uint8(3)) }))
	assert.Equal(t, want, reads(func(d timex.Delay) { timex.DelayMsN(d, uint16(3)) }))
	assert.Equal(t, want, reads(func(d timex.Delay) { d.DelayUs(3000) }))
	assert.Equal(t, want, reads(func(d timex.Delay) { d.DelayNs(3_000_000) }))
	assert.Equal(t, want, reads(func(d timex.Delay) { d.Sleep(3 * time.Millisecond) }))
}

func TestSleepSubMillisecond(t *testing.T) {
	s := systick.NewSim(systick.Bits, 10)
	clk := timex.NewClock(s, mhz)
	d := timex.NewDelay(clk)

	before := clk.Now()
	d.Sleep(1500 * time.Microsecond)
	assert.GreaterOrEqual(t, clk.Since(before), uint32(1500))
}

func TestNestedHandlesDoNotInterfere(t *testing.T) {
	s := systick.NewSim(systick.Bits, 100)
	clk := timex.NewClock(s, mhz)
	outer, inner := timex.NewDelay(clk), timex.NewDelay(clk)

	var armed atomic.Bool
	var innerElapsed uint32
	s.OnRead = func(uint32) {
		if armed.CompareAndSwap(true, false) {
			start := clk.Now()
			inner.DelayMs(2)
			innerElapsed = clk.Since(start)
		}
	}

	before := clk.Now()
	armed.Store(true)
	outer.DelayMs(5)
	outerElapsed := clk.Since(before)

	assert.GreaterOrEqual(t, innerElapsed, uint32(2000))
	assert.GreaterOrEqual(t, outerElapsed, uint32(5000))
}

func TestConcurrentHandles(t *testing.T) {
	s := systick.NewSim(systick.Bits, 10)
	clk := timex.NewClock(s, mhz)

	var wg sync.WaitGroup
	elapsed := make([]uint32, 4)
	for i := range elapsed {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := timex.NewDelay(clk)
			start := clk.Now()
			d.DelayMs(uint32(i + 1))
			elapsed[i] = clk.Since(start)
		}(i)
	}
	wg.Wait()

	for i, e := range elapsed {
		assert.GreaterOrEqual(t, e, uint32((i+1)*1000), "handle %d", i)
	}
}

func TestReleaseStopsCounter(t *testing.T) {
	s := systick.NewSim(systick.Bits, 1)
	clk := timex.NewClock(s, mhz)
	d := timex.NewDelay(clk)
	require.Same(t, clk, d.Clock())

	ctr := clk.Release()
	assert.Same(t, s, ctr)
	assert.False(t, s.Running())
}
