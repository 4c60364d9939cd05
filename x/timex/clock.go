package timex

// Clock is a monotonic tick source over one Counter.
// Construct exactly one Clock per physical counter.
type Clock struct {
	ctr  Counter
	hz   uint32
	mask uint32
	bits uint8
}

// NewClock starts c and returns a clock counting at tickHz.
func NewClock(c Counter, tickHz uint32) *Clock {
	bits := c.Bits()
	if bits == 0 || bits > 32 {
		bits = 32
	}
	clk := &Clock{ctr: c, hz: tickHz, mask: maskFor(bits), bits: bits}
	c.Start()
	return clk
}

// Now returns ticks since start, modulo 2^Bits(). It increases by one per
// counter decrement because the counter itself counts down.
func (c *Clock) Now() uint32 { return c.mask - c.ctr.Current()&c.mask }

// Diff returns later-earlier in ticks, assuming at most one wrap between
// the two readings.
func (c *Clock) Diff(later, earlier uint32) uint32 { return (later - earlier) & c.mask }

// Since returns the ticks elapsed since t (a previous Now).
func (c *Clock) Since(t uint32) uint32 { return c.Diff(c.Now(), t) }

func (c *Clock) TickHz() uint32 { return c.hz }
func (c *Clock) Bits() uint8    { return c.bits }

// Period returns the number of ticks in one full counter cycle.
func (c *Clock) Period() uint64 { return uint64(c.mask) + 1 }

// Release stops the counter and returns it. The clock, and every Delay
// derived from it, must not be used afterwards.
func (c *Clock) Release() Counter {
	c.ctr.Stop()
	return c.ctr
}
