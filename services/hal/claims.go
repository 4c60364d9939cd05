package hal

import (
	"sync"

	"tinygo.org/x/drivers"

	"envmon-go/errcode"
	"envmon-go/x/strconvx"
)

const counterKey = "counter"

func i2cKey(bus string, addr uint16) string {
	return "i2c:" + bus + "@0x" + strconvx.FormatUint(uint64(addr), 16)
}

func pinKey(n int) string { return "gpio" + strconvx.Itoa(n) }

// claims records which device holds which resource.
type claims struct {
	mu    sync.Mutex
	owner map[string]string
}

func newClaims() *claims { return &claims{owner: make(map[string]string)} }

func (c *claims) take(key, dev string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if o, held := c.owner[key]; held {
		return &errcode.E{C: errcode.InUse, Op: "hal.claim", Msg: key + " held by " + o}
	}
	c.owner[key] = dev
	return nil
}

// release is a no-op unless dev holds key.
func (c *claims) release(key, dev string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.owner[key] == dev {
		delete(c.owner, key)
	}
}

func (c *claims) holder(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.owner[key]
	return o, ok
}

// sharedBus serialises transactions from several devices on one bus.
type sharedBus struct {
	mu  sync.Mutex
	bus drivers.I2C
}

func (s *sharedBus) Tx(addr uint16, w, r []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bus.Tx(addr, w, r)
}
