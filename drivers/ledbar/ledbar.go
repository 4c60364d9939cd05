// Package ledbar drives a five-LED bar graph used as a coarse humidity
// gauge, plus a single fault indicator.
package ledbar

// Pin is an output line. machine.Pin and the HAL pin handles satisfy it.
type Pin interface {
	Set(high bool)
}

// Size is the number of bar elements.
const Size = 5

// Thresholds lists, per element, the humidity (%) that must be exceeded
// for it to light. Elements are wired red, yellow, green, yellow, red.
var Thresholds = [Size]float32{0, 20, 40, 60, 80}

// Level returns how many elements a humidity reading lights.
func Level(h float32) int {
	n := 0
	for _, th := range Thresholds {
		if h > th {
			n++
		}
	}
	return n
}

// Bar is the bar graph.
type Bar struct {
	pins [Size]Pin
}

func New(pins [Size]Pin) *Bar { return &Bar{pins: pins} }

// Update lights element i iff h > Thresholds[i]; the rest are turned off.
func (b *Bar) Update(h float32) {
	for i, p := range b.pins {
		p.Set(h > Thresholds[i])
	}
}

// Clear turns every element off.
func (b *Bar) Clear() {
	for _, p := range b.pins {
		p.Set(false)
	}
}

// Fault is the on-board "something is wrong" LED.
type Fault struct {
	pin Pin
	on  bool
}

func NewFault(p Pin) *Fault { return &Fault{pin: p} }

func (f *Fault) Set(on bool) {
	f.on = on
	f.pin.Set(on)
}

func (f *Fault) On() bool { return f.on }
