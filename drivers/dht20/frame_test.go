package dht20

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"envmon-go/types"
)

func TestDecodeZeroFrame(t *testing.T) {
	r := Decode(Frame{})
	assert.Equal(t, float32(0), r.Humidity)
	assert.Equal(t, float32(-50), r.Temperature)
}

func TestDecodeKnownFrames(t *testing.T) {
	cases := []struct {
		f        Frame
		hum, tmp float32
	}{
		// 0x66666 humidity, 0x60000 temperature
		{Frame{0x1C, 0x66, 0x66, 0x66, 0x00, 0x00, 0, 0}, 39.99996, 25.0},
		// 0x19999 humidity, 0xA0000 temperature
		{Frame{0x00, 0x19, 0x99, 0x9A, 0x00, 0x00, 0, 0}, 9.99994, 75.0},
		// full scale
		{Frame{0x1C, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0, 0}, 99.99990, 149.99981},
	}
	for _, c := range cases {
		r := Decode(c.f)
		assert.InDelta(t, c.hum, r.Humidity, 1e-4, "frame % x", c.f)
		assert.InDelta(t, c.tmp, r.Temperature, 1e-4, "frame % x", c.f)
	}
}

func TestDecodeIgnoresStatusAndTrailer(t *testing.T) {
	a := Decode(Frame{0x00, 0x12, 0x34, 0x56, 0x78, 0x9A, 0x00, 0x00})
	b := Decode(Frame{0xFF, 0x12, 0x34, 0x56, 0x78, 0x9A, 0xAB, 0xCD})
	assert.Equal(t, a, b)
}

func TestEncodeDecode(t *testing.T) {
	for _, r := range []types.Reading{
		{Temperature: 21.5, Humidity: 45.2},
		{Temperature: -50, Humidity: 0},
		{Temperature: 0, Humidity: 99.9},
	} {
		got := Decode(Encode(r))
		assert.InDelta(t, r.Humidity, got.Humidity, 1e-3)
		assert.InDelta(t, r.Temperature, got.Temperature, 1e-3)
	}

	sat := Decode(Encode(types.Reading{Temperature: 500, Humidity: -10}))
	assert.Equal(t, float32(0), sat.Humidity)
	assert.InDelta(t, 149.9998, sat.Temperature, 1e-3)
}
