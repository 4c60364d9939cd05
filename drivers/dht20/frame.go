package dht20

import (
	"envmon-go/types"
	"envmon-go/x/mathx"
)

// Frame is the raw 8-byte measurement response. Byte 0 is status, bytes
// 1..5 carry two 20-bit samples, the rest is unused.
type Frame [8]byte

const (
	rawMax = 1<<20 - 1

	humidityScale = 100.0 / 1048576.0
	tempScale     = 200.0 / 1048576.0
	tempOffset    = 50.0
)

// Decode converts a frame to physical units. The frame is not validated.
func Decode(f Frame) types.Reading {
	h := (uint32(f[1])<<8|uint32(f[2]))<<4 | uint32(f[3])>>4
	t := (uint32(f[3]&0x0F)<<8|uint32(f[4]))<<8 | uint32(f[5])
	return types.Reading{
		Humidity:    float32(h) * humidityScale,
		Temperature: float32(t)*tempScale - tempOffset,
	}
}

// Encode packs r into a frame with a calibrated, idle status byte.
// Out-of-range values saturate.
func Encode(r types.Reading) Frame {
	h := toRaw(r.Humidity / humidityScale)
	t := toRaw((r.Temperature + tempOffset) / tempScale)
	return Frame{
		statusCalMask,
		byte(h >> 12),
		byte(h >> 4),
		byte(h<<4) | byte(t>>16)&0x0F,
		byte(t >> 8),
		byte(t),
	}
}

func toRaw(v float32) uint32 {
	return uint32(mathx.Clamp(v+0.5, 0, rawMax))
}
