package mathx

import "math"

// Pow10f returns 10^n as float32.
func Pow10f(n uint32) float32 {
	p := float32(1)
	for ; n > 0; n-- {
		p *= 10
	}
	return p
}

// RoundToDecimal rounds x to places decimal digits, half-up on the scaled
// remainder: 55.32 -> 55.3, 55.36 -> 55.4. Negative inputs are truncated
// toward zero because their remainder is never >= 0.5.
func RoundToDecimal(x float32, places uint32) float32 {
	m := Pow10f(places)
	scaled := x * m
	rem := float32(math.Mod(float64(scaled), 1))
	r := scaled - rem
	if rem >= 0.5 {
		r++
	}
	return r / m
}
