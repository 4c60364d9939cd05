package strconvx

// maxFixedPrec bounds prec so 10^prec and the scaled value fit in uint64.
const maxFixedPrec = 9

// AppendFixed appends f with exactly prec fractional digits, rounding half
// away from zero. The whole scaled value is rounded at once so a fraction
// that rounds up carries into the integer part (9.96 -> "10.0").
// Values beyond the uint64 range and NaN are not supported.
func AppendFixed(dst []byte, f float64, prec int) []byte {
	if prec < 0 {
		prec = 0
	}
	if prec > maxFixedPrec {
		prec = maxFixedPrec
	}
	if f < 0 {
		dst = append(dst, '-')
		f = -f
	}
	pow := uint64(1)
	for i := 0; i < prec; i++ {
		pow *= 10
	}
	scaled := uint64(f*float64(pow) + 0.5)
	dst = appendUint(dst, scaled/pow, 1)
	if prec > 0 {
		dst = append(dst, '.')
		dst = appendUint(dst, scaled%pow, prec)
	}
	return dst
}

// appendUint appends u in base 10, zero-padded to at least width digits.
func appendUint(dst []byte, u uint64, width int) []byte {
	var buf [20]byte
	i := len(buf)
	for u > 0 || len(buf)-i < width {
		i--
		buf[i] = byte('0' + u%10)
		u /= 10
	}
	return append(dst, buf[i:]...)
}
