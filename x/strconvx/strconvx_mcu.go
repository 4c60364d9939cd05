//go:build tinygo

package strconvx

// Minimal, allocation-aware helpers with identical signatures.
// Supported bases: 2..36.

func Itoa(i int) string {
	if i < 0 {
		return "-" + formatUint(uint64(-int64(i)), 10)
	}
	return formatUint(uint64(i), 10)
}

func FormatUint(u uint64, base int) string {
	if base < 2 || base > 36 {
		base = 10
	}
	return formatUint(u, base)
}

func formatUint(u uint64, base int) string {
	if u == 0 {
		return "0"
	}
	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	var buf [64]byte
	i := len(buf)
	b := uint64(base)
	for u > 0 {
		i--
		buf[i] = digits[u%b]
		u /= b
	}
	return string(buf[i:])
}

// FormatFloat renders fixed-point decimal for every fmt ('e'/'g' are not
// implemented). A negative prec means 6.
func FormatFloat(f float64, _ byte, prec, _ int) string {
	if prec < 0 {
		prec = 6
	}
	var buf [40]byte
	return string(AppendFixed(buf[:0], f, prec))
}
