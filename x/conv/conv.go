// Package conv appends integers to byte slices without fmt or strconv.
package conv

// AppendUint appends the base-10 form of n to dst.
func AppendUint(dst []byte, n uint64) []byte {
	var buf [20]byte
	i := len(buf)
	for {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	return append(dst, buf[i:]...)
}

// AppendInt appends the base-10 form of n to dst.
func AppendInt(dst []byte, n int64) []byte {
	if n < 0 {
		dst = append(dst, '-')
		return AppendUint(dst, uint64(-n))
	}
	return AppendUint(dst, uint64(n))
}

// AppendHex8 appends b as "0x" and two uppercase hex digits.
func AppendHex8(dst []byte, b byte) []byte {
	const hexd = "0123456789ABCDEF"
	return append(dst, '0', 'x', hexd[b>>4], hexd[b&0xF])
}
