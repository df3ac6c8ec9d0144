package core

// utoa converts an unsigned integer to a string without using fmt package
// This is a lightweight alternative for embedded systems
func utoa(n uint32) string {
	if n == 0 {
		return "0"
	}

	// uint32 has at most 10 decimal digits
	var buf [10]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}

	return string(buf[pos:])
}

const hexDigits = "0123456789ABCDEF"

// hex32 formats a register value as 8 upper-case hex digits
func hex32(v uint32) string {
	var buf [8]byte
	for i := len(buf) - 1; i >= 0; i-- {
		buf[i] = hexDigits[v&0xF]
		v >>= 4
	}
	return string(buf[:])
}
