package conv

import "math/bits"

// ParseInt reads an optionally signed decimal integer from the start of data, skipping leading
// white space, and returns the value with the number of bytes consumed.
// bitSize limits the accepted range, 0 stands for the platform int size.
// An out of range value is clamped and reported with ErrRange.
func ParseInt(data []byte, bitSize int) (int64, int, error) {
	if bitSize <= 0 || bitSize > 64 {
		bitSize = bits.UintSize
	}
	pos := skipSpace(data, 0)
	negative := false
	switch byteAt(data, pos) {
	case '-':
		negative = true
		pos++
	case '+':
		pos++
	}
	limit := uint64(1) << uint(bitSize-1)
	if !negative {
		limit--
	}
	magnitude, end, err := parseDigits(data, pos, limit)
	if end == pos {
		return 0, 0, ErrSyntax
	}
	if negative {
		return -int64(magnitude), end, err
	}
	return int64(magnitude), end, err
}

// ParseUint reads an unsigned decimal integer from the start of data, skipping leading white space.
// A leading '+' is accepted, a '-' is not.
func ParseUint(data []byte, bitSize int) (uint64, int, error) {
	if bitSize <= 0 || bitSize > 64 {
		bitSize = bits.UintSize
	}
	pos := skipSpace(data, 0)
	if byteAt(data, pos) == '+' {
		pos++
	}
	limit := uint64(1)<<uint(bitSize) - 1
	if bitSize == 64 {
		limit = ^uint64(0)
	}
	value, end, err := parseDigits(data, pos, limit)
	if end == pos {
		return 0, 0, ErrSyntax
	}
	return value, end, err
}

func parseDigits(data []byte, pos int, limit uint64) (uint64, int, error) {
	var value uint64
	var err error
	for ; pos < len(data) && isDigit(data[pos]); pos++ {
		if err != nil {
			continue
		}
		digit := uint64(data[pos] - '0')
		if digit > limit || value > (limit-digit)/10 {
			value = limit
			err = ErrRange
			continue
		}
		value = 10*value + digit
	}
	return value, pos, err
}
