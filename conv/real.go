package conv

import "errors"

var (
	//ErrSyntax reports that no number could be read
	ErrSyntax = errors.New("invalid syntax")
	//ErrRange reports that a value was clamped to the supported range
	ErrRange = errors.New("value out of range")
)

// MaxExponent is the largest decimal exponent magnitude applied to a mantissa.
// Any larger exponent already overflows or underflows a float64.
const MaxExponent = 511

const maxMantissaDigits = 18

// powersOf10 holds 10^(2^i)
var powersOf10 = [...]float64{1e1, 1e2, 1e4, 1e8, 1e16, 1e32, 1e64, 1e128, 1e256}

// ParseReal reads a decimal floating point number of the form [ws][sign]I.FE[sign]X from the
// start of data and returns the value with the number of bytes consumed.
// Either I or F may be omitted; the exponent is optional. The conversion never depends on locale.
// When the combined exponent exceeds MaxExponent the clamped value is returned together with ErrRange.
func ParseReal(data []byte) (float64, int, error) {
	pos := skipSpace(data, 0)
	negative := false
	switch byteAt(data, pos) {
	case '-':
		negative = true
		pos++
	case '+':
		pos++
	}

	mantissaStart := pos
	decimalPoint := -1
	mantissaSize := 0
	for ; ; mantissaSize++ {
		c := byteAt(data, pos)
		if !isDigit(c) {
			if c != '.' || decimalPoint >= 0 {
				break
			}
			decimalPoint = mantissaSize
		}
		pos++
	}
	exponentPos := pos
	if decimalPoint < 0 {
		decimalPoint = mantissaSize
	} else {
		mantissaSize--
	}
	if mantissaSize <= 0 {
		return 0, 0, ErrSyntax
	}

	fractionExponent := decimalPoint - mantissaSize
	if mantissaSize > maxMantissaDigits {
		fractionExponent = decimalPoint - maxMantissaDigits
		mantissaSize = maxMantissaDigits
	}
	var high, low int64
	p := mantissaStart
	for ; mantissaSize > 9; mantissaSize-- {
		c := data[p]
		p++
		if c == '.' {
			c = data[p]
			p++
		}
		high = 10*high + int64(c-'0')
	}
	for ; mantissaSize > 0; mantissaSize-- {
		c := data[p]
		p++
		if c == '.' {
			c = data[p]
			p++
		}
		low = 10*low + int64(c-'0')
	}
	fraction := 1.0e9*float64(high) + float64(low)

	pos = exponentPos
	exponent := 0
	if c := byteAt(data, pos); c == 'e' || c == 'E' {
		p = pos + 1
		exponentNegative := false
		switch byteAt(data, p) {
		case '-':
			exponentNegative = true
			p++
		case '+':
			p++
		}
		if isDigit(byteAt(data, p)) {
			for ; isDigit(byteAt(data, p)); p++ {
				if exponent <= 10*MaxExponent {
					exponent = 10*exponent + int(data[p]-'0')
				}
			}
			if exponentNegative {
				exponent = -exponent
			}
			pos = p
		}
	}
	exponent += fractionExponent

	var err error
	divide := exponent < 0
	if divide {
		exponent = -exponent
	}
	if exponent > MaxExponent {
		exponent = MaxExponent
		err = ErrRange
	}
	if fraction != 0 {
		scale := 1.0
		for i := 0; exponent != 0; exponent, i = exponent>>1, i+1 {
			if exponent&1 != 0 {
				scale *= powersOf10[i]
			}
		}
		if divide {
			fraction /= scale
		} else {
			fraction *= scale
		}
	}
	if negative {
		fraction = -fraction
	}
	return fraction, pos, err
}
