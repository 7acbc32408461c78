package conv

// ParseBool matches the literal true or false at the start of data.
func ParseBool(data []byte) (bool, int, error) {
	switch {
	case hasPrefix(data, "true"):
		return true, 4, nil
	case hasPrefix(data, "false"):
		return false, 5, nil
	}
	return false, 0, ErrSyntax
}

func hasPrefix(data []byte, literal string) bool {
	return len(data) >= len(literal) && string(data[:len(literal)]) == literal
}

func byteAt(data []byte, pos int) byte {
	if pos < len(data) {
		return data[pos]
	}
	return 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func skipSpace(data []byte, pos int) int {
	for pos < len(data) && isSpace(data[pos]) {
		pos++
	}
	return pos
}
