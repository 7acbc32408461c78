package microjson

import (
	"log/slog"
	"strconv"
)

type objectState uint8

const (
	stateInit objectState = iota
	stateAwaitAttr
	stateInAttr
	stateAwaitValue
	stateInValString
	stateInEscape
	stateInValToken
	statePostValue
	statePostArray
)

var objectStateNames = [...]string{
	stateInit:        "init",
	stateAwaitAttr:   "await_attr",
	stateInAttr:      "in_attr",
	stateAwaitValue:  "await_value",
	stateInValString: "in_val_string",
	stateInEscape:    "in_escape",
	stateInValToken:  "in_val_token",
	statePostValue:   "post_val",
	statePostArray:   "post_array",
}

func (s objectState) String() string {
	return objectStateNames[s]
}

// objectScan holds the attribute being scanned
type objectScan struct {
	attrs  []Attr
	parent *Array
	offset int
	index  int
	quoted bool
}

// readObject consumes one object starting at pos and returns position past it and trailing white space.
// Inside an object array parent and offset select where the element values are written.
func (d *decoder) readObject(pos int, attrs []Attr, parent *Array, offset int) (int, error) {
	if err := d.enter(pos); err != nil {
		return 0, err
	}
	defer d.leave()
	if err := d.applyDefaults(pos, attrs, parent, offset); err != nil {
		return 0, err
	}
	var nameBuffer [AttrNameMax]byte
	var valueBuffer [ValueMax]byte
	name := nameBuffer[:0]
	value := valueBuffer[:0]
	scan := objectScan{attrs: attrs, parent: parent, offset: offset, index: -1}
	state := stateInit
	expectAttr := false
	trace := d.tracing(LevelTrace)
	for pos < len(d.data) {
		c := d.data[pos]
		if trace {
			d.log(LevelTrace, "object", "state", state, "pos", pos, "char", string(c))
		}
		switch state {
		case stateInit:
			if isSpace(c) {
				break
			}
			if c != '{' {
				return 0, d.fail(ErrObStart, pos, "")
			}
			state = stateAwaitAttr
		case stateAwaitAttr:
			switch {
			case isSpace(c):
			case c == '"':
				name = name[:0]
				state = stateInAttr
			case c == '}' && !expectAttr:
				return d.endObject(pos + 1), nil
			default:
				return 0, d.fail(ErrAttrStart, pos, "")
			}
		case stateInAttr:
			if c == '"' {
				if scan.index = lookupAttr(attrs, name); scan.index < 0 {
					return 0, d.fail(ErrBadAttr, pos, string(name))
				}
				state = stateAwaitValue
				break
			}
			if len(name) >= d.options.AttrNameMax {
				return 0, d.fail(ErrAttrLen, pos, "")
			}
			name = append(name, c)
		case stateAwaitValue:
			if isSpace(c) || c == ':' {
				break
			}
			attr := &attrs[scan.index]
			switch {
			case c == '[':
				if attr.Type != TypeArray {
					return 0, d.fail(ErrNoArray, pos, attr.Name)
				}
				next, err := d.readArray(pos, attr.Array)
				if err != nil {
					return 0, err
				}
				pos = next
				state = statePostArray
				continue
			case attr.Type == TypeArray:
				return 0, d.fail(ErrNoBrak, pos, attr.Name)
			case c == '{':
				if attr.Type != TypeObject {
					return 0, d.fail(ErrNoObject, pos, attr.Name)
				}
				next, err := d.readObject(pos, attr.Attrs, parent, offset)
				if err != nil {
					return 0, err
				}
				pos = next
				state = statePostValue
				continue
			case attr.Type == TypeObject:
				return 0, d.fail(ErrNoCurly, pos, attr.Name)
			}
			value = value[:0]
			if c == '"' {
				scan.quoted = true
				state = stateInValString
				break
			}
			scan.quoted = false
			state = stateInValToken
			continue
		case stateInValString:
			switch c {
			case '\\':
				state = stateInEscape
			case '"':
				if err := d.apply(&scan, value, pos); err != nil {
					return 0, err
				}
				state = statePostValue
			default:
				if len(value) >= d.valueLimit(&attrs[scan.index]) {
					return 0, d.fail(ErrStrLong, pos, attrs[scan.index].Name)
				}
				value = append(value, c)
			}
		case stateInEscape:
			decoded, next, err := d.unescape(pos)
			if err != nil {
				return 0, d.fail(err, pos, attrs[scan.index].Name)
			}
			if len(value) >= d.valueLimit(&attrs[scan.index]) {
				return 0, d.fail(ErrStrLong, pos, attrs[scan.index].Name)
			}
			value = append(value, decoded)
			pos = next
			state = stateInValString
		case stateInValToken:
			if isSpace(c) || c == ',' || c == '}' {
				if err := d.apply(&scan, value, pos); err != nil {
					return 0, err
				}
				state = statePostValue
				continue
			}
			if len(value) >= d.valueLimit(&attrs[scan.index]) {
				return 0, d.fail(ErrTokLong, pos, attrs[scan.index].Name)
			}
			value = append(value, c)
		case statePostValue, statePostArray:
			switch {
			case isSpace(c):
			case c == ',':
				expectAttr = true
				state = stateAwaitAttr
			case c == '}':
				return d.endObject(pos + 1), nil
			default:
				return 0, d.fail(ErrBadTrail, pos, "")
			}
		}
		pos++
	}
	if state == stateInit {
		return 0, d.fail(ErrObStart, pos, "")
	}
	return 0, d.fail(ErrTruncated, pos, "")
}

// unescape decodes escape sequence following a backslash, pos points at the escaped character
func (d *decoder) unescape(pos int) (byte, int, error) {
	switch c := d.data[pos]; c {
	case 'b':
		return '\b', pos, nil
	case 'f':
		return '\f', pos, nil
	case 'n':
		return '\n', pos, nil
	case 'r':
		return '\r', pos, nil
	case 't':
		return '\t', pos, nil
	case 'u':
		if pos+4 >= len(d.data) {
			return 0, pos, ErrBadString
		}
		var code byte
		for _, h := range d.data[pos+1 : pos+5] {
			nibble, ok := hexValue(h)
			if !ok {
				return 0, pos, ErrBadString
			}
			code = code<<4 | nibble
		}
		return code, pos + 4, nil
	default:
		return c, pos, nil
	}
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// apply resolves overloaded attribute for the completed value and stores it
func (d *decoder) apply(scan *objectScan, value []byte, pos int) error {
	attr := disambiguate(scan.attrs, scan.index, value, scan.quoted)
	if d.tracing(slog.LevelDebug) {
		d.log(slog.LevelDebug, "value", "attr", attr.Name, "type", attr.Type, "quoted", scan.quoted, "value", string(value))
	}
	if scan.quoted && !attr.acceptsQuoted() {
		return d.fail(ErrQNonString, pos, attr.Name)
	}
	if !scan.quoted && attr.requiresQuoted() {
		return d.fail(ErrNonQString, pos, attr.Name)
	}
	if len(attr.Map) > 0 {
		mapped, ok := attr.lookupEnum(value)
		if !ok {
			return d.fail(ErrBadEnum, pos, attr.Name)
		}
		var digits [24]byte
		value = strconv.AppendInt(digits[:0], int64(mapped), 10)
	}
	return d.store(attr, scan.parent, scan.offset, value, pos)
}

// valueLimit returns maximum value bytes accepted for attr
func (d *decoder) valueLimit(attr *Attr) int {
	if attr.Type == TypeCheck && len(attr.Check) < d.options.ValueMax {
		return len(attr.Check)
	}
	return d.options.ValueMax
}

func (d *decoder) endObject(pos int) int {
	return d.skipSpace(pos)
}

// lookupAttr returns index of the first attribute with name, or -1
func lookupAttr(attrs []Attr, name []byte) int {
	for i := range attrs {
		if attrs[i].Name == string(name) {
			return i
		}
	}
	return -1
}

// disambiguate walks attributes sharing the name at index and returns the first one whose type
// matches the value syntax; the last candidate is returned when none matches
func disambiguate(attrs []Attr, index int, value []byte, quoted bool) *Attr {
	name := attrs[index].Name
	for i := index; ; i++ {
		attr := &attrs[i]
		if i+1 == len(attrs) || attrs[i+1].Name != name {
			return attr
		}
		if matchesSyntax(attr.Type, value, quoted) {
			return attr
		}
	}
}

func matchesSyntax(aType Type, value []byte, quoted bool) bool {
	if quoted {
		return aType == TypeString || aType == TypeTime
	}
	if string(value) == "true" || string(value) == "false" {
		return aType == TypeBoolean
	}
	if !isNumeric(value) {
		return false
	}
	for _, c := range value {
		if c == '.' {
			return aType == TypeReal
		}
	}
	return aType.isInteger()
}

func isNumeric(value []byte) bool {
	if len(value) > 1 && value[0] == '-' {
		value = value[1:]
	}
	return len(value) > 0 && isDigit(value[0])
}
