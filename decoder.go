package microjson

import (
	"errors"
	"log/slog"
	"math/bits"
	"unsafe"

	"github.com/viant/microjson/conv"
	ftime "github.com/viant/microjson/format/time"
	"github.com/viant/xunsafe"
)

// decoder holds state of one parse call; it never owns parsed values
type decoder struct {
	data    []byte
	options Options
	depth   int
}

// byteAt returns input byte at pos, or 0 past the end of input
func (d *decoder) byteAt(pos int) byte {
	if pos < len(d.data) {
		return d.data[pos]
	}
	return 0
}

func (d *decoder) skipSpace(pos int) int {
	for pos < len(d.data) && isSpace(d.data[pos]) {
		pos++
	}
	return pos
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (d *decoder) enter(pos int) error {
	d.depth++
	if d.depth > d.options.MaxDepth {
		return d.fail(ErrDepth, pos, "")
	}
	return nil
}

func (d *decoder) leave() {
	d.depth--
}

func (d *decoder) tracing(level slog.Level) bool {
	return d.options.Logger != nil && d.options.Logger.Enabled(d.options.Ctx, level)
}

func (d *decoder) log(level slog.Level, msg string, args ...any) {
	d.options.Logger.Log(d.options.Ctx, level, msg, args...)
}

// fail converts err into *Error reported at pos, an *Error from a nested call is returned unchanged
func (d *decoder) fail(err error, pos int, attr string) error {
	var parseErr *Error
	if errors.As(err, &parseErr) {
		return err
	}
	code, ok := err.(Code)
	if !ok {
		code = ErrMisc
	}
	if d.tracing(slog.LevelDebug) {
		d.log(slog.LevelDebug, code.Error(), "pos", pos, "attr", attr)
	}
	return &Error{Code: code, Offset: pos, Attr: attr}
}

// applyDefaults writes default values of all attributes not flagged NoDefault
func (d *decoder) applyDefaults(pos int, attrs []Attr, parent *Array, offset int) error {
	for i := range attrs {
		attr := &attrs[i]
		if attr.NoDefault {
			continue
		}
		if attr.Type == TypeString && isParallel(parent) {
			return d.fail(ErrNoParStr, pos, attr.Name)
		}
		ptr, err := targetAddress(attr, parent, offset)
		if err != nil {
			return d.fail(err, pos, attr.Name)
		}
		if ptr == nil {
			continue
		}
		if err = writeDefault(attr, parent, ptr); err != nil {
			return d.fail(err, pos, attr.Name)
		}
	}
	return nil
}

func isParallel(parent *Array) bool {
	return parent != nil && parent.Type != TypeStructObject
}

// store converts a raw value token and writes it to the attribute target
func (d *decoder) store(attr *Attr, parent *Array, offset int, value []byte, pos int) error {
	if attr.Type == TypeCheck {
		if string(value) != attr.Check {
			return d.fail(ErrCheckFail, pos, attr.Name)
		}
		return nil
	}
	if attr.Type == TypeString && isParallel(parent) {
		return d.fail(ErrNoParStr, pos, attr.Name)
	}
	ptr, err := targetAddress(attr, parent, offset)
	if err != nil {
		return d.fail(err, pos, attr.Name)
	}
	if ptr == nil {
		return nil
	}
	switch attr.Type {
	case TypeString:
		capacity := attr.stringCap(parent)
		if len(value) > capacity {
			return d.fail(ErrStrLong, pos, attr.Name)
		}
		buffer := unsafe.Slice((*byte)(ptr), attr.stringSize(parent))
		n := copy(buffer, value)
		clear(buffer[n:])
	case TypeCharacter:
		if len(value) > 1 {
			return d.fail(ErrStrLong, pos, attr.Name)
		}
		var c byte
		if len(value) == 1 {
			c = value[0]
		}
		*xunsafe.AsUint8Ptr(ptr) = c
	case TypeBoolean:
		flag, consumed, err := conv.ParseBool(value)
		if err != nil || consumed != len(value) {
			return d.fail(ErrMisc, pos, attr.Name)
		}
		*xunsafe.AsBoolPtr(ptr) = flag
	case TypeTime:
		seconds, err := ftime.ParseISO8601(value)
		if err != nil {
			return d.fail(ErrMisc, pos, attr.Name)
		}
		*xunsafe.AsFloat64Ptr(ptr) = seconds
	default:
		consumed, err := d.storeNumber(attr.Type, ptr, value)
		if err != nil || consumed != len(value) {
			return d.fail(ErrBadNum, pos, attr.Name)
		}
	}
	return nil
}

// storeNumber converts a number at the start of data, writes it to ptr and returns consumed bytes
func (d *decoder) storeNumber(aType Type, ptr unsafe.Pointer, data []byte) (int, error) {
	switch aType {
	case TypeInteger:
		value, consumed, err := conv.ParseInt(data, bits.UintSize)
		if err != nil {
			return 0, err
		}
		*xunsafe.AsIntPtr(ptr) = int(value)
		return consumed, nil
	case TypeShort:
		value, consumed, err := conv.ParseInt(data, 16)
		if err != nil {
			return 0, err
		}
		*xunsafe.AsInt16Ptr(ptr) = int16(value)
		return consumed, nil
	case TypeUInteger:
		value, consumed, err := conv.ParseUint(data, bits.UintSize)
		if err != nil {
			return 0, err
		}
		*xunsafe.AsUintPtr(ptr) = uint(value)
		return consumed, nil
	case TypeUShort:
		value, consumed, err := conv.ParseUint(data, 16)
		if err != nil {
			return 0, err
		}
		*xunsafe.AsUint16Ptr(ptr) = uint16(value)
		return consumed, nil
	case TypeReal:
		value, consumed, err := conv.ParseReal(data)
		if err != nil && !errors.Is(err, conv.ErrRange) {
			return 0, err
		}
		if err != nil && d.tracing(slog.LevelDebug) {
			d.log(slog.LevelDebug, "real exponent clamped", "value", value)
		}
		*xunsafe.AsFloat64Ptr(ptr) = value
		return consumed, nil
	}
	return 0, ErrSubType
}
