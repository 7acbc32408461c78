package microjson

import (
	"unsafe"

	"github.com/viant/xunsafe"
)

// writeDefault writes attribute default value, nil default writes zero value
func writeDefault(attr *Attr, parent *Array, ptr unsafe.Pointer) error {
	switch attr.Type {
	case TypeInteger:
		value, ok := asInt64(attr.Default)
		if !ok {
			return ErrMisc
		}
		*xunsafe.AsIntPtr(ptr) = int(value)
	case TypeShort:
		value, ok := asInt64(attr.Default)
		if !ok {
			return ErrMisc
		}
		*xunsafe.AsInt16Ptr(ptr) = int16(value)
	case TypeUInteger:
		value, ok := asUint64(attr.Default)
		if !ok {
			return ErrMisc
		}
		*xunsafe.AsUintPtr(ptr) = uint(value)
	case TypeUShort:
		value, ok := asUint64(attr.Default)
		if !ok {
			return ErrMisc
		}
		*xunsafe.AsUint16Ptr(ptr) = uint16(value)
	case TypeReal, TypeTime:
		value, ok := asFloat64(attr.Default)
		if !ok {
			return ErrMisc
		}
		*xunsafe.AsFloat64Ptr(ptr) = value
	case TypeBoolean:
		value, ok := attr.Default.(bool)
		if !ok && attr.Default != nil {
			return ErrMisc
		}
		*xunsafe.AsBoolPtr(ptr) = value
	case TypeCharacter:
		value, ok := asCharacter(attr.Default)
		if !ok {
			return ErrMisc
		}
		*xunsafe.AsUint8Ptr(ptr) = value
	case TypeString:
		buffer := unsafe.Slice((*byte)(ptr), attr.stringSize(parent))
		capacity := buffer[:attr.stringCap(parent)]
		n := 0
		switch actual := attr.Default.(type) {
		case nil:
		case string:
			n = copy(capacity, actual)
		case []byte:
			n = copy(capacity, actual)
		default:
			return ErrMisc
		}
		clear(buffer[n:])
	}
	return nil
}

func asInt64(value interface{}) (int64, bool) {
	switch actual := value.(type) {
	case nil:
		return 0, true
	case int:
		return int64(actual), true
	case int8:
		return int64(actual), true
	case int16:
		return int64(actual), true
	case int32:
		return int64(actual), true
	case int64:
		return actual, true
	case uint:
		return int64(actual), true
	case uint8:
		return int64(actual), true
	case uint16:
		return int64(actual), true
	case uint32:
		return int64(actual), true
	}
	return 0, false
}

func asUint64(value interface{}) (uint64, bool) {
	switch actual := value.(type) {
	case uint:
		return uint64(actual), true
	case uint64:
		return actual, true
	}
	signed, ok := asInt64(value)
	if !ok || signed < 0 {
		return 0, false
	}
	return uint64(signed), true
}

func asFloat64(value interface{}) (float64, bool) {
	switch actual := value.(type) {
	case float64:
		return actual, true
	case float32:
		return float64(actual), true
	}
	signed, ok := asInt64(value)
	return float64(signed), ok
}

func asCharacter(value interface{}) (byte, bool) {
	switch actual := value.(type) {
	case nil:
		return 0, true
	case byte:
		return actual, true
	case rune:
		return byte(actual), actual >= 0 && actual <= 0xff
	case string:
		if len(actual) == 1 {
			return actual[0], true
		}
	}
	return 0, false
}
