package microjson

import (
	"log/slog"

	"github.com/viant/microjson/conv"
	"github.com/viant/xunsafe"
)

// readArray consumes one array starting at pos and returns position just past the closing bracket
func (d *decoder) readArray(pos int, arr *Array) (int, error) {
	if arr == nil {
		return 0, d.fail(ErrNullPtr, pos, "")
	}
	if err := d.enter(pos); err != nil {
		return 0, err
	}
	defer d.leave()
	if err := arr.validate(); err != nil {
		return 0, d.fail(err, pos, "")
	}
	pos = d.skipSpace(pos)
	if d.byteAt(pos) != '[' {
		return 0, d.fail(ErrArrayStart, pos, "")
	}
	pos = d.skipSpace(pos + 1)
	if d.byteAt(pos) == ']' {
		return d.endArray(arr, pos+1, 0), nil
	}
	limit := arr.capacity()
	used := 0
	var err error
	for count := 0; ; {
		if pos >= len(d.data) {
			return 0, d.fail(ErrTruncated, pos, "")
		}
		if count >= limit {
			return 0, d.fail(ErrSubTooLong, pos, "")
		}
		if pos, err = d.readElement(arr, pos, count, &used); err != nil {
			return 0, err
		}
		count++
		pos = d.skipSpace(pos)
		switch {
		case pos >= len(d.data):
			return 0, d.fail(ErrTruncated, pos, "")
		case d.data[pos] == ',':
			pos = d.skipSpace(pos + 1)
		case d.data[pos] == ']':
			return d.endArray(arr, pos+1, count), nil
		default:
			return 0, d.fail(ErrBadSubTrail, pos, "")
		}
	}
}

// readElement consumes index-th element, used tracks bytes taken from the string buffer
func (d *decoder) readElement(arr *Array, pos, index int, used *int) (int, error) {
	if d.tracing(LevelTrace) {
		d.log(LevelTrace, "array element", "type", arr.Type, "index", index, "pos", pos)
	}
	switch arr.Type {
	case TypeString:
		if d.byteAt(pos) != '"' {
			return 0, d.fail(ErrBadString, pos, "")
		}
		pos++
		start := *used
		for ; pos < len(d.data) && d.data[pos] != '"'; pos++ {
			if *used >= len(arr.Buffer) {
				return 0, d.fail(ErrBadString, pos, "")
			}
			arr.Buffer[*used] = d.data[pos]
			*used++
		}
		if pos >= len(d.data) {
			return 0, d.fail(ErrTruncated, pos, "")
		}
		arr.Strings[index] = arr.Buffer[start:*used:*used]
		return pos + 1, nil
	case TypeObject, TypeStructObject:
		return d.readObject(pos, arr.Attrs, arr, index)
	case TypeBoolean:
		ptr, err := arr.Store.element(index, arr.Type.kind())
		if err != nil {
			return 0, d.fail(err, pos, "")
		}
		value, consumed, err := conv.ParseBool(d.data[pos:])
		if err != nil {
			return 0, d.fail(ErrMisc, pos, "")
		}
		*xunsafe.AsBoolPtr(ptr) = value
		return pos + consumed, nil
	default:
		ptr, err := arr.Store.element(index, arr.Type.kind())
		if err != nil {
			return 0, d.fail(err, pos, "")
		}
		consumed, err := d.storeNumber(arr.Type, ptr, d.data[pos:])
		if err != nil || consumed == 0 {
			return 0, d.fail(ErrBadNum, pos, "")
		}
		return pos + consumed, nil
	}
}

func (d *decoder) endArray(arr *Array, pos, count int) int {
	if arr.Count != nil {
		*arr.Count = count
	}
	if d.tracing(slog.LevelDebug) {
		d.log(slog.LevelDebug, "array", "type", arr.Type, "count", count)
	}
	return pos
}
