// Package microjson parses JSON of a shape declared in advance into caller owned, fixed size storage.
package microjson

import "bytes"

// ReadObject parses one JSON object from data into storage bound by attrs.
// It returns the position of the first byte following the object and its trailing white space,
// so that consecutive objects can be parsed from one buffer. Data ends at its length or at the first NUL byte.
// On failure it returns 0 and *Error carrying the Code; storage may be partially written.
func ReadObject(data []byte, attrs []Attr, opts ...Option) (int, error) {
	d := newDecoder(data, opts)
	return d.readObject(0, attrs, nil, 0)
}

// ReadArray parses one JSON array from data into storage described by array.
// It returns the position of the first byte following the closing bracket.
func ReadArray(data []byte, array *Array, opts ...Option) (int, error) {
	d := newDecoder(data, opts)
	return d.readArray(0, array)
}

func newDecoder(data []byte, opts []Option) decoder {
	if index := bytes.IndexByte(data, 0); index >= 0 {
		data = data[:index]
	}
	return decoder{data: data, options: resolveOptions(opts)}
}
