package microjson

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fix struct {
	Count int
	Flag1 bool
	Flag2 bool
	Mode  int
	X     int
	Y     float64
	Name  [8]byte
	C     byte
	Time  float64
	U     uint
	S     int16
	US    uint16
	Kept  int
}

func (f *fix) attrs() []Attr {
	return []Attr{
		{Name: "count", Type: TypeInteger, Slot: Var(&f.Count), Default: 7},
		{Name: "flag1", Type: TypeBoolean, Slot: Var(&f.Flag1)},
		{Name: "flag2", Type: TypeBoolean, Slot: Var(&f.Flag2)},
		{Name: "mode", Type: TypeInteger, Slot: Var(&f.Mode), Map: []Enum{{Name: "GPS", Value: 0}, {Name: "DGPS", Value: 1}}},
		{Name: "x", Type: TypeInteger, Slot: Var(&f.X)},
		{Name: "x", Type: TypeReal, Slot: Var(&f.Y)},
		{Name: "name", Type: TypeString, Slot: Slice(f.Name[:])},
		{Name: "c", Type: TypeCharacter, Slot: Var(&f.C)},
		{Name: "time", Type: TypeTime, Slot: Var(&f.Time)},
		{Name: "u", Type: TypeUInteger, Slot: Var(&f.U)},
		{Name: "s", Type: TypeShort, Slot: Var(&f.S)},
		{Name: "us", Type: TypeUShort, Slot: Var(&f.US)},
		{Name: "class", Type: TypeCheck, Check: "TPV"},
		{Name: "skip", Type: TypeIgnore},
		{Name: "kept", Type: TypeInteger, Slot: Var(&f.Kept), NoDefault: true},
	}
}

func name8(value string) [8]byte {
	var ret [8]byte
	copy(ret[:], value)
	return ret
}

func TestReadObject(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		expect      fix
	}{
		{
			description: "flags and count",
			input:       `{"flag1":true,"flag2":false,"count":42}`,
			expect:      fix{Count: 42, Flag1: true, Kept: 99},
		},
		{
			description: "absent attribute takes default",
			input:       `{"flag1":true}`,
			expect:      fix{Count: 7, Flag1: true, Kept: 99},
		},
		{
			description: "empty object",
			input:       `{}`,
			expect:      fix{Count: 7, Kept: 99},
		},
		{
			description: "overload selects integer",
			input:       `{"x":3}`,
			expect:      fix{Count: 7, X: 3, Kept: 99},
		},
		{
			description: "overload selects real",
			input:       `{"x":3.5}`,
			expect:      fix{Count: 7, Y: 3.5, Kept: 99},
		},
		{
			description: "overload selects negative integer",
			input:       `{"x":-2}`,
			expect:      fix{Count: 7, X: -2, Kept: 99},
		},
		{
			description: "enumeration",
			input:       `{"mode":"DGPS"}`,
			expect:      fix{Count: 7, Mode: 1, Kept: 99},
		},
		{
			description: "string",
			input:       `{"name":"gpsd"}`,
			expect:      fix{Count: 7, Name: name8("gpsd"), Kept: 99},
		},
		{
			description: "string filling whole buffer",
			input:       `{"name":"12345678"}`,
			expect:      fix{Count: 7, Name: name8("12345678"), Kept: 99},
		},
		{
			description: "string escapes",
			input:       `{"name":"a\tb\u0041\""}`,
			expect:      fix{Count: 7, Name: name8("a\tbA\""), Kept: 99},
		},
		{
			description: "unicode escape keeps low byte",
			input:       `{"name":"\u0141"}`,
			expect:      fix{Count: 7, Name: name8("\x41"), Kept: 99},
		},
		{
			description: "unicode escape latin-1",
			input:       `{"name":"\u00e9"}`,
			expect:      fix{Count: 7, Name: name8("\xe9"), Kept: 99},
		},
		{
			description: "character",
			input:       `{"c":"z"}`,
			expect:      fix{Count: 7, C: 'z', Kept: 99},
		},
		{
			description: "timestamp",
			input:       `{"time":"2010-07-10T11:12:13.25"}`,
			expect:      fix{Count: 7, Time: 1278760333.25, Kept: 99},
		},
		{
			description: "sized integers",
			input:       `{"u":42,"s":-300,"us":65535}`,
			expect:      fix{Count: 7, U: 42, S: -300, US: 65535, Kept: 99},
		},
		{
			description: "check and ignore",
			input:       `{"class":"TPV","skip":"anything","count":2,"skip":12}`,
			expect:      fix{Count: 2, Kept: 99},
		},
		{
			description: "no default attribute",
			input:       `{"kept":5}`,
			expect:      fix{Count: 7, Kept: 5},
		},
		{
			description: "white space",
			input:       " \n{ \"count\" : 5 ,\t\"flag1\" : true }  ",
			expect:      fix{Count: 5, Flag1: true, Kept: 99},
		},
	}
	for _, testCase := range testCases {
		actual := fix{Kept: 99}
		end, err := ReadObject([]byte(testCase.input), actual.attrs())
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		assert.EqualValues(t, len(testCase.input), end, testCase.description)
		assert.EqualValues(t, testCase.expect, actual, testCase.description)
	}
}

func TestReadObject_Errors(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		options     []Option
		expect      Code
	}{
		{description: "empty input", input: ``, expect: ErrObStart},
		{description: "not an object", input: `[1]`, expect: ErrObStart},
		{description: "unknown attribute", input: `{"bogus":1}`, expect: ErrBadAttr},
		{description: "unquoted attribute", input: `{count:1}`, expect: ErrAttrStart},
		{description: "closing after comma", input: `{"count":1,}`, expect: ErrAttrStart},
		{description: "missing closing brace", input: `{"count":1`, expect: ErrTruncated},
		{description: "garbage after value", input: `{"count":1 x}`, expect: ErrBadTrail},
		{description: "string too long", input: `{"name":"123456789"}`, expect: ErrStrLong},
		{description: "character too long", input: `{"c":"ab"}`, expect: ErrStrLong},
		{description: "quoted integer", input: `{"count":"5"}`, expect: ErrQNonString},
		{description: "quoted boolean", input: `{"flag1":"true"}`, expect: ErrQNonString},
		{description: "unquoted string", input: `{"name":abc}`, expect: ErrNonQString},
		{description: "unquoted timestamp", input: `{"time":12}`, expect: ErrNonQString},
		{description: "unknown enumeration", input: `{"mode":"RTK"}`, expect: ErrBadEnum},
		{description: "check mismatch", input: `{"class":"SKY"}`, expect: ErrCheckFail},
		{description: "check too long", input: `{"class":"TPVX"}`, expect: ErrStrLong},
		{description: "malformed integer", input: `{"count":12ab}`, expect: ErrBadNum},
		{description: "integer out of range", input: `{"s":40000}`, expect: ErrBadNum},
		{description: "negative unsigned", input: `{"u":-1}`, expect: ErrBadNum},
		{description: "malformed boolean", input: `{"flag1":yes}`, expect: ErrMisc},
		{description: "malformed timestamp", input: `{"time":"2010-07-10"}`, expect: ErrMisc},
		{description: "unexpected array", input: `{"count":[1]}`, expect: ErrNoArray},
		{description: "unexpected object", input: `{"count":{}}`, expect: ErrNoObject},
		{description: "malformed unicode escape", input: `{"name":"\u00zz"}`, expect: ErrBadString},
		{description: "attribute name too long", input: `{"` + strings.Repeat("a", AttrNameMax+1) + `":1}`, expect: ErrAttrLen},
		{description: "lowered attribute name limit", input: `{"flag1":true}`, options: []Option{WithAttrNameMax(3)}, expect: ErrAttrLen},
		{description: "token too long", input: `{"count":123456}`, options: []Option{WithValueMax(4)}, expect: ErrTokLong},
		{description: "string over value limit", input: `{"name":"abcdef"}`, options: []Option{WithValueMax(4)}, expect: ErrStrLong},
	}
	for _, testCase := range testCases {
		actual := fix{}
		end, err := ReadObject([]byte(testCase.input), actual.attrs(), testCase.options...)
		assert.ErrorIs(t, err, testCase.expect, testCase.description)
		assert.EqualValues(t, 0, end, testCase.description)
		parseErr, ok := err.(*Error)
		if assert.True(t, ok, testCase.description) {
			assert.EqualValues(t, testCase.expect, parseErr.Code, testCase.description)
		}
	}
}

func TestReadObject_ErrorPosition(t *testing.T) {
	actual := fix{}
	_, err := ReadObject([]byte(`{"bogus":1}`), actual.attrs())
	parseErr, ok := err.(*Error)
	if !assert.True(t, ok) {
		return
	}
	assert.EqualValues(t, 7, parseErr.Offset)
	assert.EqualValues(t, "bogus", parseErr.Attr)
}

func TestReadObject_BackToBack(t *testing.T) {
	input := []byte(`{"count":1} {"count":2,"flag2":true}` + "\x00" + `{"count":3}`)
	var counts []int
	for offset := 0; offset < len(input) && input[offset] != 0; {
		actual := fix{}
		end, err := ReadObject(input[offset:], actual.attrs())
		if !assert.Nil(t, err) {
			return
		}
		counts = append(counts, actual.Count)
		offset += end
	}
	assert.EqualValues(t, []int{1, 2}, counts)
}

func TestReadObject_NulTerminated(t *testing.T) {
	actual := fix{}
	input := []byte(`{"count":3}` + "\x00" + `garbage`)
	end, err := ReadObject(input, actual.attrs())
	assert.Nil(t, err)
	assert.EqualValues(t, 11, end)
	assert.EqualValues(t, 3, actual.Count)

	_, err = ReadObject([]byte(`{"count":3`+"\x00"+`}`), actual.attrs())
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestReadObject_Idempotent(t *testing.T) {
	input := []byte(`{"flag1":true,"count":42,"name":"gpsd","time":"2010-07-10T11:12:13.25","x":3.5}`)
	first, second := fix{}, fix{}
	_, err := ReadObject(input, first.attrs())
	assert.Nil(t, err)
	_, err = ReadObject(input, second.attrs())
	assert.Nil(t, err)
	assert.Equal(t, first, second)
}

func TestReadObject_Nested(t *testing.T) {
	var lat, lon float64
	var sats [4]int
	var count int
	attrs := []Attr{
		{Name: "pos", Type: TypeObject, Attrs: []Attr{
			{Name: "lat", Type: TypeReal, Slot: Var(&lat)},
			{Name: "lon", Type: TypeReal, Slot: Var(&lon)},
		}},
		{Name: "sats", Type: TypeArray, Array: &Array{Type: TypeInteger, Store: Slice(sats[:]), Count: &count}},
	}

	var testCases = []struct {
		description string
		input       string
		expectErr   Code
		expectLat   float64
		expectLon   float64
		expectSats  [4]int
		expectCount int
	}{
		{
			description: "nested object and array",
			input:       `{"pos":{"lat":46.5,"lon":-2.25},"sats":[1, 2 ,3]}`,
			expectLat:   46.5,
			expectLon:   -2.25,
			expectSats:  [4]int{1, 2, 3},
			expectCount: 3,
		},
		{
			description: "empty array",
			input:       `{"sats":[]}`,
			expectCount: 0,
		},
		{description: "too many elements", input: `{"sats":[1,2,3,4,5]}`, expectErr: ErrSubTooLong},
		{description: "array without bracket", input: `{"sats":5}`, expectErr: ErrNoBrak},
		{description: "object without curly", input: `{"pos":1}`, expectErr: ErrNoCurly},
		{description: "nested failure", input: `{"pos":{"alt":1}}`, expectErr: ErrBadAttr},
		{description: "array trailing garbage", input: `{"sats":[1 2]}`, expectErr: ErrBadSubTrail},
	}
	for _, testCase := range testCases {
		lat, lon, sats, count = 0, 0, [4]int{}, -1
		_, err := ReadObject([]byte(testCase.input), attrs)
		if testCase.expectErr != 0 {
			assert.ErrorIs(t, err, testCase.expectErr, testCase.description)
			continue
		}
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		assert.EqualValues(t, testCase.expectLat, lat, testCase.description)
		assert.EqualValues(t, testCase.expectLon, lon, testCase.description)
		assert.EqualValues(t, testCase.expectSats, sats, testCase.description)
		assert.EqualValues(t, testCase.expectCount, count, testCase.description)
	}
}

func TestReadObject_Depth(t *testing.T) {
	var lat float64
	attrs := []Attr{{Name: "pos", Type: TypeObject, Attrs: []Attr{{Name: "lat", Type: TypeReal, Slot: Var(&lat)}}}}
	input := []byte(`{"pos":{"lat":1.5}}`)
	_, err := ReadObject(input, attrs, WithMaxDepth(1))
	assert.ErrorIs(t, err, ErrDepth)
	_, err = ReadObject(input, attrs, WithMaxDepth(2))
	assert.Nil(t, err)
	assert.EqualValues(t, 1.5, lat)
}

func TestReadObject_Defaults(t *testing.T) {
	var count int
	var ratio float64
	var name [4]byte
	var c byte
	var u uint
	attrs := []Attr{
		{Name: "count", Type: TypeInteger, Slot: Var(&count), Default: int64(-3)},
		{Name: "ratio", Type: TypeReal, Slot: Var(&ratio), Default: 2},
		{Name: "name", Type: TypeString, Slot: Slice(name[:]), Default: "abcdef"},
		{Name: "c", Type: TypeCharacter, Slot: Var(&c), Default: "x"},
		{Name: "u", Type: TypeUInteger, Slot: Var(&u), Default: uint(9)},
	}
	_, err := ReadObject([]byte(`{}`), attrs)
	assert.Nil(t, err)
	assert.EqualValues(t, -3, count)
	assert.EqualValues(t, 2.0, ratio)
	assert.EqualValues(t, [4]byte{'a', 'b', 'c', 'd'}, name)
	assert.EqualValues(t, 'x', c)
	assert.EqualValues(t, 9, u)

	attrs[4].Default = -1
	_, err = ReadObject([]byte(`{}`), attrs)
	assert.ErrorIs(t, err, ErrMisc)
}

func TestReadObject_StringClearsStorage(t *testing.T) {
	var name [8]byte
	attrs := []Attr{{Name: "name", Type: TypeString, Slot: Slice(name[:]), MaxLen: 3, Default: "ab"}}

	copy(name[:], "abcdefg")
	_, err := ReadObject([]byte(`{"name":"xyz"}`), attrs)
	assert.Nil(t, err)
	assert.EqualValues(t, [8]byte{'x', 'y', 'z'}, name)
	assert.EqualValues(t, "xyz", CString(name[:]))

	copy(name[:], "abcdefg")
	_, err = ReadObject([]byte(`{}`), attrs)
	assert.Nil(t, err)
	assert.EqualValues(t, [8]byte{'a', 'b'}, name)

	attrs[0].Default = "abcdef"
	copy(name[:], "abcdefg")
	_, err = ReadObject([]byte(`{}`), attrs)
	assert.Nil(t, err)
	assert.EqualValues(t, [8]byte{'a', 'b', 'c'}, name)

	_, err = ReadObject([]byte(`{"name":"wxyz"}`), attrs)
	assert.ErrorIs(t, err, ErrStrLong)
}

func TestReadObject_Unbound(t *testing.T) {
	attrs := []Attr{{Name: "count", Type: TypeInteger}}
	_, err := ReadObject([]byte(`{"count":1}`), attrs)
	assert.ErrorIs(t, err, ErrNullPtr)
}

func TestReadObject_Logger(t *testing.T) {
	buffer := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buffer, &slog.HandlerOptions{Level: LevelTrace}))
	traced, plain := fix{}, fix{}
	input := []byte(`{"flag1":true,"count":42}`)
	_, err := ReadObject(input, traced.attrs(), WithLogger(logger))
	assert.Nil(t, err)
	_, err = ReadObject(input, plain.attrs())
	assert.Nil(t, err)
	assert.Equal(t, plain, traced)
	assert.Contains(t, buffer.String(), "state=await_attr")
	assert.Contains(t, buffer.String(), "attr=count")
}
