package microjson

import (
	"reflect"
	"unsafe"
)

// Type represents expected JSON value type of an attribute or array element
type Type int

const (
	TypeInteger Type = iota
	TypeUInteger
	TypeReal
	TypeString
	TypeBoolean
	TypeCharacter
	TypeTime
	TypeObject
	TypeStructObject
	TypeArray
	TypeCheck
	TypeIgnore
	TypeShort
	TypeUShort
)

var typeNames = [...]string{
	TypeInteger:      "integer",
	TypeUInteger:     "uinteger",
	TypeReal:         "real",
	TypeString:       "string",
	TypeBoolean:      "boolean",
	TypeCharacter:    "character",
	TypeTime:         "time",
	TypeObject:       "object",
	TypeStructObject: "structobject",
	TypeArray:        "array",
	TypeCheck:        "check",
	TypeIgnore:       "ignore",
	TypeShort:        "short",
	TypeUShort:       "ushort",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// ParseType returns a type for its name
func ParseType(name string) (Type, bool) {
	for i, candidate := range typeNames {
		if candidate == name {
			return Type(i), true
		}
	}
	return 0, false
}

// kind returns the Go kind of storage written for a type, reflect.Invalid for types without storage
func (t Type) kind() reflect.Kind {
	switch t {
	case TypeInteger:
		return reflect.Int
	case TypeUInteger:
		return reflect.Uint
	case TypeShort:
		return reflect.Int16
	case TypeUShort:
		return reflect.Uint16
	case TypeReal, TypeTime:
		return reflect.Float64
	case TypeBoolean:
		return reflect.Bool
	case TypeCharacter, TypeString:
		return reflect.Uint8
	}
	return reflect.Invalid
}

func (t Type) isInteger() bool {
	switch t {
	case TypeInteger, TypeUInteger, TypeShort, TypeUShort:
		return true
	}
	return false
}

var kindSizes = map[reflect.Kind]uintptr{
	reflect.Int:     unsafe.Sizeof(int(0)),
	reflect.Uint:    unsafe.Sizeof(uint(0)),
	reflect.Int16:   2,
	reflect.Uint16:  2,
	reflect.Float64: 8,
	reflect.Bool:    1,
	reflect.Uint8:   1,
}

type (
	//Enum maps quoted name to its integer value
	Enum struct {
		Name  string
		Value int
	}

	// Attr describes one expected object attribute.
	// Several consecutive attributes may share a name when they differ in type,
	// the first one syntactically matching the actual value is applied.
	Attr struct {
		Name string
		Type Type
		//Slot binds storage; in a strided struct array it carries a field binding
		Slot Slot
		//Default is written before scanning unless NoDefault is set
		Default interface{}
		//MaxLen limits string value bytes, it defaults to the bound storage size
		MaxLen int
		//Map translates quoted names into integer values
		Map       []Enum
		NoDefault bool
		//Check is the literal a TypeCheck value has to match
		Check string
		//Array describes a TypeArray value
		Array *Array
		//Attrs describes a TypeObject value
		Attrs []Attr
	}

	// Array describes an expected array value
	Array struct {
		Type Type
		//Store holds scalar elements (Slice) or struct elements (Structs)
		Store Slot
		//Strings receives string elements as sub slices of Buffer
		Strings [][]byte
		Buffer  []byte
		//Attrs describes object or struct object elements
		Attrs []Attr
		//MaxLen limits element count, it defaults to the bound storage size
		MaxLen int
		//Count receives actual number of parsed elements
		Count *int
	}
)

// stringCap returns string capacity of an attribute in the supplied addressing context
func (a *Attr) stringCap(parent *Array) int {
	bound := a.Slot.len
	if parent != nil && parent.Type == TypeStructObject {
		bound = int(a.Slot.size)
		if bound == 0 {
			bound = -1
		}
	}
	if a.MaxLen > 0 && (bound < 0 || a.MaxLen < bound) {
		return a.MaxLen
	}
	if bound < 0 {
		return 0
	}
	return bound
}

// stringSize returns bytes of the bound string storage, at least the string capacity
func (a *Attr) stringSize(parent *Array) int {
	size := a.Slot.len
	if parent != nil && parent.Type == TypeStructObject {
		size = int(a.Slot.size)
	}
	if capacity := a.stringCap(parent); size < capacity {
		return capacity
	}
	return size
}

// width returns the number of bytes a value write occupies
func (a *Attr) width(parent *Array) uintptr {
	if a.Type == TypeString {
		return uintptr(a.stringSize(parent))
	}
	return kindSizes[a.Type.kind()]
}

func (a *Attr) acceptsQuoted() bool {
	switch a.Type {
	case TypeString, TypeCharacter, TypeCheck, TypeTime, TypeIgnore:
		return true
	}
	return len(a.Map) > 0
}

func (a *Attr) requiresQuoted() bool {
	switch a.Type {
	case TypeString, TypeCheck, TypeTime:
		return true
	}
	return len(a.Map) > 0
}

func (a *Attr) lookupEnum(name []byte) (int, bool) {
	for i := range a.Map {
		if a.Map[i].Name == string(name) {
			return a.Map[i].Value, true
		}
	}
	return 0, false
}

// capacity returns maximum number of elements the array accepts
func (a *Array) capacity() int {
	bound := -1
	switch a.Type {
	case TypeString:
		bound = len(a.Strings)
	case TypeObject:
		for i := range a.Attrs {
			slot := &a.Attrs[i].Slot
			if slot.kind == slotDirect && a.Attrs[i].Type != TypeString && (bound < 0 || slot.len < bound) {
				bound = slot.len
			}
		}
	default:
		bound = a.Store.len
	}
	if a.MaxLen > 0 && (bound < 0 || a.MaxLen < bound) {
		return a.MaxLen
	}
	if bound < 0 {
		return 0
	}
	return bound
}

// validate checks that elements of the array can be stored
func (a *Array) validate() error {
	switch a.Type {
	case TypeString:
		if len(a.Strings) == 0 {
			return ErrNullPtr
		}
	case TypeObject:
		if len(a.Attrs) == 0 {
			return ErrObjArr
		}
	case TypeStructObject:
		if len(a.Attrs) == 0 || a.Store.kind != slotStructs {
			return ErrObjArr
		}
	case TypeInteger, TypeUInteger, TypeShort, TypeUShort, TypeReal, TypeBoolean:
		if a.Store.kind != slotDirect || a.Store.elem != a.Type.kind() {
			return ErrNullPtr
		}
	default:
		return ErrSubType
	}
	return nil
}

// CString returns the content of a fixed string buffer up to the first NUL byte
func CString(buffer []byte) string {
	for i, c := range buffer {
		if c == 0 {
			return string(buffer[:i])
		}
	}
	return string(buffer)
}
