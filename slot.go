package microjson

import (
	"reflect"
	"unsafe"

	"github.com/viant/xunsafe"
)

type slotKind uint8

const (
	slotNone slotKind = iota
	//slotDirect addresses a caller owned element sequence, one element per array offset
	slotDirect
	//slotStructs addresses a caller owned struct sequence, element i starts at ptr + i*size
	slotStructs
	//slotField addresses a member at offset within each struct element
	slotField
)

// Slot binds caller owned storage. Use Var or Slice for direct and parallel array bindings,
// Structs for a struct array store, and Field or Offset for struct members of a strided array.
type Slot struct {
	kind   slotKind
	ptr    unsafe.Pointer
	len    int
	size   uintptr
	offset uintptr
	elem   reflect.Kind
}

// Scalar lists element types that can be bound directly
type Scalar interface {
	~int | ~uint | ~int16 | ~uint16 | ~float64 | ~bool | ~uint8
}

// Var binds a single variable
func Var[T Scalar](value *T) Slot {
	if value == nil {
		return Slot{}
	}
	return Slice(unsafe.Slice(value, 1))
}

// Slice binds a fixed element sequence; as a parallel array field element i receives
// the value of the i-th object, as a string buffer it holds the bytes of the value
func Slice[T Scalar](items []T) Slot {
	if len(items) == 0 {
		return Slot{}
	}
	var zero T
	return Slot{
		kind: slotDirect,
		ptr:  unsafe.Pointer(unsafe.SliceData(items)),
		len:  len(items),
		size: unsafe.Sizeof(zero),
		elem: reflect.TypeOf(zero).Kind(),
	}
}

// Structs binds a struct sequence as the store of a TypeStructObject array
func Structs[T any](items []T) Slot {
	if len(items) == 0 {
		return Slot{}
	}
	var zero T
	return Slot{
		kind: slotStructs,
		ptr:  unsafe.Pointer(unsafe.SliceData(items)),
		len:  len(items),
		size: unsafe.Sizeof(zero),
		elem: reflect.Struct,
	}
}

// Field binds a named struct member for struct object array elements
func Field(structType reflect.Type, name string) Slot {
	for structType != nil && structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
	}
	if structType == nil || structType.Kind() != reflect.Struct {
		return Slot{}
	}
	if _, ok := structType.FieldByName(name); !ok {
		return Slot{}
	}
	return fieldSlot(xunsafe.FieldByName(structType, name))
}

// Offset binds a struct member by its raw byte offset, member type is not verified
func Offset(offset uintptr) Slot {
	return Slot{kind: slotField, offset: offset}
}

func fieldSlot(field *xunsafe.Field) Slot {
	if field == nil {
		return Slot{}
	}
	ret := Slot{kind: slotField, offset: field.Offset, size: field.Type.Size(), elem: field.Type.Kind()}
	if ret.elem == reflect.Array && field.Type.Elem().Kind() == reflect.Uint8 {
		ret.elem = reflect.Uint8
	}
	return ret
}

// sequenceSlot binds count elements of elemType starting at ptr
func sequenceSlot(ptr unsafe.Pointer, count int, elemType reflect.Type) Slot {
	if ptr == nil || count == 0 {
		return Slot{}
	}
	kind := slotDirect
	if elemType.Kind() == reflect.Struct {
		kind = slotStructs
	}
	return Slot{kind: kind, ptr: ptr, len: count, size: elemType.Size(), elem: elemType.Kind()}
}

// IsDefined returns true if slot binds any storage
func (s Slot) IsDefined() bool {
	return s.kind != slotNone
}

// Len returns number of bound elements
func (s Slot) Len() int {
	return s.len
}

// element returns address of index-th directly bound element
func (s *Slot) element(index int, kind reflect.Kind) (unsafe.Pointer, error) {
	if s.kind != slotDirect || index < 0 || index >= s.len || s.elem != kind {
		return nil, ErrNullPtr
	}
	return unsafe.Add(s.ptr, uintptr(index)*s.size), nil
}

// member returns address of field within index-th struct element: base + index*stride + offset
func (s *Slot) member(index int, field *Slot, kind reflect.Kind, width uintptr) (unsafe.Pointer, error) {
	if s.kind != slotStructs || index < 0 || index >= s.len || field.kind != slotField {
		return nil, ErrNullPtr
	}
	if field.elem != reflect.Invalid && field.elem != kind {
		return nil, ErrNullPtr
	}
	if field.offset+width > s.size {
		return nil, ErrNullPtr
	}
	return unsafe.Add(s.ptr, uintptr(index)*s.size+field.offset), nil
}

// targetAddress resolves where a value of attr has to be written. Outside of a struct object array
// the attribute's own binding is used, indexed by offset for parallel arrays; inside a struct object
// array the address is computed from the array base, element stride and the attribute field offset.
// Types without storage resolve to nil.
func targetAddress(attr *Attr, parent *Array, offset int) (unsafe.Pointer, error) {
	kind := attr.Type.kind()
	if kind == reflect.Invalid {
		return nil, nil
	}
	if parent == nil || parent.Type != TypeStructObject {
		if attr.Type == TypeString {
			offset = 0
		}
		return attr.Slot.element(offset, kind)
	}
	return parent.Store.member(offset, &attr.Slot, kind, attr.width(parent))
}
