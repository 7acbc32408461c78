package microjson

import (
	"fmt"
	"reflect"
	"strconv"
	"unsafe"

	"github.com/viant/microjson/tags"
	"github.com/viant/tagly/format/text"
	"github.com/viant/xunsafe"
)

// BindStruct returns attributes bound to the fields of the struct dest points to.
// Field names are lower camel cased unless the mjson tag names the attribute; supported field types are
// int, uint, int16, uint16, float64, bool, byte, [N]byte strings, nested structs, and arrays or slices of those.
func BindStruct(dest any) ([]Attr, error) {
	rType := reflect.TypeOf(dest)
	if rType == nil || rType.Kind() != reflect.Ptr || rType.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected *struct, but had: %T", dest)
	}
	ptr := xunsafe.AsPointer(dest)
	if ptr == nil {
		return nil, fmt.Errorf("nil %T", dest)
	}
	return structAttrs(rType.Elem(), ptr, 0)
}

// StructAttrs returns field bound attributes describing elements of a TypeStructObject array of structType
func StructAttrs(structType reflect.Type) ([]Attr, error) {
	if structType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected struct, but had: %v", structType)
	}
	return structAttrs(structType, nil, 0)
}

// structAttrs builds attributes for fields of structType; with nil base fields are bound by their offset from
// the element start, otherwise directly to the fields of the struct at base
func structAttrs(structType reflect.Type, base unsafe.Pointer, offset uintptr) ([]Attr, error) {
	var result []Attr
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		tag, err := tags.Parse(field.Tag)
		if err != nil {
			return nil, fmt.Errorf("invalid %v.%v tag: %w", structType.Name(), field.Name, err)
		}
		if tag != nil && tag.Ignore {
			continue
		}
		if tag == nil {
			tag = &tags.Attribute{}
		}
		if !field.IsExported() && tag.Check == "" {
			continue
		}
		attr, err := fieldAttr(structType, field, tag, base, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to bind %v.%v: %w", structType.Name(), field.Name, err)
		}
		result = append(result, *attr)
	}
	return result, nil
}

func fieldAttr(structType reflect.Type, field reflect.StructField, tag *tags.Attribute, base unsafe.Pointer, offset uintptr) (*Attr, error) {
	xField := xunsafe.NewField(field)
	attr := &Attr{Name: tag.Name, MaxLen: tag.MaxLen, NoDefault: tag.NoDefault, Check: tag.Check}
	if attr.Name == "" {
		attr.Name = attributeName(field.Name)
	}
	for _, item := range tag.Enum {
		attr.Map = append(attr.Map, Enum{Name: item.Name, Value: item.Value})
	}
	if tag.Check != "" {
		attr.Type = TypeCheck
		return attr, nil
	}
	var fieldPtr unsafe.Pointer
	if base != nil {
		fieldPtr = xField.Pointer(base)
	}
	fieldType := field.Type
	switch {
	case tag.Type != "":
		aType, ok := ParseType(tag.Type)
		if !ok {
			return nil, fmt.Errorf("unsupported type: %v", tag.Type)
		}
		attr.Type = aType
	case fieldType.Kind() == reflect.Struct:
		attr.Type = TypeObject
		attrs, err := structAttrs(fieldType, fieldPtr, offset+field.Offset)
		if err != nil {
			return nil, err
		}
		attr.Attrs = attrs
		return attr, nil
	case isStringField(fieldType):
		attr.Type = TypeString
	case fieldType.Kind() == reflect.Array || fieldType.Kind() == reflect.Slice:
		if base == nil {
			return nil, fmt.Errorf("arrays are not supported in struct array elements")
		}
		array, err := fieldArray(structType, field, tag, fieldPtr, base)
		if err != nil {
			return nil, err
		}
		attr.Type = TypeArray
		attr.Array = array
		return attr, nil
	default:
		aType, ok := scalarType(fieldType.Kind())
		if !ok {
			return nil, fmt.Errorf("unsupported field type: %v", fieldType)
		}
		attr.Type = aType
	}
	if kind := attr.Type.kind(); kind != reflect.Invalid {
		if base != nil {
			attr.Slot = sequenceSlot(fieldPtr, 1, fieldType)
			if attr.Type == TypeString {
				attr.Slot = sequenceSlot(fieldPtr, fieldType.Len(), fieldType.Elem())
			}
		} else {
			attr.Slot = fieldSlot(xField)
			attr.Slot.offset += offset
		}
		if elem := slotElemKind(fieldType); elem != kind {
			return nil, fmt.Errorf("%v attribute can not be bound to %v", attr.Type, fieldType)
		}
	}
	if tag.HasDefault {
		value, err := parseDefault(attr.Type, tag.Default)
		if err != nil {
			return nil, err
		}
		attr.Default = value
	}
	return attr, nil
}

// fieldArray describes an array or slice field, elements are bound to the existing backing storage
func fieldArray(structType reflect.Type, field reflect.StructField, tag *tags.Attribute, fieldPtr, base unsafe.Pointer) (*Array, error) {
	elemType := field.Type.Elem()
	value := reflect.NewAt(field.Type, fieldPtr).Elem()
	data := fieldPtr
	if field.Type.Kind() == reflect.Slice {
		data = value.UnsafePointer()
	}
	ret := &Array{Store: sequenceSlot(data, value.Len(), elemType), MaxLen: tag.MaxLen}
	switch {
	case elemType.Kind() == reflect.Struct:
		ret.Type = TypeStructObject
		attrs, err := StructAttrs(elemType)
		if err != nil {
			return nil, err
		}
		ret.Attrs = attrs
	default:
		aType, ok := scalarType(elemType.Kind())
		if !ok {
			return nil, fmt.Errorf("unsupported array element type: %v", elemType)
		}
		ret.Type = aType
	}
	if tag.Count != "" {
		counter, ok := structType.FieldByName(tag.Count)
		if !ok || counter.Type.Kind() != reflect.Int {
			return nil, fmt.Errorf("count field %v has to be int", tag.Count)
		}
		ret.Count = (*int)(xunsafe.NewField(counter).Pointer(base))
	}
	return ret, nil
}

func attributeName(fieldName string) string {
	caseFormat := text.DetectCaseFormat(fieldName)
	if !caseFormat.IsDefined() {
		caseFormat = text.CaseFormatUpperCamel
	}
	return caseFormat.Format(fieldName, text.CaseFormatLowerCamel)
}

func isStringField(rType reflect.Type) bool {
	return rType.Kind() == reflect.Array && rType.Elem().Kind() == reflect.Uint8
}

func slotElemKind(rType reflect.Type) reflect.Kind {
	if isStringField(rType) {
		return reflect.Uint8
	}
	return rType.Kind()
}

func scalarType(kind reflect.Kind) (Type, bool) {
	switch kind {
	case reflect.Int:
		return TypeInteger, true
	case reflect.Uint:
		return TypeUInteger, true
	case reflect.Int16:
		return TypeShort, true
	case reflect.Uint16:
		return TypeUShort, true
	case reflect.Float64:
		return TypeReal, true
	case reflect.Bool:
		return TypeBoolean, true
	case reflect.Uint8:
		return TypeCharacter, true
	}
	return 0, false
}

func parseDefault(aType Type, literal string) (interface{}, error) {
	switch aType {
	case TypeInteger, TypeShort:
		return strconv.ParseInt(literal, 10, 64)
	case TypeUInteger, TypeUShort:
		return strconv.ParseUint(literal, 10, 64)
	case TypeReal, TypeTime:
		return strconv.ParseFloat(literal, 64)
	case TypeBoolean:
		return strconv.ParseBool(literal)
	case TypeString, TypeCharacter:
		return literal, nil
	}
	return nil, fmt.Errorf("%v attribute does not support default value", aType)
}
