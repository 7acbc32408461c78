package schema

import (
	"github.com/francoispqt/gojay"
	"github.com/viant/microjson"
)

// JSON renders current values of the document storage
func (d *Document) JSON() ([]byte, error) {
	return gojay.MarshalJSONObject(&objectView{attributes: d.Attributes})
}

// objectView renders attributes, index selects the element of parallel array storage
type objectView struct {
	attributes []*Attribute
	index      int
}

func (o *objectView) MarshalJSONObject(enc *gojay.Encoder) {
	for _, attribute := range o.attributes {
		switch attribute.aType {
		case microjson.TypeArray:
			enc.ArrayKey(attribute.Name, &elementList{element: attribute.Element})
		case microjson.TypeObject:
			enc.ObjectKey(attribute.Name, &objectView{attributes: attribute.Attributes, index: o.index})
		case microjson.TypeCheck, microjson.TypeIgnore, microjson.TypeStructObject:
		default:
			attribute.storage.encodeKey(enc, attribute.Name, o.index)
		}
	}
}

func (o *objectView) IsNil() bool {
	return o == nil
}

// elementList renders parsed array elements
type elementList struct {
	element *Element
}

func (l *elementList) MarshalJSONArray(enc *gojay.Encoder) {
	element := l.element
	for i := 0; i < element.count; i++ {
		switch element.aType {
		case microjson.TypeObject:
			enc.Object(&objectView{attributes: element.Attributes, index: i})
		case microjson.TypeString:
			enc.String(string(element.storage.strings[i]))
		default:
			element.storage.encode(enc, i)
		}
	}
}

func (l *elementList) IsNil() bool {
	return l == nil || l.element == nil
}

func (s *storage) encodeKey(enc *gojay.Encoder, key string, index int) {
	switch s.aType {
	case microjson.TypeInteger:
		enc.IntKey(key, s.ints[index])
	case microjson.TypeUInteger:
		enc.Uint64Key(key, uint64(s.uints[index]))
	case microjson.TypeShort:
		enc.IntKey(key, int(s.shorts[index]))
	case microjson.TypeUShort:
		enc.IntKey(key, int(s.ushorts[index]))
	case microjson.TypeReal, microjson.TypeTime:
		enc.FloatKey(key, s.reals[index])
	case microjson.TypeBoolean:
		enc.BoolKey(key, s.bools[index])
	case microjson.TypeCharacter:
		enc.StringKey(key, microjson.CString(s.bytes[index:index+1]))
	case microjson.TypeString:
		enc.StringKey(key, microjson.CString(s.bytes[index*s.width:(index+1)*s.width]))
	}
}

func (s *storage) encode(enc *gojay.Encoder, index int) {
	switch s.aType {
	case microjson.TypeInteger:
		enc.Int(s.ints[index])
	case microjson.TypeUInteger:
		enc.Uint64(uint64(s.uints[index]))
	case microjson.TypeShort:
		enc.Int(int(s.shorts[index]))
	case microjson.TypeUShort:
		enc.Int(int(s.ushorts[index]))
	case microjson.TypeReal:
		enc.Float(s.reals[index])
	case microjson.TypeBoolean:
		enc.Bool(s.bools[index])
	}
}
