// Package schema loads attribute descriptions from YAML, allocates their storage and renders parsed values.
package schema

import (
	"fmt"
	"sort"

	"github.com/viant/microjson"
	ftime "github.com/viant/microjson/format/time"
	"gopkg.in/yaml.v3"
)

// DefaultArrayLen is used when an array attribute does not declare maxLen
const DefaultArrayLen = 16

// DefaultStringLen is used when a string attribute does not declare maxLen
const DefaultStringLen = 64

type (
	// Document represents an object schema, i.e.
	//
	//	attributes:
	//	  - name: count
	//	    type: integer
	//	    default: 7
	//	  - name: mode
	//	    type: integer
	//	    enum: {GPS: 0, DGPS: 1}
	//	  - name: sats
	//	    type: array
	//	    element: {type: integer, maxLen: 12}
	Document struct {
		Attributes []*Attribute `yaml:"attributes"`
		attrs      []microjson.Attr
	}

	// Attribute represents one expected object attribute
	Attribute struct {
		Name      string         `yaml:"name"`
		Type      string         `yaml:"type"`
		Default   interface{}    `yaml:"default,omitempty"`
		MaxLen    int            `yaml:"maxLen,omitempty"`
		NoDefault bool           `yaml:"noDefault,omitempty"`
		Check     string         `yaml:"check,omitempty"`
		Enum      map[string]int `yaml:"enum,omitempty"`
		//Element describes array elements
		Element *Element `yaml:"element,omitempty"`
		//Attributes describe a nested object
		Attributes []*Attribute `yaml:"attributes,omitempty"`
		aType      microjson.Type
		storage    *storage
	}

	// Element represents array element description
	Element struct {
		Type string `yaml:"type"`
		//MaxLen limits element count
		MaxLen int `yaml:"maxLen,omitempty"`
		//BufferSize limits total bytes of string elements
		BufferSize int `yaml:"bufferSize,omitempty"`
		//Attributes describe object elements stored as parallel arrays
		Attributes []*Attribute `yaml:"attributes,omitempty"`
		aType      microjson.Type
		count      int
		storage    *storage
	}
)

// Load parses YAML schema and allocates storage for all attributes
func Load(data []byte) (*Document, error) {
	ret := &Document{}
	if err := yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode schema: %w", err)
	}
	if err := ret.init(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (d *Document) init() error {
	attrs, err := buildAttrs(d.Attributes, 1)
	if err != nil {
		return err
	}
	d.attrs = attrs
	return nil
}

// Attrs returns attributes bound to the document storage
func (d *Document) Attrs() []microjson.Attr {
	return d.attrs
}

// Decode parses an object from data into the document storage and returns the position past it
func (d *Document) Decode(data []byte, opts ...microjson.Option) (int, error) {
	return microjson.ReadObject(data, d.attrs, opts...)
}

// buildAttrs allocates storage of size elements for each attribute, size exceeds 1 for parallel array elements
func buildAttrs(attributes []*Attribute, size int) ([]microjson.Attr, error) {
	var result []microjson.Attr
	for _, attribute := range attributes {
		attr, err := attribute.build(size)
		if err != nil {
			return nil, fmt.Errorf("invalid attribute %v: %w", attribute.Name, err)
		}
		result = append(result, *attr)
	}
	return result, nil
}

func (a *Attribute) build(size int) (*microjson.Attr, error) {
	aType, ok := microjson.ParseType(a.Type)
	if !ok {
		return nil, fmt.Errorf("unsupported type: %q", a.Type)
	}
	a.aType = aType
	ret := &microjson.Attr{Name: a.Name, Type: aType, MaxLen: a.MaxLen, NoDefault: a.NoDefault, Check: a.Check}
	if ret.Default = a.Default; aType == microjson.TypeTime {
		if literal, ok := a.Default.(string); ok {
			seconds, err := ftime.ParseISO8601([]byte(literal))
			if err != nil {
				return nil, err
			}
			ret.Default = seconds
		}
	}
	for _, name := range sortedKeys(a.Enum) {
		ret.Map = append(ret.Map, microjson.Enum{Name: name, Value: a.Enum[name]})
	}
	if size > 1 && (aType == microjson.TypeString || aType == microjson.TypeArray) {
		return nil, fmt.Errorf("%v is not supported in object arrays", aType)
	}
	switch aType {
	case microjson.TypeArray:
		if a.Element == nil {
			return nil, fmt.Errorf("element was empty")
		}
		array, err := a.Element.build()
		if err != nil {
			return nil, err
		}
		ret.Array = array
	case microjson.TypeObject:
		if size > 1 {
			return nil, fmt.Errorf("nested objects are not supported in object arrays")
		}
		attrs, err := buildAttrs(a.Attributes, size)
		if err != nil {
			return nil, err
		}
		ret.Attrs = attrs
	default:
		width := 1
		if aType == microjson.TypeString {
			if width = a.MaxLen; width == 0 {
				width = DefaultStringLen
			}
		}
		a.storage = newStorage(aType, size, width)
		ret.Slot = a.storage.slot()
	}
	return ret, nil
}

func (e *Element) build() (*microjson.Array, error) {
	aType, ok := microjson.ParseType(e.Type)
	if !ok {
		return nil, fmt.Errorf("unsupported element type: %q", e.Type)
	}
	e.aType = aType
	maxLen := e.MaxLen
	if maxLen == 0 {
		maxLen = DefaultArrayLen
	}
	ret := &microjson.Array{Type: aType, MaxLen: maxLen, Count: &e.count}
	switch aType {
	case microjson.TypeObject:
		attrs, err := buildAttrs(e.Attributes, maxLen)
		if err != nil {
			return nil, err
		}
		ret.Attrs = attrs
	case microjson.TypeString:
		bufferSize := e.BufferSize
		if bufferSize == 0 {
			bufferSize = maxLen * DefaultStringLen
		}
		e.storage = &storage{strings: make([][]byte, maxLen), buffer: make([]byte, bufferSize)}
		ret.Strings = e.storage.strings
		ret.Buffer = e.storage.buffer
	default:
		e.storage = newStorage(aType, maxLen, 1)
		ret.Store = e.storage.slot()
	}
	return ret, nil
}

func sortedKeys(values map[string]int) []string {
	var result = make([]string, 0, len(values))
	for key := range values {
		result = append(result, key)
	}
	sort.Strings(result)
	return result
}
