package tags

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// TagName is the struct tag key describing a bound attribute
const TagName = "mjson"

type (
	// Attribute represents a parsed attribute tag, i.e.
	//   `mjson:"mode,enum={GPS=0,DGPS=1},default=0"`
	// The leading element without = names the attribute, - excludes the field.
	Attribute struct {
		Name       string
		Type       string
		Default    string
		HasDefault bool
		MaxLen     int
		NoDefault  bool
		Check      string
		//Count names a sibling int field receiving parsed array element count
		Count  string
		Enum   []Enum
		Ignore bool
	}

	// Enum represents one name=value enumeration pair
	Enum struct {
		Name  string
		Value int
	}
)

// Parse parses the attribute tag of a struct field, nil is returned when the field has no tag
func Parse(tag reflect.StructTag) (*Attribute, error) {
	literal, ok := tag.Lookup(TagName)
	if !ok {
		return nil, nil
	}
	return ParseAttribute(literal)
}

// ParseAttribute parses attribute tag literal
func ParseAttribute(literal string) (*Attribute, error) {
	ret := &Attribute{}
	if literal == "-" {
		ret.Ignore = true
		return ret, nil
	}
	index := 0
	err := Values(literal).MatchPairs(func(key, value string) error {
		defer func() { index++ }()
		if index == 0 && value == "" && !strings.EqualFold(key, "noDefault") {
			ret.Name = key
			return nil
		}
		switch strings.ToLower(key) {
		case "name":
			ret.Name = value
		case "type":
			ret.Type = value
		case "default":
			ret.Default = value
			ret.HasDefault = true
		case "maxlen":
			maxLen, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid maxLen %q: %w", value, err)
			}
			ret.MaxLen = maxLen
		case "nodefault":
			ret.NoDefault = value == "" || strings.EqualFold(value, "true")
		case "check":
			ret.Check = value
		case "count":
			ret.Count = value
		case "enum":
			return Values(value).MatchPairs(func(name, value string) error {
				enumValue, err := strconv.Atoi(value)
				if err != nil {
					return fmt.Errorf("invalid enum %v value %q: %w", name, value, err)
				}
				ret.Enum = append(ret.Enum, Enum{Name: name, Value: enumValue})
				return nil
			})
		default:
			return fmt.Errorf("unsupported %v tag option: %v", TagName, key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}
