package tags

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAttribute(t *testing.T) {
	var testCases = []struct {
		description string
		literal     string
		expect      *Attribute
		expectErr   bool
	}{
		{
			description: "name only",
			literal:     "count",
			expect:      &Attribute{Name: "count"},
		},
		{
			description: "excluded",
			literal:     "-",
			expect:      &Attribute{Ignore: true},
		},
		{
			description: "enumeration with default",
			literal:     "mode,enum={GPS=0,DGPS=1},default=1",
			expect: &Attribute{Name: "mode", Default: "1", HasDefault: true,
				Enum: []Enum{{Name: "GPS", Value: 0}, {Name: "DGPS", Value: 1}}},
		},
		{
			description: "options without name",
			literal:     ",type=time,noDefault",
			expect:      &Attribute{Type: "time", NoDefault: true},
		},
		{
			description: "string options",
			literal:     "tag,maxLen=8,check=TPV,count=Tags",
			expect:      &Attribute{Name: "tag", MaxLen: 8, Check: "TPV", Count: "Tags"},
		},
		{
			description: "invalid length",
			literal:     "tag,maxLen=x",
			expectErr:   true,
		},
		{
			description: "invalid enumeration",
			literal:     "mode,enum={GPS=zero}",
			expectErr:   true,
		},
		{
			description: "unsupported option",
			literal:     "tag,bogus=1",
			expectErr:   true,
		},
	}
	for _, testCase := range testCases {
		actual, err := ParseAttribute(testCase.literal)
		if testCase.expectErr {
			assert.NotNil(t, err, testCase.description)
			continue
		}
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		assert.EqualValues(t, testCase.expect, actual, testCase.description)
	}
}

func TestParse(t *testing.T) {
	type holder struct {
		Tagged   int `mjson:"x,default=3"`
		Untagged int
	}
	holderType := reflect.TypeOf(holder{})
	attr, err := Parse(holderType.Field(0).Tag)
	assert.Nil(t, err)
	assert.EqualValues(t, &Attribute{Name: "x", Default: "3", HasDefault: true}, attr)
	attr, err = Parse(holderType.Field(1).Tag)
	assert.Nil(t, err)
	assert.Nil(t, attr)
}
