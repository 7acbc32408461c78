package microjson

import "fmt"

// Code identifies one precise parse failure
type Code int

const (
	ErrObStart     Code = iota + 1 //non-whitespace when expecting object start
	ErrAttrStart                   //non-whitespace when expecting attribute start
	ErrBadAttr                     //unknown attribute name
	ErrAttrLen                     //attribute name too long
	ErrNoArray                     //saw [ when not expecting array
	ErrNoBrak                      //array element specified, but no [
	ErrStrLong                     //string value too long
	ErrTokLong                     //token value too long
	ErrBadTrail                    //garbage while expecting comma or }
	ErrArrayStart                  //didn't find expected array start
	ErrObjArr                      //object array without usable element description
	ErrSubTooLong                  //too many array elements
	ErrBadSubTrail                 //garbage while expecting array comma
	ErrSubType                     //unsupported array element type
	ErrBadString                   //error while string parsing
	ErrCheckFail                   //check attribute not matched
	ErrNoParStr                    //strings are not supported in parallel arrays
	ErrBadEnum                     //invalid enumerated value
	ErrQNonString                  //saw quoted value when expecting nonstring
	ErrMisc                        //other data conversion error
	ErrBadNum                      //error while parsing a numerical argument
	ErrNullPtr                     //unexpected null value or attribute pointer
	ErrNoCurly                     //object element specified, but no {
	ErrNonQString                  //didn't see quoted value when expecting string
	ErrNoObject                    //saw { when not expecting object
	ErrTruncated                   //input ended before the value was complete
	ErrDepth                       //nesting exceeds the depth limit
)

var errorText = [...]string{
	0:              "unknown error while parsing JSON",
	ErrObStart:     "non-whitespace when expecting object start",
	ErrAttrStart:   "non-whitespace when expecting attribute start",
	ErrBadAttr:     "unknown attribute name",
	ErrAttrLen:     "attribute name too long",
	ErrNoArray:     "saw [ when not expecting array",
	ErrNoBrak:      "array element specified, but no [",
	ErrStrLong:     "string value too long",
	ErrTokLong:     "token value too long",
	ErrBadTrail:    "garbage while expecting comma or } or ]",
	ErrArrayStart:  "didn't find expected array start",
	ErrObjArr:      "error while parsing object array",
	ErrSubTooLong:  "too many array elements",
	ErrBadSubTrail: "garbage while expecting array comma",
	ErrSubType:     "unsupported array element type",
	ErrBadString:   "error while string parsing",
	ErrCheckFail:   "check attribute not matched",
	ErrNoParStr:    "can't support strings in parallel arrays",
	ErrBadEnum:     "invalid enumerated value",
	ErrQNonString:  "saw quoted value when expecting nonstring",
	ErrMisc:        "other data conversion error",
	ErrBadNum:      "error while parsing a numerical argument",
	ErrNullPtr:     "unexpected null value or attribute pointer",
	ErrNoCurly:     "object element specified, but no {",
	ErrNonQString:  "didn't see quoted value when expecting string",
	ErrNoObject:    "saw { when not expecting object",
	ErrTruncated:   "input ended before the value was complete",
	ErrDepth:       "nesting depth limit exceeded",
}

// Error returns code description
func (c Code) Error() string {
	return ErrorString(int(c))
}

// ErrorString returns description of a numeric error code, unknown codes share a fallback text
func ErrorString(code int) string {
	if code <= 0 || code >= len(errorText) {
		return errorText[0]
	}
	return errorText[code]
}

// Error represents a failed parse, Offset is the input position where the failure was detected
type Error struct {
	Code   Code
	Offset int
	Attr   string
}

func (e *Error) Error() string {
	if e.Attr != "" {
		return fmt.Sprintf("json: %v at %d (attribute %q)", e.Code.Error(), e.Offset, e.Attr)
	}
	return fmt.Sprintf("json: %v at %d", e.Code.Error(), e.Offset)
}

// Unwrap returns the underlying code, so errors.Is(err, ErrBadAttr) holds
func (e *Error) Unwrap() error {
	return e.Code
}
