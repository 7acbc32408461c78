package time

import (
	"errors"

	"github.com/viant/microjson/conv"
)

// ErrFormat reports a timestamp that does not follow YYYY-MM-DDTHH:MM:SS[.fraction]
var ErrFormat = errors.New("invalid ISO8601 timestamp")

const monthsPerYear = 12

var cumulativeDays = [monthsPerYear]int64{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// layout lists the fixed width digit groups and separators of YYYY-MM-DDTHH:MM:SS
var layout = [...]struct {
	digits    int
	separator byte
}{{4, '-'}, {2, '-'}, {2, 'T'}, {2, ':'}, {2, ':'}, {2, 0}}

// ParseISO8601 converts a UTC timestamp YYYY-MM-DDTHH:MM:SS, optionally followed by a
// fractional second part and a trailing Z, into seconds since the Unix epoch.
// The computation is pure calendar arithmetic, the host time zone database is never consulted.
func ParseISO8601(value []byte) (float64, error) {
	var fields [len(layout)]int
	pos := 0
	for i, group := range layout {
		for j := 0; j < group.digits; j++ {
			if pos >= len(value) || value[pos] < '0' || value[pos] > '9' {
				return 0, ErrFormat
			}
			fields[i] = 10*fields[i] + int(value[pos]-'0')
			pos++
		}
		if group.separator != 0 {
			if pos >= len(value) || value[pos] != group.separator {
				return 0, ErrFormat
			}
			pos++
		}
	}
	year, month, day, hour, minute, second := fields[0], fields[1], fields[2], fields[3], fields[4], fields[5]
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || second > 60 {
		return 0, ErrFormat
	}

	fraction := 0.0
	if pos < len(value) && value[pos] == '.' {
		parsed, consumed, err := conv.ParseReal(value[pos:])
		if err != nil || consumed == 0 {
			return 0, ErrFormat
		}
		fraction = parsed
		pos += consumed
	}
	if pos < len(value) && value[pos] == 'Z' {
		pos++
	}
	if pos != len(value) {
		return 0, ErrFormat
	}
	return float64(UnixSeconds(year, month, day, hour, minute, second)) + fraction, nil
}

// UnixSeconds returns seconds since the Unix epoch for UTC calendar fields, month is 1 based.
func UnixSeconds(year, month, day, hour, minute, second int) int64 {
	monthIndex := month - 1
	year += monthIndex / monthsPerYear
	monthIndex %= monthsPerYear
	y := int64(year)
	result := (y-1970)*365 + cumulativeDays[monthIndex]
	result += (y - 1968) / 4
	result -= (y - 1900) / 100
	result += (y - 1600) / 400
	if IsLeapYear(year) && monthIndex < 2 {
		result--
	}
	result += int64(day - 1)
	result = result*24 + int64(hour)
	result = result*60 + int64(minute)
	result = result*60 + int64(second)
	return result
}

// IsLeapYear reports whether year is a proleptic Gregorian leap year
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
