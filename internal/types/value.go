package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Value holds a JSON field whose type varies between platform payloads.
// A missing field and an explicit null both read as not present.
type Value struct {
	raw json.RawMessage
}

// RawValue wraps a JSON literal; mostly useful in tests.
func RawValue(literal string) Value {
	var v Value
	_ = v.UnmarshalJSON([]byte(literal))
	return v
}

// UnmarshalJSON keeps the raw literal so accessors can decide how to read it.
func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		v.raw = nil
		return nil
	}
	v.raw = append(v.raw[:0], b...)
	return nil
}

// MarshalJSON writes the literal back out unchanged.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Present() {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// Present reports whether the field carried a non-null value.
func (v Value) Present() bool {
	return len(v.raw) > 0
}

func (v Value) kind() byte {
	if !v.Present() {
		return 0
	}
	return v.raw[0]
}

func (v Value) isNumber() bool {
	c := v.kind()
	return c == '-' || (c >= '0' && c <= '9')
}

// Number returns the value when it is a JSON number. Numeric strings do not count.
func (v Value) Number() (float64, bool) {
	if !v.isNumber() {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(v.raw), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Text returns the textual form of a scalar: strings unquoted, numbers in
// shortest form, booleans as true/false. Objects and arrays have no text.
func (v Value) Text() (string, bool) {
	switch c := v.kind(); {
	case c == '"':
		var s string
		if err := json.Unmarshal(v.raw, &s); err != nil {
			return "", false
		}
		return s, true
	case v.isNumber():
		f, ok := v.Number()
		if !ok {
			return "", false
		}
		return strconv.FormatFloat(f, 'f', -1, 64), true
	case c == 't' || c == 'f':
		return string(v.raw), true
	}
	return "", false
}

// NonEmptyObject reports whether the value is a JSON object with at least one key.
func (v Value) NonEmptyObject() bool {
	if v.kind() != '{' {
		return false
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(v.raw, &m); err != nil {
		return false
	}
	return len(m) > 0
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
}

// Time parses a date-time. Strings are tried against a fixed list of
// layouts (zone-less layouts are read as UTC); JSON numbers are epoch
// milliseconds.
func (v Value) Time() (time.Time, bool) {
	if f, ok := v.Number(); ok {
		return time.UnixMilli(int64(f)).UTC(), true
	}
	if v.kind() != '"' {
		return time.Time{}, false
	}
	s, _ := v.Text()
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
