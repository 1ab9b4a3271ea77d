// Package form provides the parse-or-default helpers used for every numeric
// or date field read from a request. Malformed input is never an error: it
// falls back to the caller's default, and fields that are non-negative by
// domain rule clamp through NonNegInt.
package form

import (
	"strconv"
	"strings"
	"time"
)

// Int parses s as a base-10 integer, returning def when s is empty or
// malformed.
func Int(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// NonNegInt parses s like Int but additionally clamps negative values to def.
// Use for price, stock, caps and other domain-non-negative fields.
func NonNegInt(s string, def int) int {
	v := Int(s, def)
	if v < 0 {
		return def
	}
	return v
}

// Date parses a YYYY-MM-DD value. The boolean is false when s is empty or
// not a valid date.
func Date(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
