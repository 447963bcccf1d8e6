// Package domain holds the plain data types shared by the TeslaFi client and the collector.
package domain

import (
	"strconv"
	"strings"
)

// Snapshot is one point-in-time read of the TeslaFi feed: a flat mapping from
// field name to whatever the upstream JSON carried (string, number, bool, null).
// A Snapshot is never mutated after decoding.
type Snapshot map[string]any

// Field returns the value of name rendered as a string.
// ok is false when the field is absent, JSON null, or an empty string,
// which the feed uses interchangeably for "no data".
func (s Snapshot) Field(name string) (value string, ok bool) {
	v, present := s[name]
	if !present || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		t = strings.TrimSpace(t)
		if t == "" {
			return "", false
		}
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		if t {
			return "True", true
		}
		return "False", true
	default:
		return "", false
	}
}
