package shared

import (
	"strings"
	"time"
)

// ParseDateBound parses an optional RFC 3339 or YYYY-MM-DD filter value.
// An empty value yields nil. A date-only upper bound (endOfDay) moves to the
// start of the next day so the whole day is included.
func ParseDateBound(v string, endOfDay bool) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, NewDomainError("INVALID_INPUT", "Invalid date: "+v)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1)
	}
	return &t, nil
}
