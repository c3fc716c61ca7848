package venue

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// parseFloat parses a venue string numeric into an optional float.
// Venues ship numbers as strings with arbitrary precision; decimal carries the
// parse so "0.000072500000000000" style payloads round-trip cleanly.
// Missing or unparsable values become nil, never an error: absent fields are
// expected for illiquid or spot-only instruments.
func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	f, _ := d.Float64()
	return &f
}

// parseMillis parses a millisecond epoch timestamp, string or numeric in origin.
func parseMillis(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &ms
}

func strPtr(s string) *string { return &s }
