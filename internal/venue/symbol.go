package venue

import (
	"fmt"
	"strings"

	"github.com/Checker-Finance/market-snapshot/pkg/model"
)

const quoteSuffix = "USDT"

// Normalize maps a venue-agnostic symbol ("btcusdt") to the instrument id the
// given venue expects. Rules are per-venue: suffixing conventions differ
// structurally between venues, not just cosmetically.
//
// Feeding an already-transformed id back in is rejected, never re-transformed:
// "BTC-USDT-SWAP" fails the alphanumeric check for every venue.
func Normalize(rawSymbol string, v model.Venue) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(rawSymbol))
	if s == "" || !isAlnum(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSymbol, rawSymbol)
	}
	if !strings.HasSuffix(s, quoteSuffix) {
		return "", fmt.Errorf("%w: only *%s symbols supported (e.g. BTC%s)", ErrInvalidSymbol, quoteSuffix, quoteSuffix)
	}

	switch v {
	case model.VenueOKX:
		// OKX addresses perpetual swaps as BASE-USDT-SWAP.
		base := strings.TrimSuffix(s, quoteSuffix)
		if base == "" {
			return "", fmt.Errorf("%w: %q has no base asset", ErrInvalidSymbol, rawSymbol)
		}
		return base + "-" + quoteSuffix + "-SWAP", nil
	case model.VenueBinance, model.VenueBybit:
		// Both use the concatenated pair unchanged.
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVenue, v)
}

func isAlnum(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
