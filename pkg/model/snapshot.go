package model

import (
	"fmt"
	"strings"
)

// Venue identifies a supported exchange.
type Venue string

const (
	VenueOKX     Venue = "okx"
	VenueBinance Venue = "binance"
	VenueBybit   Venue = "bybit"
)

// ParseVenue resolves a caller-supplied exchange label to a supported venue.
// Matching is case-insensitive; the raw label is not canonicalized anywhere else.
func ParseVenue(label string) (Venue, error) {
	switch Venue(strings.ToLower(strings.TrimSpace(label))) {
	case VenueOKX:
		return VenueOKX, nil
	case VenueBinance:
		return VenueBinance, nil
	case VenueBybit:
		return VenueBybit, nil
	}
	return "", fmt.Errorf("unsupported exchange %q (supported: okx, binance, bybit)", label)
}

// InstrumentRef ties a venue-agnostic symbol to the identifier one venue uses for it.
// Built per request, never persisted.
type InstrumentRef struct {
	RawSymbol    string
	Venue        Venue
	InstrumentID string
}

// RawReadings is the loosely-typed bag an adapter extracts from one venue's
// responses. Every field is optional: venues expose different fields and omit
// them for illiquid instruments, so consumers must never assume presence.
type RawReadings struct {
	LastPrice           *float64
	Open24h             *float64
	QuoteVolume24h      *float64
	FundingRate         *float64
	OpenInterest        *float64
	OpenInterestUnit    *string
	ExchangeTimestampMS *int64
}

// MarketSnapshot is the canonical, venue-normalized market state record.
// Nullable fields are pointers and serialize as explicit JSON nulls: a missing
// funding rate is data ("this venue has none right now"), not an omission.
type MarketSnapshot struct {
	Symbol       string `json:"symbol"`
	Exchange     string `json:"exchange"`
	Source       string `json:"source"`
	InstrumentID string `json:"instrument_id"`

	Price          *float64 `json:"price"`
	PriceQuote     string   `json:"price_quote"`
	PriceChange24h *float64 `json:"price_change_24h"`

	Volume24h     *float64 `json:"volume_24h"`
	Volume24hUnit string   `json:"volume_24h_unit"`

	FundingRate      *float64 `json:"funding_rate"`
	OpenInterest     *float64 `json:"open_interest"`
	OpenInterestUnit *string  `json:"open_interest_unit"`

	// Reserved for future extensions; always null.
	OIChange       *float64 `json:"oi_change"`
	LongShortRatio *float64 `json:"long_short_ratio"`

	VolatilityRegime   *string `json:"volatility_regime"`
	LiquidityCondition *string `json:"liquidity_condition"`

	TimestampExchange *string `json:"timestamp_exchange"`
	Timestamp         string  `json:"timestamp"`
}

// Clone returns a deep copy. The cache hands out clones so callers never hold
// a mutable handle into cached state.
func (s *MarketSnapshot) Clone() *MarketSnapshot {
	if s == nil {
		return nil
	}
	out := *s
	out.Price = cloneFloat(s.Price)
	out.PriceChange24h = cloneFloat(s.PriceChange24h)
	out.Volume24h = cloneFloat(s.Volume24h)
	out.FundingRate = cloneFloat(s.FundingRate)
	out.OpenInterest = cloneFloat(s.OpenInterest)
	out.OIChange = cloneFloat(s.OIChange)
	out.LongShortRatio = cloneFloat(s.LongShortRatio)
	out.OpenInterestUnit = cloneString(s.OpenInterestUnit)
	out.VolatilityRegime = cloneString(s.VolatilityRegime)
	out.LiquidityCondition = cloneString(s.LiquidityCondition)
	out.TimestampExchange = cloneString(s.TimestampExchange)
	return &out
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
