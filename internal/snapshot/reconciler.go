package snapshot

import (
	"math"
	"strings"
	"time"

	"github.com/Checker-Finance/market-snapshot/pkg/model"
)

// Label vocabularies for the derived qualitative fields.
const (
	VolatilityLow    = "low"
	VolatilityMedium = "medium"
	VolatilityHigh   = "high"

	LiquidityThin    = "thin"
	LiquidityNormal  = "normal"
	LiquidityCrowded = "crowded"
)

const (
	quoteCurrency   = "USDT"
	volumeUnit      = "quote_notional"
	isoSecondLayout = "2006-01-02T15:04:05Z"
)

// Reconcile merges one adapter's raw readings into the canonical snapshot.
// Pure: all inputs come in as arguments, including the generation instant.
//
// Every derived label is nil exactly when its numeric input is nil — labels
// are never fabricated for missing data.
func Reconcile(ref model.InstrumentRef, exchangeLabel string, readings model.RawReadings, now time.Time) *model.MarketSnapshot {
	snap := &model.MarketSnapshot{
		Symbol:       strings.ToUpper(strings.TrimSpace(ref.RawSymbol)),
		Exchange:     exchangeLabel,
		Source:       string(ref.Venue),
		InstrumentID: ref.InstrumentID,

		Price:      readings.LastPrice,
		PriceQuote: quoteCurrency,

		Volume24h:     readings.QuoteVolume24h,
		Volume24hUnit: volumeUnit,

		FundingRate:      readings.FundingRate,
		OpenInterest:     readings.OpenInterest,
		OpenInterestUnit: readings.OpenInterestUnit,

		TimestampExchange: msToISO(readings.ExchangeTimestampMS),
		Timestamp:         now.UTC().Format(isoSecondLayout),
	}

	snap.PriceChange24h = percentChange(readings.LastPrice, readings.Open24h)
	snap.VolatilityRegime = volatilityRegime(snap.PriceChange24h)
	snap.LiquidityCondition = liquidityCondition(snap.Volume24h)

	return snap
}

// percentChange is defined only when both operands are present and the open is
// non-zero; otherwise nil.
func percentChange(last, open *float64) *float64 {
	if last == nil || open == nil || *open == 0 {
		return nil
	}
	pct := (*last - *open) / *open * 100.0
	return &pct
}

// volatilityRegime buckets the absolute 24h percent change.
// Exactly 5.0 resolves to high (the medium band is half-open).
func volatilityRegime(pctChange *float64) *string {
	if pctChange == nil {
		return nil
	}
	a := math.Abs(*pctChange)
	switch {
	case a < 2:
		return labelPtr(VolatilityLow)
	case a < 5:
		return labelPtr(VolatilityMedium)
	default:
		return labelPtr(VolatilityHigh)
	}
}

// liquidityCondition buckets 24h quote-notional volume. A heuristic over
// traded notional, not order-book depth. Exactly 50M resolves to normal.
func liquidityCondition(quoteVol *float64) *string {
	if quoteVol == nil {
		return nil
	}
	switch {
	case *quoteVol <= 0:
		return labelPtr(LiquidityThin)
	case *quoteVol < 50_000_000:
		return labelPtr(LiquidityThin)
	case *quoteVol < 300_000_000:
		return labelPtr(LiquidityNormal)
	default:
		return labelPtr(LiquidityCrowded)
	}
}

// msToISO converts a millisecond epoch to ISO-8601 UTC with second precision.
func msToISO(ms *int64) *string {
	if ms == nil {
		return nil
	}
	iso := time.UnixMilli(*ms).UTC().Format(isoSecondLayout)
	return &iso
}

func labelPtr(s string) *string { return &s }
