package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Checker-Finance/market-snapshot/pkg/model"
)

func fp(v float64) *float64 { return &v }

func msp(v int64) *int64 { return &v }

var testNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func testRef() model.InstrumentRef {
	return model.InstrumentRef{
		RawSymbol:    "btcusdt",
		Venue:        model.VenueOKX,
		InstrumentID: "BTC-USDT-SWAP",
	}
}

func TestReconcile_FullReadings(t *testing.T) {
	readings := model.RawReadings{
		LastPrice:           fp(105),
		Open24h:             fp(100),
		QuoteVolume24h:      fp(123_456_789),
		FundingRate:         fp(0.0001),
		OpenInterest:        fp(900_000_000),
		OpenInterestUnit:    strP("USD"),
		ExchangeTimestampMS: msp(1700000000000),
	}

	snap := Reconcile(testRef(), "okx", readings, testNow)

	assert.Equal(t, "BTCUSDT", snap.Symbol)
	assert.Equal(t, "okx", snap.Exchange)
	assert.Equal(t, "okx", snap.Source)
	assert.Equal(t, "BTC-USDT-SWAP", snap.InstrumentID)
	assert.Equal(t, "USDT", snap.PriceQuote)
	assert.Equal(t, "quote_notional", snap.Volume24hUnit)

	require.NotNil(t, snap.PriceChange24h)
	assert.InDelta(t, 5.0, *snap.PriceChange24h, 1e-9)
	// Exactly 5.0 resolves to high: the medium band is half-open.
	require.NotNil(t, snap.VolatilityRegime)
	assert.Equal(t, VolatilityHigh, *snap.VolatilityRegime)

	require.NotNil(t, snap.LiquidityCondition)
	assert.Equal(t, LiquidityNormal, *snap.LiquidityCondition)

	require.NotNil(t, snap.TimestampExchange)
	assert.Equal(t, "2023-11-14T22:13:20Z", *snap.TimestampExchange)
	assert.Equal(t, "2026-08-31T12:00:00Z", snap.Timestamp)

	// Reserved fields stay null.
	assert.Nil(t, snap.OIChange)
	assert.Nil(t, snap.LongShortRatio)
}

func TestReconcile_PercentChangeRequiresOpen(t *testing.T) {
	for name, readings := range map[string]model.RawReadings{
		"open absent": {LastPrice: fp(65000)},
		"open zero":   {LastPrice: fp(65000), Open24h: fp(0)},
		"last absent": {Open24h: fp(64000)},
	} {
		t.Run(name, func(t *testing.T) {
			snap := Reconcile(testRef(), "okx", readings, testNow)
			assert.Nil(t, snap.PriceChange24h)
			assert.Nil(t, snap.VolatilityRegime)
		})
	}
}

func TestReconcile_VolatilityBands(t *testing.T) {
	tests := []struct {
		last, open float64
		want       string
	}{
		{100.5, 100, VolatilityLow},    // +0.5%
		{98.5, 100, VolatilityLow},     // -1.5%
		{102, 100, VolatilityMedium},   // exactly 2.0 → medium
		{104.9, 100, VolatilityMedium}, // +4.9%
		{95, 100, VolatilityHigh},      // exactly -5.0 → high
		{112, 100, VolatilityHigh},     // +12%
	}
	for _, tt := range tests {
		snap := Reconcile(testRef(), "okx", model.RawReadings{LastPrice: fp(tt.last), Open24h: fp(tt.open)}, testNow)
		require.NotNil(t, snap.VolatilityRegime)
		assert.Equal(t, tt.want, *snap.VolatilityRegime, "last=%v open=%v", tt.last, tt.open)
	}
}

func TestReconcile_LiquidityBands(t *testing.T) {
	tests := []struct {
		vol  float64
		want string
	}{
		{-1, LiquidityThin},
		{0, LiquidityThin},
		{49_999_999, LiquidityThin},
		{50_000_000, LiquidityNormal}, // boundary value is normal
		{299_999_999, LiquidityNormal},
		{300_000_000, LiquidityCrowded},
	}
	for _, tt := range tests {
		snap := Reconcile(testRef(), "okx", model.RawReadings{QuoteVolume24h: fp(tt.vol)}, testNow)
		require.NotNil(t, snap.LiquidityCondition)
		assert.Equal(t, tt.want, *snap.LiquidityCondition, "vol=%v", tt.vol)
	}

	snap := Reconcile(testRef(), "okx", model.RawReadings{}, testNow)
	assert.Nil(t, snap.LiquidityCondition)
}

func TestReconcile_AbsentFieldsStayNull(t *testing.T) {
	snap := Reconcile(testRef(), "okx", model.RawReadings{}, testNow)

	assert.Nil(t, snap.Price)
	assert.Nil(t, snap.PriceChange24h)
	assert.Nil(t, snap.Volume24h)
	assert.Nil(t, snap.FundingRate)
	assert.Nil(t, snap.OpenInterest)
	assert.Nil(t, snap.OpenInterestUnit)
	assert.Nil(t, snap.VolatilityRegime)
	assert.Nil(t, snap.LiquidityCondition)
	assert.Nil(t, snap.TimestampExchange)
	assert.NotEmpty(t, snap.Timestamp)
}

func strP(s string) *string { return &s }
