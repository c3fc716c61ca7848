package venue

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fakeBinance(t *testing.T, routes map[string]string) *Binance {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			// Binance answers 400 with an error body for unknown symbols.
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewBinance(zap.NewNop(), srv.URL, nil, srv.Client())
}

func TestBinanceFetch_AllFields(t *testing.T) {
	a := fakeBinance(t, map[string]string{
		"/fapi/v1/ticker/24hr":  `{"symbol":"BTCUSDT","lastPrice":"65000.10","openPrice":"64000.00","quoteVolume":"350000000","closeTime":1700000000000}`,
		"/fapi/v1/premiumIndex": `{"symbol":"BTCUSDT","lastFundingRate":"0.00010000"}`,
		"/fapi/v1/openInterest": `{"symbol":"BTCUSDT","openInterest":"81000.5","time":1700000000000}`,
	})

	readings, err := a.Fetch(context.Background(), "BTCUSDT")
	require.NoError(t, err)

	require.NotNil(t, readings.LastPrice)
	assert.Equal(t, 65000.10, *readings.LastPrice)
	require.NotNil(t, readings.Open24h)
	assert.Equal(t, 64000.0, *readings.Open24h)
	require.NotNil(t, readings.QuoteVolume24h)
	assert.Equal(t, 350000000.0, *readings.QuoteVolume24h)
	require.NotNil(t, readings.FundingRate)
	assert.Equal(t, 0.0001, *readings.FundingRate)
	require.NotNil(t, readings.OpenInterest)
	assert.Equal(t, 81000.5, *readings.OpenInterest)
	require.NotNil(t, readings.OpenInterestUnit)
	assert.Equal(t, "contracts", *readings.OpenInterestUnit)
	require.NotNil(t, readings.ExchangeTimestampMS)
	assert.EqualValues(t, 1700000000000, *readings.ExchangeTimestampMS)
}

func TestBinanceFetch_SecondaryNon200IsSoft(t *testing.T) {
	// Spot-only instrument: derivatives endpoints reject it, ticker survives.
	a := fakeBinance(t, map[string]string{
		"/fapi/v1/ticker/24hr": `{"symbol":"NEWUSDT","lastPrice":"2.5","openPrice":"2.4","quoteVolume":"1000000","closeTime":1700000000000}`,
	})

	readings, err := a.Fetch(context.Background(), "NEWUSDT")
	require.NoError(t, err)
	require.NotNil(t, readings.LastPrice)
	assert.Nil(t, readings.FundingRate)
	assert.Nil(t, readings.OpenInterest)
}

func TestBinanceFetch_TickerNon200IsFatal(t *testing.T) {
	a := fakeBinance(t, map[string]string{})

	_, err := a.Fetch(context.Background(), "NOPEUSDT")
	require.Error(t, err)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusBadRequest, te.Status)
	assert.Contains(t, te.Detail, "-1121")
}

func TestBinanceFetch_EmptyLastPriceIsNoTickerData(t *testing.T) {
	a := fakeBinance(t, map[string]string{
		"/fapi/v1/ticker/24hr": `{"symbol":"GHOSTUSDT","lastPrice":"","openPrice":"","quoteVolume":""}`,
	})

	_, err := a.Fetch(context.Background(), "GHOSTUSDT")
	require.Error(t, err)

	var nt *NoTickerDataError
	require.ErrorAs(t, err, &nt)
}
