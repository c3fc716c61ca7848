package venue

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"github.com/Checker-Finance/market-snapshot/internal/httpclient"
	"github.com/Checker-Finance/market-snapshot/internal/rate"
	"github.com/Checker-Finance/market-snapshot/pkg/model"
)

// Binance fetches from the USDⓈ-M futures API (fapi). Responses are flat JSON
// objects with no envelope: the HTTP status is the only success signal.
type Binance struct {
	logger  *zap.Logger
	baseURL string
	exec    *httpclient.Executor
}

func NewBinance(logger *zap.Logger, baseURL string, rateMgr *rate.Manager, httpClient *http.Client) *Binance {
	return &Binance{
		logger:  logger,
		baseURL: baseURL,
		exec:    httpclient.New(logger, rateMgr, httpClient, string(model.VenueBinance)),
	}
}

func (a *Binance) Venue() model.Venue { return model.VenueBinance }

type binanceTicker struct {
	Symbol      string `json:"symbol"`
	LastPrice   string `json:"lastPrice"`
	OpenPrice   string `json:"openPrice"`
	QuoteVolume string `json:"quoteVolume"`
	CloseTime   int64  `json:"closeTime"`
}

type binancePremiumIndex struct {
	Symbol          string `json:"symbol"`
	LastFundingRate string `json:"lastFundingRate"`
}

type binanceOpenInterest struct {
	Symbol       string `json:"symbol"`
	OpenInterest string `json:"openInterest"`
	Time         int64  `json:"time"`
}

func (a *Binance) Fetch(ctx context.Context, instrumentID string) (model.RawReadings, error) {
	var (
		readings model.RawReadings
		tickErr  error
		wg       sync.WaitGroup
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		tickErr = a.fetchTicker(ctx, instrumentID, &readings)
	}()
	go func() {
		defer wg.Done()
		a.fetchFunding(ctx, instrumentID, &readings)
	}()
	go func() {
		defer wg.Done()
		a.fetchOpenInterest(ctx, instrumentID, &readings)
	}()
	wg.Wait()

	if tickErr != nil {
		return model.RawReadings{}, tickErr
	}
	return readings, nil
}

func (a *Binance) fetchTicker(ctx context.Context, instrumentID string, out *model.RawReadings) error {
	var tick binanceTicker
	params := url.Values{"symbol": {instrumentID}}
	if err := a.exec.GetJSON(ctx, "ticker", a.baseURL, "/fapi/v1/ticker/24hr", params, &tick); err != nil {
		return upstreamError(model.VenueBinance, err)
	}

	out.LastPrice = parseFloat(tick.LastPrice)
	if out.LastPrice == nil {
		return &NoTickerDataError{Venue: model.VenueBinance, InstrumentID: instrumentID}
	}
	out.Open24h = parseFloat(tick.OpenPrice)
	out.QuoteVolume24h = parseFloat(tick.QuoteVolume)
	if tick.CloseTime > 0 {
		ms := tick.CloseTime
		out.ExchangeTimestampMS = &ms
	}
	return nil
}

// Secondary calls soft-fail: Binance legitimately answers non-200 for
// instruments it does not list in derivatives markets.
func (a *Binance) fetchFunding(ctx context.Context, instrumentID string, out *model.RawReadings) {
	var idx binancePremiumIndex
	params := url.Values{"symbol": {instrumentID}}
	if err := a.exec.GetJSON(ctx, "funding_rate", a.baseURL, "/fapi/v1/premiumIndex", params, &idx); err != nil {
		a.logger.Warn("binance.funding_unavailable", zap.String("symbol", instrumentID), zap.Error(err))
		return
	}
	out.FundingRate = parseFloat(idx.LastFundingRate)
}

func (a *Binance) fetchOpenInterest(ctx context.Context, instrumentID string, out *model.RawReadings) {
	var oi binanceOpenInterest
	params := url.Values{"symbol": {instrumentID}}
	if err := a.exec.GetJSON(ctx, "open_interest", a.baseURL, "/fapi/v1/openInterest", params, &oi); err != nil {
		a.logger.Warn("binance.open_interest_unavailable", zap.String("symbol", instrumentID), zap.Error(err))
		return
	}
	if v := parseFloat(oi.OpenInterest); v != nil {
		out.OpenInterest = v
		out.OpenInterestUnit = strPtr("contracts")
	}
}
