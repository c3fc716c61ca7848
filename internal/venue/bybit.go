package venue

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/Checker-Finance/market-snapshot/internal/httpclient"
	"github.com/Checker-Finance/market-snapshot/internal/rate"
	"github.com/Checker-Finance/market-snapshot/pkg/model"
)

// bybitEnvelope is Bybit's v5 response wrapper. List rows are string-typed.
type bybitEnvelope struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		List []map[string]string `json:"list"`
	} `json:"result"`
	Time int64 `json:"time"`
}

// Bybit fetches from Bybit's public v5 API, linear (USDT perpetual) category.
type Bybit struct {
	logger  *zap.Logger
	baseURL string
	exec    *httpclient.Executor
}

func NewBybit(logger *zap.Logger, baseURL string, rateMgr *rate.Manager, httpClient *http.Client) *Bybit {
	return &Bybit{
		logger:  logger,
		baseURL: baseURL,
		exec:    httpclient.New(logger, rateMgr, httpClient, string(model.VenueBybit)),
	}
}

func (a *Bybit) Venue() model.Venue { return model.VenueBybit }

func (a *Bybit) Fetch(ctx context.Context, instrumentID string) (model.RawReadings, error) {
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

func (a *Bybit) fetchTicker(ctx context.Context, instrumentID string, out *model.RawReadings) error {
	var env bybitEnvelope
	params := url.Values{"category": {"linear"}, "symbol": {instrumentID}}
	if err := a.exec.GetJSON(ctx, "ticker", a.baseURL, "/v5/market/tickers", params, &env); err != nil {
		return upstreamError(model.VenueBybit, err)
	}
	if env.RetCode != 0 {
		return &SemanticError{Venue: model.VenueBybit, Code: strconv.Itoa(env.RetCode), Detail: env.RetMsg}
	}
	if len(env.Result.List) == 0 {
		return &NoTickerDataError{Venue: model.VenueBybit, InstrumentID: instrumentID}
	}

	row := env.Result.List[0]
	out.LastPrice = parseFloat(row["lastPrice"])
	// Bybit reports the price 24h ago rather than a session open.
	out.Open24h = parseFloat(row["prevPrice24h"])
	out.QuoteVolume24h = parseFloat(row["turnover24h"])
	if env.Time > 0 {
		ms := env.Time
		out.ExchangeTimestampMS = &ms
	}
	return nil
}

func (a *Bybit) fetchFunding(ctx context.Context, instrumentID string, out *model.RawReadings) {
	var env bybitEnvelope
	params := url.Values{"category": {"linear"}, "symbol": {instrumentID}, "limit": {"1"}}
	if err := a.exec.GetJSON(ctx, "funding_rate", a.baseURL, "/v5/market/funding/history", params, &env); err != nil {
		a.logger.Warn("bybit.funding_unavailable", zap.String("symbol", instrumentID), zap.Error(err))
		return
	}
	if env.RetCode != 0 || len(env.Result.List) == 0 {
		a.logger.Warn("bybit.funding_unavailable",
			zap.String("symbol", instrumentID),
			zap.Int("ret_code", env.RetCode),
			zap.String("ret_msg", env.RetMsg))
		return
	}
	out.FundingRate = parseFloat(env.Result.List[0]["fundingRate"])
}

func (a *Bybit) fetchOpenInterest(ctx context.Context, instrumentID string, out *model.RawReadings) {
	var env bybitEnvelope
	params := url.Values{
		"category":     {"linear"},
		"symbol":       {instrumentID},
		"intervalTime": {"5min"},
		"limit":        {"1"},
	}
	if err := a.exec.GetJSON(ctx, "open_interest", a.baseURL, "/v5/market/open-interest", params, &env); err != nil {
		a.logger.Warn("bybit.open_interest_unavailable", zap.String("symbol", instrumentID), zap.Error(err))
		return
	}
	if env.RetCode != 0 || len(env.Result.List) == 0 {
		a.logger.Warn("bybit.open_interest_unavailable",
			zap.String("symbol", instrumentID),
			zap.Int("ret_code", env.RetCode),
			zap.String("ret_msg", env.RetMsg))
		return
	}
	if v := parseFloat(env.Result.List[0]["openInterest"]); v != nil {
		out.OpenInterest = v
		out.OpenInterestUnit = strPtr("contracts")
	}
}
