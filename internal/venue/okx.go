package venue

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"github.com/Checker-Finance/market-snapshot/internal/httpclient"
	"github.com/Checker-Finance/market-snapshot/internal/rate"
	"github.com/Checker-Finance/market-snapshot/pkg/model"
)

// okxEnvelope is OKX's v5 response wrapper. Data rows carry string-typed
// values regardless of field semantics.
type okxEnvelope struct {
	Code string              `json:"code"`
	Msg  string              `json:"msg"`
	Data []map[string]string `json:"data"`
}

// OKX fetches ticker, funding-rate and open-interest data from OKX's public v5 API.
type OKX struct {
	logger  *zap.Logger
	baseURL string
	exec    *httpclient.Executor
}

func NewOKX(logger *zap.Logger, baseURL string, rateMgr *rate.Manager, httpClient *http.Client) *OKX {
	return &OKX{
		logger:  logger,
		baseURL: baseURL,
		exec:    httpclient.New(logger, rateMgr, httpClient, string(model.VenueOKX)),
	}
}

func (a *OKX) Venue() model.Venue { return model.VenueOKX }

func (a *OKX) Fetch(ctx context.Context, instrumentID string) (model.RawReadings, error) {
	var (
		readings model.RawReadings
		tickErr  error
		wg       sync.WaitGroup
	)

	// The three calls are independent; each goroutine writes disjoint fields.
	// Only the ticker can fail the fetch.
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

func (a *OKX) fetchTicker(ctx context.Context, instrumentID string, out *model.RawReadings) error {
	var env okxEnvelope
	params := url.Values{"instId": {instrumentID}}
	if err := a.exec.GetJSON(ctx, "ticker", a.baseURL, "/api/v5/market/ticker", params, &env); err != nil {
		return upstreamError(model.VenueOKX, err)
	}
	if env.Code != "0" {
		return &SemanticError{Venue: model.VenueOKX, Code: env.Code, Detail: env.Msg}
	}
	if len(env.Data) == 0 {
		return &NoTickerDataError{Venue: model.VenueOKX, InstrumentID: instrumentID}
	}

	row := env.Data[0]
	out.LastPrice = parseFloat(row["last"])
	out.Open24h = parseFloat(row["open24h"])
	// Quote-notional volume precedence: first present value wins.
	for _, field := range []string{"volCcyQuote", "volCcy24h", "volCcy"} {
		if v := parseFloat(row[field]); v != nil {
			out.QuoteVolume24h = v
			break
		}
	}
	out.ExchangeTimestampMS = parseMillis(row["ts"])
	return nil
}

func (a *OKX) fetchFunding(ctx context.Context, instrumentID string, out *model.RawReadings) {
	var env okxEnvelope
	params := url.Values{"instId": {instrumentID}}
	if err := a.exec.GetJSON(ctx, "funding_rate", a.baseURL, "/api/v5/public/funding-rate", params, &env); err != nil {
		a.logger.Warn("okx.funding_unavailable", zap.String("inst_id", instrumentID), zap.Error(err))
		return
	}
	if env.Code != "0" || len(env.Data) == 0 {
		a.logger.Warn("okx.funding_unavailable",
			zap.String("inst_id", instrumentID),
			zap.String("code", env.Code),
			zap.String("msg", env.Msg))
		return
	}
	out.FundingRate = parseFloat(env.Data[0]["fundingRate"])
}

func (a *OKX) fetchOpenInterest(ctx context.Context, instrumentID string, out *model.RawReadings) {
	var env okxEnvelope
	params := url.Values{"instType": {"SWAP"}, "instId": {instrumentID}}
	if err := a.exec.GetJSON(ctx, "open_interest", a.baseURL, "/api/v5/public/open-interest", params, &env); err != nil {
		a.logger.Warn("okx.open_interest_unavailable", zap.String("inst_id", instrumentID), zap.Error(err))
		return
	}
	if env.Code != "0" || len(env.Data) == 0 {
		a.logger.Warn("okx.open_interest_unavailable",
			zap.String("inst_id", instrumentID),
			zap.String("code", env.Code),
			zap.String("msg", env.Msg))
		return
	}

	row := env.Data[0]
	// Prefer USD-denominated OI; fall back to contract count.
	if v := parseFloat(row["oiUsd"]); v != nil {
		out.OpenInterest = v
		out.OpenInterestUnit = strPtr("USD")
	} else if v := parseFloat(row["oi"]); v != nil {
		out.OpenInterest = v
		out.OpenInterestUnit = strPtr("contracts")
	}
}

// upstreamError classifies executor failures as transport errors.
func upstreamError(v model.Venue, err error) error {
	var se *httpclient.StatusError
	if errors.As(err, &se) {
		return &TransportError{Venue: v, Status: se.Status, Detail: se.Body}
	}
	return &TransportError{Venue: v, Detail: err.Error()}
}
