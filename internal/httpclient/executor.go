package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Checker-Finance/market-snapshot/internal/metrics"
	"github.com/Checker-Finance/market-snapshot/internal/rate"
)

// StatusError is returned when a venue answers with a non-200 status.
// The body is kept so callers can surface the venue's own error payload.
type StatusError struct {
	Venue  string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Venue, e.Status, e.Body)
}

// Executor handles rate-limited HTTP GET execution with JSON decoding.
// It deliberately makes exactly one attempt per call: the snapshot engine is
// read-only and idempotent, so retry policy belongs to the caller, not here.
type Executor struct {
	logger   *zap.Logger
	rateMgr  *rate.Manager
	http     *http.Client
	venueTag string
}

// New creates an Executor scoped to one venue.
func New(logger *zap.Logger, rateMgr *rate.Manager, httpClient *http.Client, venueTag string) *Executor {
	return &Executor{
		logger:   logger,
		rateMgr:  rateMgr,
		http:     httpClient,
		venueTag: venueTag,
	}
}

// GetJSON issues a single GET to baseURL+path with params, then JSON-decodes the
// 200 response into out. endpoint is a short label used for logs and metrics.
// Non-200 responses come back as *StatusError.
func (e *Executor) GetJSON(ctx context.Context, endpoint, baseURL, path string, params url.Values, out any) error {
	if e.rateMgr != nil {
		if err := e.rateMgr.Wait(ctx, e.venueTag); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	rawURL := baseURL + path
	if len(params) > 0 {
		rawURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := e.http.Do(req)
	if err != nil {
		e.logger.Warn(e.venueTag+".http_failed",
			zap.String("url", rawURL),
			zap.Error(err))
		metrics.IncVenueRequest(e.venueTag, endpoint, "network_error")
		return fmt.Errorf("%s request failed: %w", e.venueTag, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)
	elapsed := time.Since(start)

	metrics.IncVenueRequest(e.venueTag, endpoint, strconv.Itoa(resp.StatusCode))
	metrics.ObserveDuration(metrics.VenueRequestDuration, start, e.venueTag, endpoint)

	if resp.StatusCode != http.StatusOK {
		e.logger.Warn(e.venueTag+".non_200",
			zap.Int("status", resp.StatusCode),
			zap.String("url", rawURL),
			zap.Duration("latency", elapsed))
		return &StatusError{Venue: e.venueTag, Status: resp.StatusCode, Body: string(body)}
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			e.logger.Warn(e.venueTag+".decode_failed",
				zap.Error(err),
				zap.String("url", rawURL),
				zap.String("body", string(body)))
			return fmt.Errorf("%s decode failed: %w", e.venueTag, err)
		}
	}

	e.logger.Debug(e.venueTag+".http_success",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed))

	return nil
}
