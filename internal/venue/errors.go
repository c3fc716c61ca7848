package venue

import (
	"errors"
	"fmt"

	"github.com/Checker-Finance/market-snapshot/pkg/model"
)

// ErrInvalidSymbol marks malformed client input. Detected before any network
// call; never venue-recoverable.
var ErrInvalidSymbol = errors.New("invalid symbol")

// ErrUnknownVenue marks an exchange label no adapter is registered for.
var ErrUnknownVenue = errors.New("unknown exchange")

// TransportError means the call to the venue could not complete: network
// failure or a non-200 HTTP status. Maps to a 502-class response.
type TransportError struct {
	Venue  model.Venue
	Status int // 0 when the request never completed
	Detail string
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s upstream error: %s", e.Venue, e.Detail)
	}
	return fmt.Sprintf("%s upstream error (status %d): %s", e.Venue, e.Status, e.Detail)
}

// SemanticError means the venue answered 200 but its own envelope signals an
// application-level failure (OKX code != "0", Bybit retCode != 0).
type SemanticError struct {
	Venue  model.Venue
	Code   string
	Detail string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("%s code error %s: %s", e.Venue, e.Code, e.Detail)
}

// NoTickerDataError means the venue had no ticker rows for an otherwise valid
// instrument. Fatal for the whole snapshot: price is the load-bearing field.
type NoTickerDataError struct {
	Venue        model.Venue
	InstrumentID string
}

func (e *NoTickerDataError) Error() string {
	return fmt.Sprintf("no ticker data for %s on %s", e.InstrumentID, e.Venue)
}

// IsUpstream reports whether err belongs to the upstream failure taxonomy
// (transport, semantic, or missing ticker data).
func IsUpstream(err error) bool {
	var te *TransportError
	var se *SemanticError
	var nt *NoTickerDataError
	return errors.As(err, &te) || errors.As(err, &se) || errors.As(err, &nt)
}
