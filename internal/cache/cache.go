// Package cache holds reconciled snapshots for a short freshness window.
//
// The default backend is an in-process TTL map; a redis backend is available
// for multi-instance deployments. Both hand out copies: callers never receive
// a mutable handle into cached state.
package cache

import (
	"context"

	"github.com/Checker-Finance/market-snapshot/pkg/model"
)

// Key identifies one cached snapshot.
//
// Exchange is the caller-supplied label verbatim, not the resolved venue: two
// different labels pointing at the same venue produce independent entries.
// This mirrors the response's exchange echo and is intentional.
type Key struct {
	Exchange     string
	InstrumentID string
	Timeframe    string // empty when the caller gave none
}

func (k Key) String() string {
	return k.Exchange + ":" + k.InstrumentID + ":" + k.Timeframe
}

// Store is a TTL snapshot cache. Get misses when no entry exists or the entry
// has outlived the TTL; Put unconditionally overwrites with a fresh timestamp.
type Store interface {
	Get(ctx context.Context, key Key) (*model.MarketSnapshot, bool)
	Put(ctx context.Context, key Key, snap *model.MarketSnapshot)
}
