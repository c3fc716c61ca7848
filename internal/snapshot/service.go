package snapshot

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Checker-Finance/market-snapshot/internal/cache"
	"github.com/Checker-Finance/market-snapshot/internal/metrics"
	"github.com/Checker-Finance/market-snapshot/internal/venue"
	"github.com/Checker-Finance/market-snapshot/pkg/model"
)

// Publisher emits freshly reconciled snapshots to the event bus. Optional.
type Publisher interface {
	PublishSnapshot(ctx context.Context, snap *model.MarketSnapshot) error
}

// Request carries the three caller inputs. Timeframe only discriminates the
// cache key; it has no effect on what is fetched.
type Request struct {
	Symbol    string
	Exchange  string
	Timeframe string
}

// Service orchestrates one snapshot request:
// normalize → cache lookup → (hit: done) | (miss: fetch → reconcile → store).
// Failures surface once; there is no retry at this layer, and nothing is
// cached on failure.
type Service struct {
	logger   *zap.Logger
	registry *venue.Registry
	cache    cache.Store
	pub      Publisher
	now      func() time.Time
}

func NewService(logger *zap.Logger, registry *venue.Registry, store cache.Store, pub Publisher) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		logger:   logger,
		registry: registry,
		cache:    store,
		pub:      pub,
		now:      time.Now,
	}
}

// WithClock overrides the generation-time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Snapshot(ctx context.Context, req Request) (*model.MarketSnapshot, error) {
	label := req.Exchange
	if label == "" {
		label = string(model.VenueOKX)
	}

	adapter, err := s.registry.Resolve(label)
	if err != nil {
		return nil, err
	}
	v := adapter.Venue()

	instrumentID, err := venue.Normalize(req.Symbol, v)
	if err != nil {
		return nil, err
	}

	// Cache key uses the caller's label verbatim, not the resolved venue.
	key := cache.Key{Exchange: label, InstrumentID: instrumentID, Timeframe: req.Timeframe}
	if snap, ok := s.cache.Get(ctx, key); ok {
		metrics.IncCacheLookup("hit")
		metrics.IncSnapshotRequest(string(v), "hit")
		return snap, nil
	}
	metrics.IncCacheLookup("miss")

	readings, err := adapter.Fetch(ctx, instrumentID)
	if err != nil {
		metrics.IncSnapshotRequest(string(v), "error")
		s.logger.Warn("snapshot.fetch_failed",
			zap.String("venue", string(v)),
			zap.String("instrument_id", instrumentID),
			zap.Error(err))
		return nil, err
	}

	ref := model.InstrumentRef{RawSymbol: req.Symbol, Venue: v, InstrumentID: instrumentID}
	snap := Reconcile(ref, label, readings, s.now())

	s.cache.Put(ctx, key, snap)
	metrics.IncSnapshotRequest(string(v), "miss")

	if s.pub != nil {
		if err := s.pub.PublishSnapshot(ctx, snap); err != nil {
			s.logger.Warn("snapshot.publish_failed",
				zap.String("venue", string(v)),
				zap.String("instrument_id", instrumentID),
				zap.Error(err))
		}
	}

	return snap, nil
}
