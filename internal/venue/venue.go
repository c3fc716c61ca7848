package venue

import (
	"context"
	"fmt"

	"github.com/Checker-Finance/market-snapshot/pkg/model"
)

// Adapter fetches raw market readings for one venue. Implementations issue up
// to three upstream calls (ticker, funding rate, open interest); only the
// ticker is mandatory. Funding and open-interest failures degrade to absent
// fields rather than failing the fetch.
type Adapter interface {
	Venue() model.Venue
	Fetch(ctx context.Context, instrumentID string) (model.RawReadings, error)
}

// Registry resolves caller-supplied exchange labels to adapters.
type Registry struct {
	adapters map[model.Venue]Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	m := make(map[model.Venue]Adapter, len(adapters))
	for _, a := range adapters {
		m[a.Venue()] = a
	}
	return &Registry{adapters: m}
}

// Resolve maps an exchange label (case-insensitive) to its adapter.
func (r *Registry) Resolve(label string) (Adapter, error) {
	v, err := model.ParseVenue(label)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownVenue, err)
	}
	a, ok := r.adapters[v]
	if !ok {
		return nil, fmt.Errorf("%w: no adapter registered for %s", ErrUnknownVenue, v)
	}
	return a, nil
}
