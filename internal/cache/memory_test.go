package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Checker-Finance/market-snapshot/pkg/model"
)

func sampleKey() Key {
	return Key{Exchange: "okx", InstrumentID: "BTC-USDT-SWAP", Timeframe: "4H"}
}

func sampleSnapshot() *model.MarketSnapshot {
	price := 65000.0
	return &model.MarketSnapshot{
		Symbol:       "BTCUSDT",
		Exchange:     "okx",
		Source:       "okx",
		InstrumentID: "BTC-USDT-SWAP",
		Price:        &price,
		PriceQuote:   "USDT",
		Timestamp:    "2026-08-31T12:00:00Z",
	}
}

func TestMemory_PutAndGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(2 * time.Second)
	key := sampleKey()

	// should miss initially
	if _, ok := c.Get(ctx, key); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Put(ctx, key, sampleSnapshot())

	got, ok := c.Get(ctx, key)
	require.True(t, ok, "expected cache hit")
	assert.Equal(t, sampleSnapshot(), got)
}

func TestMemory_Expiration(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(300 * time.Millisecond)
	key := sampleKey()
	c.Put(ctx, key, sampleSnapshot())

	time.Sleep(400 * time.Millisecond)

	if _, ok := c.Get(ctx, key); ok {
		t.Fatal("expected expired cache entry")
	}
	// the stale value must not resurrect on a second lookup
	if _, ok := c.Get(ctx, key); ok {
		t.Fatal("expected stale entry to stay evicted")
	}
}

func TestMemory_PutOverwritesAndRefreshes(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(400 * time.Millisecond)
	key := sampleKey()

	c.Put(ctx, key, sampleSnapshot())
	time.Sleep(250 * time.Millisecond)

	fresh := sampleSnapshot()
	newPrice := 66000.0
	fresh.Price = &newPrice
	c.Put(ctx, key, fresh)

	// past the first entry's TTL, inside the second's
	time.Sleep(250 * time.Millisecond)

	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	require.NotNil(t, got.Price)
	assert.Equal(t, 66000.0, *got.Price)
}

func TestMemory_CallersGetCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(5 * time.Second)
	key := sampleKey()

	orig := sampleSnapshot()
	c.Put(ctx, key, orig)

	// mutating what we put in must not reach the cache
	*orig.Price = -1
	orig.Symbol = "TAMPERED"

	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, "BTCUSDT", got.Symbol)
	assert.Equal(t, 65000.0, *got.Price)

	// mutating what we got back must not reach the cache either
	*got.Price = -2
	again, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, 65000.0, *again.Price)
}

func TestMemory_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(5 * time.Second)

	// same venue behind two caller labels: independent entries
	a := Key{Exchange: "okx", InstrumentID: "BTC-USDT-SWAP"}
	b := Key{Exchange: "OKX-prod", InstrumentID: "BTC-USDT-SWAP"}

	c.Put(ctx, a, sampleSnapshot())
	if _, ok := c.Get(ctx, b); ok {
		t.Fatal("expected labels to produce independent cache entries")
	}

	// timeframe discriminates too
	withTF := Key{Exchange: "okx", InstrumentID: "BTC-USDT-SWAP", Timeframe: "1D"}
	if _, ok := c.Get(ctx, withTF); ok {
		t.Fatal("expected timeframe to discriminate cache entries")
	}
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(2 * time.Second)
	key := sampleKey()

	var wg sync.WaitGroup
	wg.Add(2)

	// Writer
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			c.Put(ctx, key, sampleSnapshot())
			time.Sleep(time.Millisecond)
		}
	}()

	// Reader
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			c.Get(ctx, key)
			time.Sleep(time.Millisecond)
		}
	}()

	wg.Wait()
}

func TestMemory_CleanerRemovesExpired(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(100 * time.Millisecond)
	c.Put(ctx, sampleKey(), sampleSnapshot())

	stop := make(chan struct{})
	go c.StartCleaner(50*time.Millisecond, stop)
	defer close(stop)

	time.Sleep(300 * time.Millisecond)

	c.mu.RLock()
	n := len(c.data)
	c.mu.RUnlock()
	assert.Zero(t, n, "expected cleaner to sweep expired entries")
}
