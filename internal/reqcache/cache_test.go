package reqcache_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"priceadvisor/internal/domain"
	"priceadvisor/internal/reqcache"
)

func newTestCache(t *testing.T) *reqcache.Cache {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return reqcache.New(client, time.Minute)
}

// TestCache_SingleFlightCollapsesConcurrentMisses encodes spec.md §8
// invariant 6: N concurrent identical calls trigger exactly one
// underlying computation.
func TestCache_SingleFlightCollapsesConcurrentMisses(t *testing.T) {
	cache := newTestCache(t)
	var computeCalls int64

	compute := func(ctx context.Context) (domain.Recommendation, error) {
		atomic.AddInt64(&computeCalls, 1)
		time.Sleep(20 * time.Millisecond)
		return domain.Recommendation{
			Query:             "nike sneakers",
			RecommendedPrice:  decimal.NewFromFloat(47.80),
			PredictionMethod:  domain.MethodInternal,
			ComputedAt:        time.Now(),
		}, nil
	}

	var wg sync.WaitGroup
	results := make([]domain.Recommendation, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			rec, err := cache.GetOrCompute(context.Background(), "nike sneakers", compute)
			require.NoError(t, err)
			results[idx] = rec
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&computeCalls))
	for _, rec := range results {
		assert.True(t, rec.RecommendedPrice.Equal(decimal.NewFromFloat(47.80)))
	}
}

func TestCache_HitServesWithoutRecomputing(t *testing.T) {
	cache := newTestCache(t)
	var computeCalls int64
	compute := func(ctx context.Context) (domain.Recommendation, error) {
		atomic.AddInt64(&computeCalls, 1)
		return domain.Recommendation{Query: "widget", RecommendedPrice: decimal.NewFromFloat(10)}, nil
	}

	_, err := cache.GetOrCompute(context.Background(), "widget", compute)
	require.NoError(t, err)
	_, err = cache.GetOrCompute(context.Background(), "widget", compute)
	require.NoError(t, err)

	assert.Equal(t, int64(1), atomic.LoadInt64(&computeCalls))
}

func TestCache_ClearRemovesEntries(t *testing.T) {
	cache := newTestCache(t)
	compute := func(ctx context.Context) (domain.Recommendation, error) {
		return domain.Recommendation{Query: "widget", RecommendedPrice: decimal.NewFromFloat(10)}, nil
	}
	_, err := cache.GetOrCompute(context.Background(), "widget", compute)
	require.NoError(t, err)

	cleared, err := cache.Clear(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cleared)

	stats := cache.Stats(context.Background())
	assert.Equal(t, int64(0), stats.Size)
}
