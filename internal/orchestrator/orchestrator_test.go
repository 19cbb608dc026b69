package orchestrator_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"priceadvisor/internal/domain"
	"priceadvisor/internal/internaldata"
	"priceadvisor/internal/ml"
	"priceadvisor/internal/obslog"
	"priceadvisor/internal/orchestrator"
	"priceadvisor/internal/reqcache"
	"priceadvisor/internal/scrape"
)

type fakeBackend struct{ records []domain.InternalRecord }

func (f *fakeBackend) LoadAll() ([]domain.InternalRecord, error) { return f.records, nil }

type fakeDriver struct {
	calls int
	cards []scrape.RawCard
}

func (f *fakeDriver) Open(ctx context.Context) error  { return nil }
func (f *fakeDriver) Close(ctx context.Context) error { return nil }
func (f *fakeDriver) NavigateAndExtract(ctx context.Context, query string) (scrape.Extraction, error) {
	f.calls++
	return scrape.Extraction{Cards: f.cards}, nil
}

func newOrchestrator(t *testing.T) (*orchestrator.Orchestrator, *fakeDriver) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	backend := &fakeBackend{}
	engine, err := internaldata.NewEngine(backend, 50)
	require.NoError(t, err)

	driver := &fakeDriver{cards: []scrape.RawCard{
		{TitleText: "Nike Sneakers", PriceText: "$52.00"},
	}}
	session := scrape.NewSession(driver, scrape.Config{
		MaxListings:  30,
		FetchTimeout: 2 * time.Second,
		DelayMin:     1 * time.Millisecond,
		DelayMax:     2 * time.Millisecond,
	})
	require.NoError(t, session.Start(context.Background()))
	t.Cleanup(func() { session.Stop(context.Background()) })

	return &orchestrator.Orchestrator{
		Engine:    engine,
		Session:   session,
		MLAdapter: ml.Unavailable(),
		Cache:     reqcache.New(redisClient, time.Minute),
		Logger:    obslog.New(obslog.Config{ServiceName: "priceadvisor-test"}),
	}, driver
}

func TestOrchestrator_RejectsEmptyQuery(t *testing.T) {
	o, _ := newOrchestrator(t)
	_, err := o.Recommend(context.Background(), "   ", nil)
	assert.Error(t, err)
}

func TestOrchestrator_RecommendsFromMarketOnly(t *testing.T) {
	o, _ := newOrchestrator(t)
	rec, err := o.Recommend(context.Background(), "nike sneakers", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.MethodMarket, rec.PredictionMethod)
	assert.True(t, rec.RecommendedPrice.IsPositive())
}

func TestOrchestrator_OverrideReplacesInternalMatch(t *testing.T) {
	o, _ := newOrchestrator(t)
	rec, err := o.Recommend(context.Background(), "nike sneakers", &orchestrator.Override{
		InternalPrice:   45.00,
		SellThroughRate: 0.85,
		DaysOnShelf:     25,
		Category:        "Shoes",
	})
	require.NoError(t, err)
	assert.NotNil(t, rec.Internal)
	assert.True(t, rec.Internal.InternalPrice.Equal(decimal.NewFromFloat(45.00)))
}

// TestOrchestrator_SingleFlightCollapsesConcurrentIdenticalRequests
// encodes spec.md §8 invariant 6 at the orchestrator level (S6).
func TestOrchestrator_SingleFlightCollapsesConcurrentIdenticalRequests(t *testing.T) {
	o, driver := newOrchestrator(t)

	done := make(chan struct{}, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := o.Recommend(context.Background(), "nike sneakers", nil)
			assert.NoError(t, err)
			done <- struct{}{}
		}()
	}
	<-done
	<-done

	assert.Equal(t, 1, driver.calls)
}
