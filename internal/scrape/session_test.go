package scrape_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"priceadvisor/internal/domain"
	"priceadvisor/internal/scrape"
)

// fakeDriver records concurrent-call violations and lets tests control
// success/failure per call.
type fakeDriver struct {
	mu          sync.Mutex
	inFlight    int32
	maxInFlight int32
	fail        bool
	cards       []scrape.RawCard
}

func (f *fakeDriver) Open(ctx context.Context) error  { return nil }
func (f *fakeDriver) Close(ctx context.Context) error { return nil }

func (f *fakeDriver) NavigateAndExtract(ctx context.Context, query string) (scrape.Extraction, error) {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)

	f.mu.Lock()
	if n > f.maxInFlight {
		f.maxInFlight = n
	}
	f.mu.Unlock()

	if f.fail {
		return scrape.Extraction{}, fmt.Errorf("simulated driver failure")
	}
	return scrape.Extraction{Cards: f.cards}, nil
}

func testConfig() scrape.Config {
	return scrape.Config{
		MaxListings:  30,
		FetchTimeout: 2 * time.Second,
		DelayMin:     1 * time.Millisecond,
		DelayMax:     2 * time.Millisecond,
	}
}

func TestSession_SingleFetchSucceeds(t *testing.T) {
	driver := &fakeDriver{cards: []scrape.RawCard{
		{TitleText: "Widget", PriceText: "$19.99"},
	}}
	session := scrape.NewSession(driver, testConfig())
	require.NoError(t, session.Start(context.Background()))
	defer session.Stop(context.Background())

	sample := session.Fetch(context.Background(), "widget")
	assert.Equal(t, domain.SampleStatusOK, sample.Status)
	assert.Equal(t, 1, sample.SampleSize)
}

func TestSession_DriverFailureYieldsErrorStatus(t *testing.T) {
	driver := &fakeDriver{fail: true}
	session := scrape.NewSession(driver, testConfig())
	require.NoError(t, session.Start(context.Background()))
	defer session.Stop(context.Background())

	sample := session.Fetch(context.Background(), "anything")
	assert.Equal(t, domain.SampleStatusError, sample.Status)
	assert.NotEmpty(t, sample.Warning)
}

// TestSession_SerializesConcurrentFetches exercises the non-negotiable
// serialization invariant of spec.md §4.2/§5: at most one fetch runs
// against the driver at a time, regardless of concurrent callers.
func TestSession_SerializesConcurrentFetches(t *testing.T) {
	driver := &fakeDriver{cards: []scrape.RawCard{
		{TitleText: "Widget", PriceText: "$10.00"},
	}}
	session := scrape.NewSession(driver, testConfig())
	require.NoError(t, session.Start(context.Background()))
	defer session.Stop(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session.Fetch(context.Background(), "widget")
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), driver.maxInFlight)
}
