// Package scrape holds the Scrape Session Manager: one long-lived
// browser session, serialized one-fetch-at-a-time, that turns a query
// into a MarketSample.
//
// Grounded on the teacher's DynamicPricingEngine pattern of wrapping a
// single shared external-data client with a circuit breaker
// (services/pricing_service/src/DynamicPricingEngine.go), generalized
// per spec.md §9's design note into an owned handle behind a
// bounded-capacity FIFO queue of fetch requests.
package scrape

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/sony/gobreaker"

	"priceadvisor/internal/domain"
	"priceadvisor/internal/market"
	"priceadvisor/internal/metrics"
)

// Config controls the session manager's limits and timing.
type Config struct {
	MaxListings     int
	FetchTimeout    time.Duration
	DelayMin        time.Duration
	DelayMax        time.Duration
}

// DefaultConfig matches spec.md §6's documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxListings:  30,
		FetchTimeout: 30 * time.Second,
		DelayMin:     2 * time.Second,
		DelayMax:     4 * time.Second,
	}
}

// fetchRequest carries one caller's query plus a reply channel; the
// Session's run loop is the only goroutine that ever touches the
// driver, so no additional locking is needed around driver calls
// themselves.
type fetchRequest struct {
	ctx    context.Context
	query  string
	replyC chan domain.MarketSample
}

// Session is the Scrape Session Manager. Exactly one instance exists
// per process; Start must be called once before Fetch is used.
type Session struct {
	driver  Driver
	cfg     Config
	queue   chan fetchRequest
	breaker *gobreaker.CircuitBreaker
	done    chan struct{}

	lastFetch time.Time
}

// NewSession builds a session manager around the given driver. The
// queue has capacity 1 per spec.md §9: at most one fetch is ever
// in flight or immediately pending acceptance.
func NewSession(driver Driver, cfg Config) *Session {
	settings := gobreaker.Settings{
		Name:        "scrape_driver",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.ScrapeCircuitBreakerState.Set(circuitBreakerStateValue(to))
		},
	}
	return &Session{
		driver:  driver,
		cfg:     cfg,
		queue:   make(chan fetchRequest, 1),
		breaker: gobreaker.NewCircuitBreaker(settings),
		done:    make(chan struct{}),
	}
}

// circuitBreakerStateValue maps a gobreaker.State to the gauge scale
// documented on metrics.ScrapeCircuitBreakerState.
func circuitBreakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Start opens the driver and launches the serialized fetch loop. Must
// be called once at process startup.
func (s *Session) Start(ctx context.Context) error {
	if err := s.driver.Open(ctx); err != nil {
		return fmt.Errorf("open driver: %w", err)
	}
	go s.run()
	return nil
}

// Stop closes the driver and stops accepting new fetches.
func (s *Session) Stop(ctx context.Context) error {
	close(s.done)
	return s.driver.Close(ctx)
}

// Fetch enqueues a fetch for query and blocks until it's served.
// Concurrent callers queue in arrival order (FIFO); only one fetch
// ever runs against the shared driver at a time. A navigation timeout
// or driver exception yields a MarketSample with status=error rather
// than an error return — the orchestrator always gets a sample back.
func (s *Session) Fetch(ctx context.Context, query string) domain.MarketSample {
	req := fetchRequest{
		ctx:    ctx,
		query:  query,
		replyC: make(chan domain.MarketSample, 1),
	}

	select {
	case s.queue <- req:
	case <-ctx.Done():
		return errorSample("request cancelled while queued")
	}

	select {
	case sample := <-req.replyC:
		return sample
	case <-ctx.Done():
		return errorSample("request cancelled while waiting on scrape")
	}
}

// run is the session's single worker goroutine: it is the only code
// path that ever calls the driver, which is what makes serialization
// and the inter-fetch delay correct without an explicit mutex.
func (s *Session) run() {
	for {
		select {
		case <-s.done:
			return
		case req := <-s.queue:
			s.throttle()
			req.replyC <- s.doFetch(req.ctx, req.query)
			s.lastFetch = time.Now()
		}
	}
}

// throttle enforces the randomized 2-4s delay between successive
// fetches, the non-negotiable invariant this session design is shaped
// around (spec.md §4.2, §5).
func (s *Session) throttle() {
	if s.lastFetch.IsZero() {
		return
	}
	spread := s.cfg.DelayMax - s.cfg.DelayMin
	delay := s.cfg.DelayMin
	if spread > 0 {
		delay += time.Duration(rand.Int63n(int64(spread)))
	}
	elapsed := time.Since(s.lastFetch)
	if remaining := delay - elapsed; remaining > 0 {
		time.Sleep(remaining)
	}
}

func (s *Session) doFetch(ctx context.Context, query string) domain.MarketSample {
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.driver.NavigateAndExtract(fetchCtx, query)
	})
	if err != nil {
		return errorSample(fmt.Sprintf("scrape failed: %v", err))
	}

	extraction := result.(Extraction)
	return s.buildSample(extraction)
}

func (s *Session) buildSample(extraction Extraction) domain.MarketSample {
	listings := make([]domain.Listing, 0, len(extraction.Cards))
	var warning string
	for _, card := range extraction.Cards {
		listing, err := toListing(card)
		if err != nil {
			warning = "some listing cards were malformed and dropped"
			continue
		}
		listings = append(listings, listing)
		if len(listings) >= s.cfg.MaxListings {
			break
		}
	}

	if len(listings) == 0 {
		return domain.MarketSample{
			Status:    domain.SampleStatusEmpty,
			Timestamp: time.Now(),
			Warning:   warning,
		}
	}

	sample := market.Aggregate(listings)
	sample.Warning = warning
	return sample
}

func errorSample(warning string) domain.MarketSample {
	return domain.MarketSample{
		Status:    domain.SampleStatusError,
		Timestamp: time.Now(),
		Warning:   warning,
	}
}
