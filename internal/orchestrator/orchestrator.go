// Package orchestrator wires every pipeline component into the single
// recommend(query) operation spec.md §4.8 describes.
//
// Grounded on the teacher's PricingController
// (services/pricing_service/src/PricingController.go) for the
// "validate, check cache, fan out to dependencies, assemble result"
// shape, using golang.org/x/sync/errgroup for the concurrent internal-
// match/scrape-fetch fan-out per spec.md §5 (grounded on
// Natsu-Development-bot-trade-stock's go.mod, the pack's only complete
// repo importing golang.org/x/sync).
package orchestrator

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"priceadvisor/internal/apperr"
	"priceadvisor/internal/domain"
	"priceadvisor/internal/internaldata"
	"priceadvisor/internal/ml"
	"priceadvisor/internal/obslog"
	"priceadvisor/internal/metrics"
	"priceadvisor/internal/recommend"
	"priceadvisor/internal/reqcache"
	"priceadvisor/internal/scrape"
	"priceadvisor/internal/upc"
)

// Orchestrator composes the pipeline's components behind one entry
// point.
type Orchestrator struct {
	Engine    *internaldata.Engine
	Session   *scrape.Session
	MLAdapter *ml.Adapter
	Cache     *reqcache.Cache
	Logger    *obslog.Logger
}

// Override carries the caller-supplied internal_data payload that, per
// spec.md §6, replaces the matching engine's output for one call.
type Override struct {
	InternalPrice   float64
	SellThroughRate float64
	DaysOnShelf     float64
	Category        string
}

// Recommend implements spec.md §4.8's recommend(query) operation.
func (o *Orchestrator) Recommend(ctx context.Context, rawQuery string, override *Override) (domain.Recommendation, error) {
	start := time.Now()

	query, err := upc.Classify(rawQuery)
	if err != nil {
		return domain.Recommendation{}, apperr.InvalidQuery("upc", err.Error())
	}

	key := query.NormalizedKey()

	// An override applies to this call only, so its result is neither
	// served from nor stored in the cache.
	var rec domain.Recommendation
	if override != nil {
		rec, err = o.compute(ctx, query, override)
	} else {
		rec, err = o.Cache.GetOrCompute(ctx, key, func(ctx context.Context) (domain.Recommendation, error) {
			return o.compute(ctx, query, override)
		})
	}
	if err != nil {
		return domain.Recommendation{}, err
	}

	metrics.RecommendationsTotal.WithLabelValues(string(rec.PredictionMethod)).Inc()
	metrics.RecommendationDuration.Observe(time.Since(start).Seconds())
	o.Logger.RecommendationLogger(rec.Query, string(rec.PredictionMethod), rec.InternalVsMarketWeighting, rec.ConfidenceScore, rec.Warnings)

	return rec, nil
}

// compute runs the actual pipeline: concurrent internal match + scrape
// fetch, feature assembly, ML inference, and the recommendation engine.
func (o *Orchestrator) compute(ctx context.Context, query domain.Query, override *Override) (domain.Recommendation, error) {
	var (
		internal *domain.InternalAggregate
		market   domain.MarketSample
	)

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		internal = o.Engine.Match(query)
		return nil
	})

	group.Go(func() error {
		fetchStart := time.Now()
		market = o.Session.Fetch(gctx, query.Canonical)
		metrics.ScrapeFetchesTotal.WithLabelValues(string(market.Status)).Inc()
		metrics.ScrapeFetchDuration.Observe(time.Since(fetchStart).Seconds())
		return nil
	})

	// Both sub-tasks above only ever return nil: a scrape failure
	// becomes a status=error MarketSample rather than an error value,
	// per spec.md §4.8 step 2b ("market failure does not abort").
	_ = group.Wait()

	if override != nil {
		internal = &domain.InternalAggregate{
			InternalPrice:   decimalFromFloat(override.InternalPrice),
			SellThroughRate: override.SellThroughRate,
			DaysOnShelf:     override.DaysOnShelf,
			Category:        override.Category,
			MatchedCount:    1,
		}
	}

	features := ml.InputsFromAggregates(internal, &market)
	mlResult := o.MLAdapter.Predict(features)
	metrics.MLPredictionsTotal.WithLabelValues(strconv.FormatBool(mlResult.Available)).Inc()

	return recommend.Compute(recommend.Inputs{
		Query:    query,
		Market:   &market,
		Internal: internal,
		ML:       mlResult,
	})
}
