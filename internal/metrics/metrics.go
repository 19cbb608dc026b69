// Package metrics declares the pipeline's prometheus instruments,
// adapted from services/pricing_service/src/PricingController.go's
// ControllerMetrics (promauto-registered counters/histograms/gauges)
// and narrowed to this pipeline's own operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecommendationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "priceadvisor_recommendations_total",
		Help: "Total number of price recommendations computed, by prediction method.",
	}, []string{"method"})

	RecommendationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "priceadvisor_recommendation_duration_seconds",
		Help: "Duration of a full recommend() call.",
	})

	ErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "priceadvisor_errors_total",
		Help: "Total number of pipeline errors, by kind.",
	}, []string{"kind"})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "priceadvisor_cache_hits_total",
		Help: "Total request cache hits.",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "priceadvisor_cache_misses_total",
		Help: "Total request cache misses.",
	})

	ScrapeFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "priceadvisor_scrape_fetches_total",
		Help: "Total scrape session fetches, by outcome.",
	}, []string{"status"})

	ScrapeFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "priceadvisor_scrape_fetch_duration_seconds",
		Help: "Duration of a single scrape fetch.",
	})

	ScrapeCircuitBreakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "priceadvisor_scrape_circuit_breaker_state",
		Help: "Scrape driver circuit breaker state (0=closed, 1=half-open, 2=open).",
	})

	MLPredictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "priceadvisor_ml_predictions_total",
		Help: "Total ML adapter predictions, by availability.",
	}, []string{"available"})
)
