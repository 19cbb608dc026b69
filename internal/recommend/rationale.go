package recommend

import (
	"fmt"
	"sort"

	"priceadvisor/internal/domain"
)

type factor struct {
	label string
	delta float64
}

// contributingFactors enumerates every weighting adjustment that
// actually fired for these inputs, used to pick the top two by
// absolute magnitude for the rationale sentence. Overrides are
// reported as a single factor carrying the full distance moved from
// the 0.5 base, so they dominate the ranking the way they dominate
// the final weight.
func contributingFactors(in Inputs) []factor {
	if in.Market == nil || in.Market.Status != domain.SampleStatusOK {
		return []factor{{label: "market data unavailable", delta: 0.5}}
	}
	if in.Internal == nil {
		return []factor{{label: "no internal data available", delta: -0.5}}
	}

	var factors []factor
	if in.Internal.SellThroughRate > 0.7 {
		factors = append(factors, factor{label: "high internal sell-through", delta: 0.20})
	}
	if in.Internal.SellThroughRate < 0.3 {
		factors = append(factors, factor{label: "low internal sell-through", delta: -0.15})
	}
	if in.Internal.DaysOnShelf > staleInventoryDays {
		factors = append(factors, factor{label: "stale internal inventory", delta: -0.15})
	}
	if in.Market.SampleSize < minMarketSampleForConfidence {
		factors = append(factors, factor{label: "thin market sample", delta: 0.20})
	}
	if in.Market.SampleSize > moderateMarketSample {
		factors = append(factors, factor{label: "ample market sample", delta: -0.10})
	}
	return factors
}

// rationale builds a deterministic one-sentence explanation: the top
// two contributing factors by absolute weight adjustment, plus the
// final weighting split and prediction method.
func rationale(w float64, method domain.PredictionMethod, in Inputs) string {
	factors := contributingFactors(in)
	sort.SliceStable(factors, func(i, j int) bool {
		return abs(factors[i].delta) > abs(factors[j].delta)
	})

	top := factors
	if len(top) > 2 {
		top = top[:2]
	}

	if len(top) == 0 {
		return fmt.Sprintf(
			"Balanced weighting (internal %.0f%% / market %.0f%%) via %s method.",
			w*100, (1-w)*100, method,
		)
	}

	labels := top[0].label
	if len(top) == 2 {
		labels = fmt.Sprintf("%s and %s", top[0].label, top[1].label)
	}

	return fmt.Sprintf(
		"Driven by %s, weighting internal %.0f%% / market %.0f%% via %s method.",
		labels, w*100, (1-w)*100, method,
	)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
