package ml

import (
	"github.com/shopspring/decimal"

	"priceadvisor/internal/domain"
)

// Adapter wraps a loaded Artifact and exposes the predict(features) ->
// price contract spec.md §4.5 describes. A nil Adapter (artifact
// failed to load at startup) always reports unavailable.
type Adapter struct {
	artifact *Artifact
}

// NewAdapter wraps a successfully loaded artifact.
func NewAdapter(artifact *Artifact) *Adapter {
	return &Adapter{artifact: artifact}
}

// Unavailable builds an Adapter with no artifact, for startup paths
// where model loading failed but the pipeline must still run.
func Unavailable() *Adapter {
	return &Adapter{}
}

// Predict assembles the feature vector and runs inference. Returns
// Available=false if the adapter has no artifact or any required
// feature is unfillable — never an error, per spec.md §4.5.
func (a *Adapter) Predict(in Inputs) domain.MLResult {
	if a == nil || a.artifact == nil {
		return domain.MLResult{Available: false}
	}

	values, ok := a.artifact.vector(in)
	if !ok {
		return domain.MLResult{Available: false}
	}

	price := a.artifact.Bias
	filledFromMean := 0
	for _, name := range featureOrder {
		price += a.artifact.Weights[name] * values[name]
		if isFilledFromMean(name, in) {
			filledFromMean++
		}
	}
	if price < 0 {
		price = 0
	}

	confidence := 1.0 - float64(filledFromMean)*0.12
	if confidence < 0 {
		confidence = 0
	}

	return domain.MLResult{
		Price:      decimal.NewFromFloat(price).Round(2),
		Available:  true,
		Confidence: confidence,
	}
}

// isFilledFromMean reports whether a numeric feature had to fall back
// to the artifact's training mean, used only to derate confidence —
// it never affects the predicted price itself.
func isFilledFromMean(name string, in Inputs) bool {
	switch name {
	case "production_price":
		return in.ProductionPrice == nil
	case "days_on_shelf":
		return in.DaysOnShelf == nil
	case "market_median":
		return in.MarketMedian == nil
	case "market_std":
		return in.MarketStd == nil
	default:
		return false
	}
}
