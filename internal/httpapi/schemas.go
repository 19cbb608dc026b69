package httpapi

import "github.com/shopspring/decimal"

// RecommendationRequest is the POST /price-recommendation body, per
// spec.md §6.
type RecommendationRequest struct {
	UPC          string                `json:"upc" binding:"required"`
	InternalData *InternalDataOverride `json:"internal_data"`
}

// InternalDataOverride replaces the matching engine's output for one
// call when supplied.
type InternalDataOverride struct {
	InternalPrice   float64 `json:"internal_price"`
	SellThroughRate float64 `json:"sell_through_rate"`
	DaysOnShelf     float64 `json:"days_on_shelf"`
	Category        string  `json:"category"`
}

// MarketDataResponse is the market_data field of a recommendation
// response.
type MarketDataResponse struct {
	MedianPrice       decimal.Decimal `json:"median_price"`
	AveragePrice      decimal.Decimal `json:"average_price"`
	MinPrice          decimal.Decimal `json:"min_price"`
	MaxPrice          decimal.Decimal `json:"max_price"`
	SampleSize        int             `json:"sample_size"`
	SoldListingsCount int             `json:"sold_listings_count"`
	Timestamp         string          `json:"timestamp"`
}

// InternalDataResponse is the internal_data field of a recommendation
// response.
type InternalDataResponse struct {
	InternalPrice   decimal.Decimal `json:"internal_price"`
	SellThroughRate float64         `json:"sell_through_rate"`
	DaysOnShelf     float64         `json:"days_on_shelf"`
	Category        string          `json:"category"`
	MatchedCount    int             `json:"matched_count"`
}

// RecommendationResponse is the full POST /price-recommendation
// response shape, per spec.md §6.
type RecommendationResponse struct {
	UPC                       string                `json:"upc"`
	RecommendedPrice          decimal.Decimal       `json:"recommended_price"`
	InternalVsMarketWeighting float64               `json:"internal_vs_market_weighting"`
	ConfidenceScore           int                   `json:"confidence_score"`
	Rationale                 string                `json:"rationale"`
	PredictionMethod          string                `json:"prediction_method"`
	MarketData                *MarketDataResponse   `json:"market_data"`
	InternalData              *InternalDataResponse `json:"internal_data"`
	Warnings                  []string              `json:"warnings"`
}

// ErrorResponse is the JSON body for 4xx/5xx error responses,
// following the teacher's controller convention
// (services/order_service/src/controllers/order_controller.go).
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}
