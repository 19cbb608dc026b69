// Package domain holds the shared value types that flow between the
// pricing pipeline's components: queries, scraped listings, market and
// internal aggregates, and the final recommendation.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// QueryKind classifies a raw user query.
type QueryKind string

const (
	QueryKindUPC      QueryKind = "upc"
	QueryKindFreeText QueryKind = "freetext"
)

// Query is a classified, canonicalized user input.
type Query struct {
	Raw       string
	Kind      QueryKind
	Canonical string
}

// NormalizedKey returns the cache/index key for this query: lowercased
// and whitespace-collapsed, per the Request Cache's key rule.
func (q Query) NormalizedKey() string {
	return normalizeKey(q.Canonical)
}

// Condition is the physical condition of a scraped listing.
type Condition string

const (
	ConditionNew         Condition = "new"
	ConditionUsed        Condition = "used"
	ConditionRefurbished Condition = "refurbished"
	ConditionUnknown     Condition = "unknown"
)

// Listing is one scraped marketplace entry. Immutable once constructed.
type Listing struct {
	Title     string
	Price     decimal.Decimal
	Currency  string
	Condition Condition
	SoldDate  *time.Time
	URL       string
}

// SampleStatus discriminates a successful scrape from an empty or
// failed one.
type SampleStatus string

const (
	SampleStatusOK    SampleStatus = "ok"
	SampleStatusEmpty SampleStatus = "empty"
	SampleStatusError SampleStatus = "error"
)

// MarketSample is the outcome of scraping one query.
type MarketSample struct {
	Listings    []Listing
	Median      decimal.Decimal
	Mean        decimal.Decimal
	Min         decimal.Decimal
	Max         decimal.Decimal
	SampleSize  int
	SoldCount   int
	Timestamp   time.Time
	Status      SampleStatus
	LowConfidence bool
	Warning     string
}

// InternalRecord is one row of historical sales data. Immutable after
// load.
type InternalRecord struct {
	ItemID          string
	UPC             string
	Department      string
	Category        string
	Subcategory     string
	Brand           string
	ProductionDate  time.Time
	SoldDate        *time.Time
	DaysToSell      *int
	ProductionPrice decimal.Decimal
	SoldPrice       *decimal.Decimal
}

// InternalAggregate is the outcome of matching a query against
// InternalRecords.
type InternalAggregate struct {
	MatchedCount    int
	InternalPrice   decimal.Decimal
	SellThroughRate float64
	DaysOnShelf     float64
	Category        string
}

// PredictionMethod identifies which branch of the recommendation
// engine produced the final price.
type PredictionMethod string

const (
	MethodML       PredictionMethod = "ml"
	MethodMarket   PredictionMethod = "market"
	MethodInternal PredictionMethod = "internal"
	MethodRules    PredictionMethod = "rules"
)

// Recommendation is the final artifact returned to callers.
type Recommendation struct {
	Query                     string
	RecommendedPrice          decimal.Decimal
	InternalVsMarketWeighting float64
	ConfidenceScore           int
	Rationale                 string
	PredictionMethod          PredictionMethod
	Market                    *MarketSample
	Internal                  *InternalAggregate
	Warnings                  []string
	ComputedAt                time.Time
}

// MLResult is the Feature Builder + ML Adapter's output.
type MLResult struct {
	Price           decimal.Decimal
	Available       bool
	Confidence      float64
}
