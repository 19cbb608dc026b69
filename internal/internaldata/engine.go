package internaldata

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"priceadvisor/internal/domain"
)

// DefaultMaxMatches is spec.md §6's MAX_INTERNAL_MATCHES default.
const DefaultMaxMatches = 50

// Engine is the Internal Matching Engine: an immutable, read-only
// index over the records loaded from a Backend at startup. Safe for
// unlocked concurrent reads from any number of callers (spec.md §5).
type Engine struct {
	records      []domain.InternalRecord
	maxMatches   int
	upcIndex     map[string][]domain.InternalRecord
}

// NewEngine loads all records from backend and builds the UPC index.
func NewEngine(backend Backend, maxMatches int) (*Engine, error) {
	records, err := backend.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("load internal records: %w", err)
	}
	if maxMatches <= 0 {
		maxMatches = DefaultMaxMatches
	}

	upcIndex := make(map[string][]domain.InternalRecord)
	for _, rec := range records {
		if rec.UPC == "" {
			continue
		}
		upcIndex[rec.UPC] = append(upcIndex[rec.UPC], rec)
	}

	return &Engine{records: records, maxMatches: maxMatches, upcIndex: upcIndex}, nil
}

// Match implements spec.md §4.4's two-tier strategy: an exact UPC hit
// takes precedence over token scoring. Returns nil if nothing matches.
// Never returns an error — a query that matches nothing is a valid
// "no internal data" outcome, not a failure.
func (e *Engine) Match(query domain.Query) *domain.InternalAggregate {
	var matched []domain.InternalRecord

	if query.Kind == domain.QueryKindUPC {
		if hits, ok := e.upcIndex[query.Canonical]; ok {
			matched = hits
		}
	}

	if len(matched) == 0 {
		matched = e.tokenMatch(query.Canonical)
	}

	if len(matched) == 0 {
		return nil
	}

	if len(matched) > e.maxMatches {
		matched = matched[:e.maxMatches]
	}

	return aggregate(matched)
}

type scoredRecord struct {
	record domain.InternalRecord
	score  int
}

// tokenMatch scores every record by the count of distinct query tokens
// it contains across brand/category/subcategory/department, per
// spec.md §4.4 step 2. Ties break by most recent sold_date.
func (e *Engine) tokenMatch(query string) []domain.InternalRecord {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	var scored []scoredRecord
	for _, rec := range e.records {
		score := scoreRecord(rec, tokens)
		if score > 0 {
			scored = append(scored, scoredRecord{record: rec, score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return soldDateOf(scored[i].record).After(soldDateOf(scored[j].record))
	})

	matched := make([]domain.InternalRecord, len(scored))
	for i, s := range scored {
		matched[i] = s.record
	}
	return matched
}

func scoreRecord(rec domain.InternalRecord, tokens []string) int {
	fields := []string{
		strings.ToLower(rec.Brand),
		strings.ToLower(rec.Category),
		strings.ToLower(rec.Subcategory),
		strings.ToLower(rec.Department),
	}

	score := 0
	for _, token := range tokens {
		for _, field := range fields {
			if strings.Contains(field, token) {
				score++
				break
			}
		}
	}
	return score
}

// soldDateOf returns a record's sold date, or the zero time if unsold
// — unsold records sort last among equal scores.
func soldDateOf(rec domain.InternalRecord) time.Time {
	if rec.SoldDate == nil {
		return time.Time{}
	}
	return *rec.SoldDate
}

var tokenStrip = strings.NewReplacer(
	",", "", ".", "", "!", "", "?", "", ";", "", ":", "",
	"(", "", ")", "", "\"", "", "'", "",
)

func tokenize(s string) []string {
	cleaned := tokenStrip.Replace(strings.ToLower(s))
	return strings.Fields(cleaned)
}

// aggregate implements spec.md §4.4's aggregation rules over the
// top-N matched records.
func aggregate(matched []domain.InternalRecord) *domain.InternalAggregate {
	var soldSum decimal.Decimal
	soldCount := 0
	var prodSum decimal.Decimal

	var daysSum float64
	daysSoldCount := 0
	now := time.Now()
	var unsoldAgeSum float64
	unsoldCount := 0

	categoryCounts := make(map[string]int)

	for _, rec := range matched {
		prodSum = prodSum.Add(rec.ProductionPrice)
		categoryCounts[rec.Category]++

		if rec.SoldPrice != nil {
			soldSum = soldSum.Add(*rec.SoldPrice)
			soldCount++
			if rec.DaysToSell != nil {
				daysSum += float64(*rec.DaysToSell)
				daysSoldCount++
			}
		} else {
			unsoldAgeSum += now.Sub(rec.ProductionDate).Hours() / 24
			unsoldCount++
		}
	}

	var internalPrice decimal.Decimal
	if soldCount > 0 {
		internalPrice = soldSum.Div(decimal.NewFromInt(int64(soldCount)))
	} else {
		internalPrice = prodSum.Div(decimal.NewFromInt(int64(len(matched))))
	}

	sellThroughRate := float64(soldCount) / float64(len(matched))

	var daysOnShelf float64
	if daysSoldCount > 0 {
		daysOnShelf = daysSum / float64(daysSoldCount)
	} else if unsoldCount > 0 {
		daysOnShelf = unsoldAgeSum / float64(unsoldCount)
	}

	return &domain.InternalAggregate{
		MatchedCount:    len(matched),
		InternalPrice:   internalPrice,
		SellThroughRate: sellThroughRate,
		DaysOnShelf:     daysOnShelf,
		Category:        modalCategory(categoryCounts),
	}
}

func modalCategory(counts map[string]int) string {
	best := ""
	bestCount := -1
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if counts[k] > bestCount {
			best = k
			bestCount = counts[k]
		}
	}
	return best
}
