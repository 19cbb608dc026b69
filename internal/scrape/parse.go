package scrape

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"priceadvisor/internal/domain"
)

var priceDigitsPattern = regexp.MustCompile(`[0-9][0-9.,]*`)

// parsePrice extracts the numeric portion of a price string, treating
// "," or "." as a decimal separator depending on which appears last
// (the common locale heuristic: the rightmost separator followed by
// 1-2 digits is the decimal point, the other is a thousands
// separator).
func parsePrice(raw string) (decimal.Decimal, string, bool) {
	currency := detectCurrency(raw)

	match := priceDigitsPattern.FindString(raw)
	if match == "" {
		return decimal.Zero, currency, false
	}

	normalized := normalizeNumeric(match)
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, currency, false
	}
	if d.IsNegative() {
		return decimal.Zero, currency, false
	}
	return d, currency, true
}

func normalizeNumeric(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	sepIndex := lastComma
	if lastDot > lastComma {
		sepIndex = lastDot
	}
	decimalSep := byte(0)
	if sepIndex >= 0 {
		if trailing := len(s) - sepIndex - 1; trailing >= 1 && trailing <= 2 {
			decimalSep = s[sepIndex]
		}
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case ',', '.':
			if c == decimalSep {
				b.WriteByte('.')
			}
			// otherwise treat as a thousands separator: drop it
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func detectCurrency(raw string) string {
	switch {
	case strings.ContainsAny(raw, "$"):
		return "USD"
	case strings.ContainsAny(raw, "£"):
		return "GBP"
	case strings.ContainsAny(raw, "€"):
		return "EUR"
	default:
		return "USD"
	}
}

// parseCondition matches a fixed dictionary of substrings against the
// card's free-text condition field, per spec.md §4.2.
func parseCondition(raw string) domain.Condition {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "refurbished"):
		return domain.ConditionRefurbished
	case strings.Contains(lower, "new"):
		return domain.ConditionNew
	case strings.Contains(lower, "used"):
		return domain.ConditionUsed
	default:
		return domain.ConditionUnknown
	}
}

var soldDateFormats = []string{
	"Jan 2, 2006",
	"2 Jan 2006",
	"2006-01-02",
	"01/02/2006",
}

// parseSoldDate attempts a best-effort parse of a "Sold <date>" style
// string; returns nil on failure rather than an error, per spec.md
// §4.2.
func parseSoldDate(raw string) *time.Time {
	cleaned := strings.TrimSpace(strings.TrimPrefix(raw, "Sold"))
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return nil
	}
	for _, format := range soldDateFormats {
		if t, err := time.Parse(format, cleaned); err == nil {
			return &t
		}
	}
	return nil
}

// toListing converts a RawCard into a domain.Listing. Returns an error
// if either title or price fails to parse — the caller drops such
// cards with a warning rather than aborting the fetch.
func toListing(card RawCard) (domain.Listing, error) {
	if card.TitleText == "" {
		return domain.Listing{}, fmt.Errorf("missing title")
	}
	price, currency, ok := parsePrice(card.PriceText)
	if !ok {
		return domain.Listing{}, fmt.Errorf("unparseable price %q", card.PriceText)
	}
	return domain.Listing{
		Title:     card.TitleText,
		Price:     price,
		Currency:  currency,
		Condition: parseCondition(card.Condition),
		SoldDate:  parseSoldDate(card.SoldText),
		URL:       card.URL,
	}, nil
}
