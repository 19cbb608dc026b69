// Package csvstore is the CSV-backed Backend implementation for the
// Internal Matching Engine, the interchangeable alternative to
// pgstore per spec.md §6 ("CSV path, or connection string if
// relational").
package csvstore

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"priceadvisor/internal/domain"
)

// required header columns, per spec.md §6's table schema; they may
// appear in any order in the file.
var columns = []string{
	"item_id", "upc", "department", "category", "subcategory", "brand",
	"production_date", "sold_date", "days_to_sell", "production_price", "sold_price",
}

// Store loads domain.InternalRecord rows from a CSV file.
type Store struct {
	Path string
}

// New builds a Store reading from path.
func New(path string) *Store {
	return &Store{Path: path}
}

// LoadAll reads and parses every row of the configured CSV file.
func (s *Store) LoadAll() ([]domain.InternalRecord, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open internal data csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []domain.InternalRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		rec, err := parseRow(row, index)
		if err != nil {
			return nil, fmt.Errorf("parse csv row: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[col] = i
	}
	for _, want := range columns {
		if _, ok := index[want]; !ok {
			return nil, fmt.Errorf("missing required column %q", want)
		}
	}
	return index, nil
}

func parseRow(row []string, index map[string]int) (domain.InternalRecord, error) {
	get := func(col string) string { return row[index[col]] }

	productionDate, err := time.Parse("2006-01-02", get("production_date"))
	if err != nil {
		return domain.InternalRecord{}, fmt.Errorf("production_date: %w", err)
	}
	productionPrice, err := decimal.NewFromString(get("production_price"))
	if err != nil {
		return domain.InternalRecord{}, fmt.Errorf("production_price: %w", err)
	}

	rec := domain.InternalRecord{
		ItemID:          get("item_id"),
		UPC:             get("upc"),
		Department:      get("department"),
		Category:        get("category"),
		Subcategory:     get("subcategory"),
		Brand:           get("brand"),
		ProductionDate:  productionDate,
		ProductionPrice: productionPrice,
	}

	if raw := get("sold_date"); raw != "" {
		soldDate, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return domain.InternalRecord{}, fmt.Errorf("sold_date: %w", err)
		}
		rec.SoldDate = &soldDate
	}
	if raw := get("days_to_sell"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return domain.InternalRecord{}, fmt.Errorf("days_to_sell: %w", err)
		}
		rec.DaysToSell = &days
	}
	if raw := get("sold_price"); raw != "" {
		soldPrice, err := decimal.NewFromString(raw)
		if err != nil {
			return domain.InternalRecord{}, fmt.Errorf("sold_price: %w", err)
		}
		rec.SoldPrice = &soldPrice
	}

	return rec, nil
}
