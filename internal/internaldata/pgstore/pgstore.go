// Package pgstore is the relational Backend implementation for the
// Internal Matching Engine, grounded on
// services/order_service/src/database/connection.go's connect/pool/
// migrate shape and services/order_service/src/models/order.go's
// gorm model conventions (decimal.Decimal columns, explicit table
// names).
package pgstore

import (
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"priceadvisor/internal/domain"
)

// Record is the gorm model backing the internal_records table, per
// spec.md §6's column schema.
type Record struct {
	ItemID          string `gorm:"column:item_id;primaryKey"`
	UPC             string `gorm:"column:upc;index"`
	Department      string `gorm:"column:department"`
	Category        string `gorm:"column:category"`
	Subcategory     string `gorm:"column:subcategory"`
	Brand           string `gorm:"column:brand"`
	ProductionDate  time.Time       `gorm:"column:production_date"`
	SoldDate        *time.Time      `gorm:"column:sold_date"`
	DaysToSell      *int            `gorm:"column:days_to_sell"`
	ProductionPrice decimal.Decimal `gorm:"column:production_price;type:numeric"`
	SoldPrice       *decimal.Decimal `gorm:"column:sold_price;type:numeric"`
}

// TableName pins the table name spec.md's schema table implies.
func (Record) TableName() string { return "internal_records" }

// Store is the gorm-backed Backend.
type Store struct {
	db *gorm.DB
}

// Connect opens a postgres connection pool using dsn (a standard
// libpq connection string, per spec.md §6's INTERNAL_DATA_PATH).
func Connect(dsn string) (*Store, error) {
	gormLogger := logger.Default.LogMode(logger.Warn)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{db: db}, nil
}

// Migrate runs the golang-migrate migration set at migrationsPath
// against the connected database.
func (s *Store) Migrate(dsn, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("init migrator: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// LoadAll loads every internal_records row into domain types.
func (s *Store) LoadAll() ([]domain.InternalRecord, error) {
	var rows []Record
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query internal_records: %w", err)
	}

	records := make([]domain.InternalRecord, len(rows))
	for i, r := range rows {
		records[i] = domain.InternalRecord{
			ItemID:          r.ItemID,
			UPC:             r.UPC,
			Department:      r.Department,
			Category:        r.Category,
			Subcategory:     r.Subcategory,
			Brand:           r.Brand,
			ProductionDate:  r.ProductionDate,
			SoldDate:        r.SoldDate,
			DaysToSell:      r.DaysToSell,
			ProductionPrice: r.ProductionPrice,
			SoldPrice:       r.SoldPrice,
		}
	}
	return records, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
