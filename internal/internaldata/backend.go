// Package internaldata implements the Internal Matching Engine: an
// indexed, read-only view of historical sales records used to find
// items comparable to a query.
//
// Grounded on the teacher's repository layer
// (services/order_service/src/repository/order_repository.go,
// services/distribution_service/src/database/connection.go) for the
// load-then-query shape, generalized here into a pluggable Backend so
// CSV and relational sources are interchangeable per spec.md §6.
package internaldata

import "priceadvisor/internal/domain"

// Backend is the storage contract the matching Engine consumes. Two
// implementations exist: csvstore (encoding/csv) and pgstore (gorm).
type Backend interface {
	// LoadAll returns every record the backend holds. Called once at
	// startup; the Engine builds its in-memory index from the result
	// and never calls LoadAll again.
	LoadAll() ([]domain.InternalRecord, error)
}
