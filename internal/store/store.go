// Package store is the data-access and lifecycle layer of the permit service.
// All allocation-conservation and truck-status invariants are enforced here;
// handlers only bind requests and render what the store returns.
package store

import "gorm.io/gorm"

// Store wraps a gorm handle. Multi-step operations (permit generation,
// cancellation, bulk import, backup restore) run inside a single transaction
// so a partial failure cannot leave trucks and allocations disagreeing.
type Store struct {
	db *gorm.DB
}

// New returns a Store over the given database handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// withTx runs fn on a Store bound to the transaction handle.
func (s *Store) withTx(fn func(tx *Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}
