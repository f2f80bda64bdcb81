// Package store is the Catalog Store's and the Booking Pipeline's
// persistence layer: one table per entity in spec.md §3, fronted by a
// transactional Store abstraction (Design Notes: "expose as a scoped
// resource injected into each request handler ... Store abstraction with
// methods with_transaction(fn)").
package store

import (
	"context"

	"flightcore/pkg/database"
)

// Store is the single persistence handle constructed once at startup and
// shut down on exit (Design Notes). Every repository-style method in this
// package takes a database.Tx so it can run either directly against the
// pool or nested inside a WithTransaction callback.
type Store struct {
	db *database.DB
}

// New wraps a database connection pool as a Store.
func New(db *database.DB) *Store {
	return &Store{db: db}
}

// WithTransaction runs fn inside one database transaction (spec.md §4.4.1,
// §4.4.2, §4.4.3, §4.4.4 — "in one transaction").
func (s *Store) WithTransaction(ctx context.Context, fn func(tx database.Tx) error) error {
	return s.db.WithTransaction(ctx, fn)
}

// Conn exposes the pool itself as a database.Tx for read-only operations
// that don't need (or already are inside) an explicit transaction.
func (s *Store) Conn() database.Tx {
	return s.db
}
