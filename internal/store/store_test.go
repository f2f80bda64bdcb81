package store

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"flightcore/pkg/database"
)

// newMockStore wires a Store to a sqlmock-backed *sql.DB, matching the
// teacher's repository test helper shape.
func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	wrapped := &database.DB{DB: db}
	cleanup := func() { db.Close() }

	return New(wrapped), mock, cleanup
}
