package store

import (
	"context"

	"flightcore/internal/apperr"
	"flightcore/internal/domain"
	"flightcore/pkg/database"
)

// InsertPayment records one payment attempt (spec.md §3, §4.4.2 steps 3-4).
func (s *Store) InsertPayment(ctx context.Context, tx database.Tx, p domain.Payment) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO payments (booking_reference, amount, method, status, transaction_id)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.BookingReference, p.Amount.String(), p.Method, p.Status, p.TransactionID)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "insert payment", err)
	}
	return nil
}
