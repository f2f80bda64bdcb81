package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"flightcore/internal/apperr"
	"flightcore/internal/domain"
	"flightcore/pkg/database"
)

const bookingColumns = `id, booking_reference, pnr, user_id, flight_id, tier, status,
	       total_fare, paid_amount, created_at, hold_expires_at, transaction_id`

func scanBooking(scan func(dest ...interface{}) error) (*domain.Booking, error) {
	var b domain.Booking
	var pnr, transactionID sql.NullString
	var totalFare, paidAmount string

	if err := scan(&b.ID, &b.BookingReference, &pnr, &b.UserID, &b.FlightID, &b.Tier,
		&b.Status, &totalFare, &paidAmount, &b.CreatedAt, &b.HoldExpiresAt, &transactionID); err != nil {
		return nil, err
	}

	b.PNR = pnr.String
	b.TransactionID = transactionID.String

	tf, err := decimal.NewFromString(totalFare)
	if err != nil {
		return nil, err
	}
	b.TotalFare = tf

	pa, err := decimal.NewFromString(paidAmount)
	if err != nil {
		return nil, err
	}
	b.PaidAmount = pa

	return &b, nil
}

// InsertBooking creates a new Held booking row (spec.md §4.4.1 step 5).
func (s *Store) InsertBooking(ctx context.Context, tx database.Tx, b *domain.Booking) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (id, booking_reference, pnr, user_id, flight_id, tier, status,
		                        total_fare, paid_amount, created_at, hold_expires_at, transaction_id)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''))`,
		b.ID, b.BookingReference, b.PNR, b.UserID, b.FlightID, b.Tier, b.Status,
		b.TotalFare.String(), b.PaidAmount.String(), b.CreatedAt, b.HoldExpiresAt, b.TransactionID)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "insert booking", err)
	}
	return nil
}

// GetBookingByReference reads a booking without locking it.
func (s *Store) GetBookingByReference(ctx context.Context, tx database.Tx, reference string) (*domain.Booking, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE booking_reference = $1`, reference)
	b, err := scanBooking(row.Scan)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, "booking not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "get booking", err)
	}
	return b, nil
}

// GetBookingByPNR reads a booking by its issued PNR (spec.md §6 "Get booking
// by PNR"); PNR uniqueness only holds over not-Expired bookings, so an
// Expired row may share a PNR with nothing (PNR is unset until Confirmed).
func (s *Store) GetBookingByPNR(ctx context.Context, tx database.Tx, pnr string) (*domain.Booking, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE pnr = $1 AND status <> $2`, pnr, domain.BookingExpired)
	b, err := scanBooking(row.Scan)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, "booking not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "get booking by pnr", err)
	}
	return b, nil
}

// LockBookingForUpdateByReference locks a booking row for the payment,
// confirmation, or expiry transactions.
func (s *Store) LockBookingForUpdateByReference(ctx context.Context, tx database.Tx, reference string) (*domain.Booking, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE booking_reference = $1 FOR UPDATE`, reference)
	b, err := scanBooking(row.Scan)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, "booking not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "lock booking", err)
	}
	return b, nil
}

// LockBookingForUpdateByPNR locks a booking row keyed by PNR (cancellation,
// spec.md §4.4.4).
func (s *Store) LockBookingForUpdateByPNR(ctx context.Context, tx database.Tx, pnr string) (*domain.Booking, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE pnr = $1 AND status <> $2 FOR UPDATE`, pnr, domain.BookingExpired)
	b, err := scanBooking(row.Scan)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, "booking not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "lock booking by pnr", err)
	}
	return b, nil
}

// UpdateBookingStatus moves a booking to a new status.
func (s *Store) UpdateBookingStatus(ctx context.Context, tx database.Tx, bookingID int64, status domain.BookingStatus) error {
	res, err := tx.ExecContext(ctx, `UPDATE bookings SET status = $1 WHERE id = $2`, status, bookingID)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "update booking status", err)
	}
	return mustAffectOne(res, "booking")
}

// ConfirmBooking records the Confirmed transition and the assigned PNR
// (spec.md §4.4.2 step 4).
func (s *Store) ConfirmBooking(ctx context.Context, tx database.Tx, bookingID int64, pnr string, paidAmount decimal.Decimal, transactionID string) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = $1, pnr = $2, paid_amount = $3, transaction_id = $4 WHERE id = $5`,
		domain.BookingConfirmed, pnr, paidAmount.String(), transactionID, bookingID)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "confirm booking", err)
	}
	return mustAffectOne(res, "booking")
}

// PNRExists reports whether pnr is already in use by a not-Expired booking
// (spec.md §4.5 collision check).
func (s *Store) PNRExists(ctx context.Context, tx database.Tx, pnr string) (bool, error) {
	var exists bool
	err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM bookings WHERE pnr = $1 AND status <> $2)`,
		pnr, domain.BookingExpired).Scan(&exists)
	if err != nil {
		return false, apperr.Wrap(apperr.Internal, "check pnr uniqueness", err)
	}
	return exists, nil
}

// ListExpirableBookings returns Held/PendingPayment bookings whose hold has
// lapsed, for the reaper (spec.md §4.4.3).
func (s *Store) ListExpirableBookings(ctx context.Context, tx database.Tx, now time.Time) ([]string, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT booking_reference FROM bookings WHERE status IN ($1, $2) AND hold_expires_at <= $3`,
		domain.BookingHeld, domain.BookingPendingPayment, now)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list expirable bookings", err)
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "scan booking reference", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
