package store

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"flightcore/internal/apperr"
	"flightcore/internal/domain"
	"flightcore/pkg/database"
)

const seatColumns = `id, flight_id, seat_number, class, position, surcharge, status, booking_id`

func scanSeat(scan func(dest ...interface{}) error) (*domain.Seat, error) {
	var seat domain.Seat
	var surcharge string
	var bookingID sql.NullInt64

	if err := scan(&seat.ID, &seat.FlightID, &seat.SeatNumber, &seat.Class,
		&seat.Position, &surcharge, &seat.Status, &bookingID); err != nil {
		return nil, err
	}

	d, err := decimal.NewFromString(surcharge)
	if err != nil {
		return nil, err
	}
	seat.Surcharge = d

	if bookingID.Valid {
		id := bookingID.Int64
		seat.BookingID = &id
	}
	return &seat, nil
}

// ListAvailableSeatsForUpdate locks and returns the Available seats of a tier
// on a flight, ordered by seat_number (spec.md §4.4.1 step 2, §5 "then its
// Seats in ascending seat_number"). Must run inside the same transaction
// that already holds the flight row lock.
func (s *Store) ListAvailableSeatsForUpdate(ctx context.Context, tx database.Tx, flightID int64, tier domain.CabinClass, limit int) ([]*domain.Seat, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT `+seatColumns+` FROM seats
		 WHERE flight_id = $1 AND class = $2 AND status = $3
		 ORDER BY seat_number ASC
		 LIMIT $4
		 FOR UPDATE`,
		flightID, tier, domain.SeatAvailable, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list available seats", err)
	}
	defer rows.Close()

	var seats []*domain.Seat
	for rows.Next() {
		seat, err := scanSeat(rows.Scan)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "scan seat", err)
		}
		seats = append(seats, seat)
	}
	return seats, rows.Err()
}

// LockSeatsByNumberForUpdate locks specific requested seats and returns them
// in ascending seat_number order (spec.md §5 lock ordering).
func (s *Store) LockSeatsByNumberForUpdate(ctx context.Context, tx database.Tx, flightID int64, seatNumbers []string) ([]*domain.Seat, error) {
	if len(seatNumbers) == 0 {
		return nil, nil
	}
	rows, err := tx.QueryContext(ctx,
		`SELECT `+seatColumns+` FROM seats
		 WHERE flight_id = $1 AND seat_number = ANY($2)
		 ORDER BY seat_number ASC
		 FOR UPDATE`,
		flightID, pq.Array(seatNumbers))
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "lock requested seats", err)
	}
	defer rows.Close()

	var seats []*domain.Seat
	for rows.Next() {
		seat, err := scanSeat(rows.Scan)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "scan seat", err)
		}
		seats = append(seats, seat)
	}
	return seats, rows.Err()
}

// SetSeatHeld transitions a seat Available -> Held for a new booking
// (spec.md §4.4.1 step 2).
func (s *Store) SetSeatHeld(ctx context.Context, tx database.Tx, seatID, bookingID int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE seats SET status = $1, booking_id = $2 WHERE id = $3 AND status = $4`,
		domain.SeatHeld, bookingID, seatID, domain.SeatAvailable)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "hold seat", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Wrap(apperr.Internal, "rows affected", err)
	}
	if n == 0 {
		return apperr.New(apperr.SeatUnavailable, "seat is no longer available")
	}
	return nil
}

// SetSeatsSold transitions every seat of a booking Held -> Sold on
// confirmation (spec.md §4.4.2 step 4).
func (s *Store) SetSeatsSold(ctx context.Context, tx database.Tx, bookingID int64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE seats SET status = $1 WHERE booking_id = $2 AND status = $3`,
		domain.SeatSold, bookingID, domain.SeatHeld)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "sell seats", err)
	}
	return nil
}

// ReleaseSeatsForBooking releases every seat tied to a booking back to
// Available (spec.md §4.4.3 step 3, §4.4.4 cancellation).
func (s *Store) ReleaseSeatsForBooking(ctx context.Context, tx database.Tx, bookingID int64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE seats SET status = $1, booking_id = NULL WHERE booking_id = $2`,
		domain.SeatAvailable, bookingID)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "release seats", err)
	}
	return nil
}

// SeatCounts is a tier's Available/Held/Sold/Total breakdown.
type SeatCounts struct {
	Available int
	Held      int
	Sold      int
	Total     int
}

// CountSeatsByTier reports live per-status counts for a (flight, tier) pair,
// used by both Search (remaining seats, spec.md §4.3) and the Pricing Engine
// loader (seats_available/seats_total, spec.md §4.1).
func (s *Store) CountSeatsByTier(ctx context.Context, tx database.Tx, flightID int64, tier domain.CabinClass) (SeatCounts, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM seats WHERE flight_id = $1 AND class = $2 GROUP BY status`,
		flightID, tier)
	if err != nil {
		return SeatCounts{}, apperr.Wrap(apperr.Internal, "count seats", err)
	}
	defer rows.Close()

	var c SeatCounts
	for rows.Next() {
		var status domain.SeatStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return SeatCounts{}, apperr.Wrap(apperr.Internal, "scan seat count", err)
		}
		switch status {
		case domain.SeatAvailable:
			c.Available = n
		case domain.SeatHeld:
			c.Held = n
		case domain.SeatSold:
			c.Sold = n
		}
		c.Total += n
	}
	return c, rows.Err()
}
