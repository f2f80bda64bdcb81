package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"flightcore/internal/config"
	"flightcore/internal/domain"
	"flightcore/internal/store"
	"flightcore/pkg/database"
)

// Queries in internal/store span multiple lines with source-formatting
// whitespace that isn't worth reproducing byte-for-byte in a test; these
// patterns use \s+ in place of literal newlines/indentation.
const (
	lockBookingByPNRPattern    = `SELECT id, booking_reference, pnr, user_id, flight_id, tier, status,\s+total_fare, paid_amount, created_at, hold_expires_at, transaction_id FROM bookings WHERE pnr = \$1 AND status <> \$2 FOR UPDATE`
	releaseSeatsPattern        = `UPDATE seats SET status = \$1, booking_id = NULL WHERE booking_id = \$2`
	updateBookingStatusPattern = `UPDATE bookings SET status = \$1 WHERE id = \$2`
	listTicketsPattern         = `SELECT id, booking_id, seat_id, COALESCE\(ticket_number, ''\), passenger_name, passenger_age, passenger_gender\s+FROM tickets WHERE booking_id = \$1 ORDER BY id ASC`
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	wrapped := &database.DB{DB: db}
	s := store.New(wrapped)

	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	svc := New(s, nil, nil, nil, nil, config.AppConfig{}, func() time.Time { return now })

	return svc, mock, func() { db.Close() }
}

func bookingRow(id int64, ref string, status domain.BookingStatus, pnr string, holdExpiry time.Time) *sqlmock.Rows {
	cols := []string{"id", "booking_reference", "pnr", "user_id", "flight_id", "tier", "status",
		"total_fare", "paid_amount", "created_at", "hold_expires_at", "transaction_id"}
	return sqlmock.NewRows(cols).AddRow(
		id, ref, pnr, int64(1), int64(10), domain.Economy, status,
		"5000", "5000", time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC), holdExpiry, "")
}

var testActor = domain.User{ID: 1, Email: "alice@example.com", Role: domain.RoleCustomer, Name: "Alice"}

func TestCancelBooking_HeldBooking_ReleasesSeats(t *testing.T) {
	svc, mock, cleanup := newTestService(t)
	defer cleanup()

	pnr := "AB12CD"
	mock.ExpectBegin()
	mock.ExpectQuery(lockBookingByPNRPattern).
		WithArgs(pnr, domain.BookingExpired).
		WillReturnRows(bookingRow(1, "BK-test-1", domain.BookingHeld, pnr, time.Date(2026, 7, 31, 13, 0, 0, 0, time.UTC)))
	mock.ExpectExec(releaseSeatsPattern).
		WithArgs(domain.SeatAvailable, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(updateBookingStatusPattern).
		WithArgs(domain.BookingCancelled, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(listTicketsPattern).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "seat_id", "ticket_number", "passenger_name", "passenger_age", "passenger_gender"}).
			AddRow(int64(100), int64(1), int64(5), "", "Alice", 30, "F").
			AddRow(int64(101), int64(1), int64(6), "", "Bob", 31, "M"))
	mock.ExpectCommit()

	booking, err := svc.CancelBooking(context.Background(), pnr, testActor)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if booking.Status != domain.BookingCancelled {
		t.Fatalf("expected booking status Cancelled, got %v", booking.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelBooking_AlreadyCancelled_IsNoOp(t *testing.T) {
	svc, mock, cleanup := newTestService(t)
	defer cleanup()

	pnr := "EF34GH"
	mock.ExpectBegin()
	mock.ExpectQuery(lockBookingByPNRPattern).
		WithArgs(pnr, domain.BookingExpired).
		WillReturnRows(bookingRow(2, "BK-test-2", domain.BookingCancelled, pnr, time.Date(2026, 7, 31, 13, 0, 0, 0, time.UTC)))
	mock.ExpectCommit()

	booking, err := svc.CancelBooking(context.Background(), pnr, testActor)
	if err != nil {
		t.Fatalf("expected no error for an already-cancelled booking, got %v", err)
	}
	if booking.Status != domain.BookingCancelled {
		t.Fatalf("expected booking status to remain Cancelled, got %v", booking.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
