package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"

	"flightcore/internal/domain"
)

func TestPNRExists(t *testing.T) {
	s, mock, cleanup := newMockStore(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"exists"}).AddRow(true)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM bookings WHERE pnr = $1 AND status <> $2)`)).
		WithArgs("ABC123", domain.BookingExpired).
		WillReturnRows(rows)

	exists, err := s.PNRExists(context.Background(), s.Conn(), "ABC123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !exists {
		t.Fatalf("expected pnr to exist")
	}
}

func TestConfirmBooking(t *testing.T) {
	s, mock, cleanup := newMockStore(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE bookings SET status = $1, pnr = $2, paid_amount = $3, transaction_id = $4 WHERE id = $5`)).
		WithArgs(domain.BookingConfirmed, "ABC123", "5000", "TXN-1", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.ConfirmBooking(context.Background(), s.Conn(), 1, "ABC123", decimal.RequireFromString("5000"), "TXN-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
