package store

import (
	"regexp"
	"testing"

	"context"

	"github.com/DATA-DOG/go-sqlmock"

	"flightcore/internal/apperr"
	"flightcore/internal/domain"
)

func TestSetSeatHeld_Success(t *testing.T) {
	s, mock, cleanup := newMockStore(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE seats SET status = $1, booking_id = $2 WHERE id = $3 AND status = $4`)).
		WithArgs(domain.SeatHeld, int64(10), int64(1), domain.SeatAvailable).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.SetSeatHeld(context.Background(), s.Conn(), 1, 10); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestSetSeatHeld_AlreadyTaken(t *testing.T) {
	s, mock, cleanup := newMockStore(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE seats SET status = $1, booking_id = $2 WHERE id = $3 AND status = $4`)).
		WithArgs(domain.SeatHeld, int64(10), int64(1), domain.SeatAvailable).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.SetSeatHeld(context.Background(), s.Conn(), 1, 10)
	if apperr.KindOf(err) != apperr.SeatUnavailable {
		t.Fatalf("expected SeatUnavailable, got %v", err)
	}
}

func TestCountSeatsByTier(t *testing.T) {
	s, mock, cleanup := newMockStore(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow(domain.SeatAvailable, 3).
		AddRow(domain.SeatHeld, 1).
		AddRow(domain.SeatSold, 2)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT status, COUNT(*) FROM seats WHERE flight_id = $1 AND class = $2 GROUP BY status`)).
		WithArgs(int64(1), domain.Economy).
		WillReturnRows(rows)

	counts, err := s.CountSeatsByTier(context.Background(), s.Conn(), 1, domain.Economy)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if counts.Available != 3 || counts.Held != 1 || counts.Sold != 2 || counts.Total != 6 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}
