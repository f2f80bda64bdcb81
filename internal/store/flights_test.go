package store

import (
	"context"
	"database/sql"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"

	"flightcore/internal/apperr"
	"flightcore/internal/domain"
)

func TestGetFlightByID_Success(t *testing.T) {
	s, mock, cleanup := newMockStore(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows(columnNames(flightColumns)).AddRow(
		int64(1), "AI101", "AI", "DEL", "BOM", int64(42), now, now.Add(2*time.Hour),
		`{"economy":"5000.00"}`, 10, domain.FlightScheduled, 0, nil, nil, 1,
	)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + flightColumns + ` FROM flights WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	f, err := s.GetFlightByID(context.Background(), s.Conn(), 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if f.FlightNumber != "AI101" {
		t.Fatalf("expected flight number AI101, got %s", f.FlightNumber)
	}
	if fare, ok := f.BaseFare[domain.Economy]; !ok || !fare.Equal(mustDecimal("5000.00")) {
		t.Fatalf("unexpected base fare: %+v", f.BaseFare)
	}
}

func TestGetFlightByID_NotFound(t *testing.T) {
	s, mock, cleanup := newMockStore(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + flightColumns + ` FROM flights WHERE id = $1`)).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetFlightByID(context.Background(), s.Conn(), 99)
	if apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestUpdateFlightStatus_NoRows(t *testing.T) {
	s, mock, cleanup := newMockStore(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE flights SET status = $1, delay_minutes = $2, delay_reason = $3 WHERE id = $4`)).
		WithArgs(domain.FlightDelayed, 30, "weather", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateFlightStatus(context.Background(), s.Conn(), 1, domain.FlightDelayed, 30, "weather")
	if apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

// columnNames splits the column-list constants used to build SELECT queries,
// so tests can build matching sqlmock.Rows without duplicating the list.
func columnNames(cols string) []string {
	fields := strings.Fields(strings.ReplaceAll(cols, ",", " , "))
	var names []string
	for _, f := range fields {
		if f != "," {
			names = append(names, f)
		}
	}
	return names
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
