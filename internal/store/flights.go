package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"flightcore/internal/apperr"
	"flightcore/internal/domain"
	"flightcore/pkg/database"
)

// flightRow mirrors the flights table; base_fare is stored as a JSON object
// mapping tier -> decimal string.
type flightRow struct {
	baseFareJSON string
}

func scanFlight(scan func(dest ...interface{}) error) (*domain.Flight, error) {
	var f domain.Flight
	var row flightRow
	var delayReason, gate sql.NullString

	err := scan(
		&f.ID, &f.FlightNumber, &f.AirlineCode, &f.OriginCode, &f.DestinationCode,
		&f.AircraftID, &f.DepartureTime, &f.ArrivalTime, &row.baseFareJSON,
		&f.DemandIndex, &f.Status, &f.DelayMinutes, &delayReason, &gate, &f.Version,
	)
	if err != nil {
		return nil, err
	}

	f.DelayReason = delayReason.String
	f.Gate = gate.String

	raw := map[string]string{}
	if err := json.Unmarshal([]byte(row.baseFareJSON), &raw); err != nil {
		return nil, fmt.Errorf("unmarshal base_fare: %w", err)
	}
	f.BaseFare = make(map[domain.CabinClass]decimal.Decimal, len(raw))
	for tier, amount := range raw {
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse base_fare[%s]: %w", tier, err)
		}
		f.BaseFare[domain.CabinClass(tier)] = d
	}

	return &f, nil
}

const flightColumns = `id, flight_number, airline_code, origin_code, destination_code,
	       aircraft_id, departure_time, arrival_time, base_fare,
	       demand_index, status, delay_minutes, delay_reason, gate, version`

// GetFlightByID reads a flight without locking it.
func (s *Store) GetFlightByID(ctx context.Context, tx database.Tx, id int64) (*domain.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE id = $1`
	row := tx.QueryRowContext(ctx, query, id)
	f, err := scanFlight(row.Scan)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, "flight not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "get flight", err)
	}
	return f, nil
}

// LockFlightForUpdate acquires an exclusive row lock on the flight (spec.md
// §4.4.1 step 1: "Acquire an exclusive row-lock on the Flight row"). Must be
// called inside a transaction.
func (s *Store) LockFlightForUpdate(ctx context.Context, tx database.Tx, id int64) (*domain.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE id = $1 FOR UPDATE`
	row := tx.QueryRowContext(ctx, query, id)
	f, err := scanFlight(row.Scan)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, "flight not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "lock flight", err)
	}
	return f, nil
}

// SortKey is the Search Service's ordering choice (spec.md §4.3: "sort key
// ∈ {price, duration, departure}"). Price and duration can't be expressed in
// SQL (they depend on the Pricing Engine and per-tier filtering respectively,
// both applied after the row scan), so SearchFlights always returns rows in
// a stable departure/id order and the Search Service re-sorts in memory once
// it has computed price_map/duration_minutes for each result.
type SortKey string

const (
	SortByDeparture SortKey = "departure"
	SortByPrice     SortKey = "price"
	SortByDuration  SortKey = "duration"
)

// SearchCriteria are the Search Service's filter parameters (spec.md §4.3).
type SearchCriteria struct {
	OriginCode      string
	DestinationCode string
	Date            *time.Time // UTC calendar day, optional
	Limit           int
	Offset          int
}

// SearchFlights returns flights matching the criteria, excluding only
// Cancelled flights (spec.md §4.3: "only flights with status = Cancelled are
// excluded"), ordered by departure time then id for stable pagination. The
// Search Service applies the caller's requested sort key (price/duration/
// departure) and tier filter on top of this base result set.
func (s *Store) SearchFlights(ctx context.Context, tx database.Tx, c SearchCriteria) ([]*domain.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights
		WHERE origin_code = $1 AND destination_code = $2 AND status <> $3`
	args := []interface{}{c.OriginCode, c.DestinationCode, domain.FlightCancelled}

	if c.Date != nil {
		query += fmt.Sprintf(" AND DATE(departure_time) = $%d", len(args)+1)
		args = append(args, c.Date.Format("2006-01-02"))
	}

	query += " ORDER BY departure_time ASC, id ASC"
	if c.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", c.Limit, c.Offset)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "search flights", err)
	}
	defer rows.Close()

	var flights []*domain.Flight
	for rows.Next() {
		f, err := scanFlight(rows.Scan)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "scan flight", err)
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

// UpdateDemandIndex persists the Demand Simulator's new demand_index for one
// flight (spec.md §4.2 step 3). Clamped to [0, 100] by the caller.
func (s *Store) UpdateDemandIndex(ctx context.Context, tx database.Tx, flightID int64, demandIndex int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE flights SET demand_index = $1 WHERE id = $2`, demandIndex, flightID)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "update demand index", err)
	}
	return nil
}

// UpdateFlightStatus is the staff-only "Update flight status" operation
// (spec.md §6); its only caller is catalog.Service.UpdateFlightStatus.
func (s *Store) UpdateFlightStatus(ctx context.Context, tx database.Tx, flightID int64, status domain.FlightStatus, delayMinutes int, delayReason string) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE flights SET status = $1, delay_minutes = $2, delay_reason = $3 WHERE id = $4`,
		status, delayMinutes, delayReason, flightID)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "update flight status", err)
	}
	return mustAffectOne(res, "flight")
}

// AssignGate is the airport-authority-only "Assign gate" operation (spec.md §6).
func (s *Store) AssignGate(ctx context.Context, tx database.Tx, flightID int64, gate string) error {
	res, err := tx.ExecContext(ctx, `UPDATE flights SET gate = $1 WHERE id = $2`, gate, flightID)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "assign gate", err)
	}
	return mustAffectOne(res, "flight")
}

// AllBookableFlightIDs returns the IDs of every flight the Demand Simulator
// should tick (spec.md §4.2 step 1).
func (s *Store) AllBookableFlightIDs(ctx context.Context, tx database.Tx, now time.Time) ([]int64, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM flights WHERE departure_time > $1 AND status NOT IN ($2, $3, $4)`,
		now, domain.FlightCancelled, domain.FlightDeparted, domain.FlightLanded)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list bookable flights", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "scan flight id", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func mustAffectOne(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Wrap(apperr.Internal, "rows affected", err)
	}
	if n == 0 {
		return apperr.New(apperr.NotFound, what+" not found")
	}
	return nil
}
