package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"flightcore/internal/apperr"
	"flightcore/internal/domain"
	"flightcore/pkg/database"
)

// GetAirportByCode reads one airport (spec.md §3).
func (s *Store) GetAirportByCode(ctx context.Context, tx database.Tx, code string) (*domain.Airport, error) {
	var a domain.Airport
	err := tx.QueryRowContext(ctx,
		`SELECT code, name, city, country FROM airports WHERE code = $1`, code,
	).Scan(&a.Code, &a.Name, &a.City, &a.Country)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, "airport not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "get airport", err)
	}
	return &a, nil
}

// GetAircraftByID reads one aircraft, including its class distribution.
func (s *Store) GetAircraftByID(ctx context.Context, tx database.Tx, id int64) (*domain.Aircraft, error) {
	var a domain.Aircraft
	var distJSON string
	err := tx.QueryRowContext(ctx,
		`SELECT id, registration, model, total_seats, class_distribution FROM aircraft WHERE id = $1`, id,
	).Scan(&a.ID, &a.Registration, &a.Model, &a.TotalSeats, &distJSON)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, "aircraft not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "get aircraft", err)
	}

	raw := map[string]int{}
	if err := json.Unmarshal([]byte(distJSON), &raw); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "unmarshal class_distribution", err)
	}
	a.ClassDistribution = make(map[domain.CabinClass]int, len(raw))
	for tier, n := range raw {
		a.ClassDistribution[domain.CabinClass(tier)] = n
	}
	return &a, nil
}

// GetUserByID reads one user (auth/OTP itself is out of scope, spec.md §1).
func (s *Store) GetUserByID(ctx context.Context, tx database.Tx, id int64) (*domain.User, error) {
	var u domain.User
	err := tx.QueryRowContext(ctx,
		`SELECT id, email, role, name FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.Role, &u.Name)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "get user", err)
	}
	return &u, nil
}

// ScheduleFeedByAirline is the External Feed Stub's persistence-side query
// (spec.md §4.6): a deterministic projection of a single airline's upcoming
// schedule, ordered by departure time for reproducibility.
func (s *Store) ScheduleFeedByAirline(ctx context.Context, tx database.Tx, airlineCode string) ([]domain.ScheduleProjection, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT flight_number, origin_code, destination_code, departure_time, arrival_time, status
		 FROM flights WHERE airline_code = $1 AND departure_time > NOW() ORDER BY departure_time ASC`, airlineCode)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "schedule feed", err)
	}
	defer rows.Close()

	var projections []domain.ScheduleProjection
	for rows.Next() {
		var p domain.ScheduleProjection
		if err := rows.Scan(&p.FlightNumber, &p.OriginCode, &p.DestinationCode,
			&p.DepartureTime, &p.ArrivalTime, &p.Status); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "scan schedule projection", err)
		}
		projections = append(projections, p)
	}
	return projections, rows.Err()
}
