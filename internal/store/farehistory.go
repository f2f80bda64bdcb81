package store

import (
	"context"

	"flightcore/internal/apperr"
	"flightcore/internal/domain"
	"flightcore/pkg/database"
)

// AppendFareHistory records one fare-history point. The table is append-only
// by design (spec.md §3, §5 "no contention by design").
func (s *Store) AppendFareHistory(ctx context.Context, tx database.Tx, sample domain.FareHistorySample) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO fare_history (flight_id, tier, fare, demand_index, sampled_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		sample.FlightID, sample.Tier, sample.Fare.String(), sample.DemandIndex, sample.SampledAt)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "append fare history", err)
	}
	return nil
}

// ListFareHistory returns a flight's fare time series for a tier, ordered by
// sample time (used by tests and any downstream reporting surface).
func (s *Store) ListFareHistory(ctx context.Context, tx database.Tx, flightID int64, tier domain.CabinClass) ([]domain.FareHistorySample, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT flight_id, tier, fare, demand_index, sampled_at
		 FROM fare_history WHERE flight_id = $1 AND tier = $2 ORDER BY sampled_at ASC`,
		flightID, tier)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list fare history", err)
	}
	defer rows.Close()

	var samples []domain.FareHistorySample
	for rows.Next() {
		var sample domain.FareHistorySample
		var fare string
		if err := rows.Scan(&sample.FlightID, &sample.Tier, &fare, &sample.DemandIndex, &sample.SampledAt); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "scan fare history", err)
		}
		d, err := decimalFromString(fare)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "parse fare", err)
		}
		sample.Fare = d
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}
