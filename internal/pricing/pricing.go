// Package pricing implements the Dynamic Pricing Engine (spec.md §4.1): a
// pure function from a fare snapshot to a current fare. It performs no I/O
// and never suspends.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"flightcore/internal/apperr"
	"flightcore/internal/domain"
)

// Snapshot is the fare snapshot glossary entry: everything the engine needs
// to price one tier of one flight at one instant.
type Snapshot struct {
	BaseFare        decimal.Decimal
	SeatsAvailable  int
	SeatsTotal      int
	HoursUntilDep   float64
	DemandIndex     int
	Tier            domain.CabinClass
}

var capMultiplier = decimal.NewFromInt(10)

// Quote computes the current fare for a snapshot. It is total: any malformed
// input yields an InvalidArgument *apperr.Error, never a panic.
func Quote(s Snapshot) (decimal.Decimal, error) {
	if s.BaseFare.IsNegative() || s.BaseFare.IsZero() {
		return decimal.Zero, apperr.New(apperr.InvalidArgument, "base_fare must be positive")
	}
	if s.SeatsAvailable < 0 {
		return decimal.Zero, apperr.New(apperr.InvalidArgument, "seats_available must be non-negative")
	}
	if s.SeatsTotal <= 0 {
		return decimal.Zero, apperr.New(apperr.InvalidArgument, "seats_total must be positive")
	}
	if s.SeatsAvailable > s.SeatsTotal {
		return decimal.Zero, apperr.New(apperr.InvalidArgument, "seats_available cannot exceed seats_total")
	}
	if s.DemandIndex < 0 || s.DemandIndex > 100 {
		return decimal.Zero, apperr.New(apperr.InvalidArgument, "demand_index must be within [0, 100]")
	}
	if !s.Tier.Valid() {
		return decimal.Zero, apperr.New(apperr.InvalidArgument, "unknown tier in base_fare map")
	}

	fillRatio := 1 - float64(s.SeatsAvailable)/float64(s.SeatsTotal)

	inventory := inventoryFactor(fillRatio)
	tm := timeFactor(s.HoursUntilDep)
	demand := demandFactor(s.DemandIndex)
	class := s.Tier.ClassFactor()

	multiplier := inventory * tm * demand * class

	fare := s.BaseFare.Mul(decimal.NewFromFloat(multiplier))

	cap := s.BaseFare.Mul(capMultiplier)
	if fare.GreaterThan(cap) {
		fare = cap
	}
	if fare.LessThan(s.BaseFare) {
		fare = s.BaseFare
	}

	return fare.Round(2), nil
}

// inventoryFactor is monotonically non-decreasing in fillRatio, f(0) = 1.
// A fully-booked cabin (fillRatio = 1) reaches 1.8x.
func inventoryFactor(fillRatio float64) float64 {
	if fillRatio < 0 {
		fillRatio = 0
	}
	if fillRatio > 1 {
		fillRatio = 1
	}
	return 1 + 0.8*fillRatio
}

// timeFactor is monotonically non-decreasing as hoursUntilDep shrinks.
// From three days out onward it is flat at 1.0; inside the final 3 hours it reaches 1.5x.
func timeFactor(hoursUntilDep float64) float64 {
	const (
		farOut   = 72.0 // 3 days
		lastCall = 3.0
	)
	switch {
	case hoursUntilDep >= farOut:
		return 1.0
	case hoursUntilDep <= lastCall:
		return 1.5
	default:
		// linear ramp from 1.0 at farOut down to 1.5 at lastCall
		progress := (farOut - hoursUntilDep) / (farOut - lastCall)
		return 1.0 + 0.5*progress
	}
}

// demandFactor is the piecewise curve spec.md §4.1 names.
func demandFactor(demandIndex int) float64 {
	switch {
	case demandIndex < 25:
		return 1.0
	case demandIndex < 50:
		return 1.15
	case demandIndex < 75:
		return 1.35
	default:
		return 1.6
	}
}

// SnapshotFromFlight builds a Snapshot for one tier of a loaded flight at a
// point in time. It is the "thin loader that produces the snapshot" the
// Design Notes call for, keeping Quote itself free of any dependency on
// domain.Flight or wall-clock time.
func SnapshotFromFlight(f *domain.Flight, seatsAvailable, seatsTotal int, now time.Time, tier domain.CabinClass) (Snapshot, error) {
	baseFare, ok := f.BaseFare[tier]
	if !ok {
		return Snapshot{}, apperr.New(apperr.InvalidTier, "flight has no base fare for tier "+string(tier))
	}
	return Snapshot{
		BaseFare:       baseFare,
		SeatsAvailable: seatsAvailable,
		SeatsTotal:     seatsTotal,
		HoursUntilDep:  f.HoursUntilDeparture(now),
		DemandIndex:    f.DemandIndex,
		Tier:           tier,
	}, nil
}
