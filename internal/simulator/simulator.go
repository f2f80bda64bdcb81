// Package simulator implements the Demand Simulator periodic actor (spec.md
// §4.2): a bounded random walk over each bookable flight's demand_index,
// applied in its own short transaction per flight so one flight's failure
// never aborts the tick.
package simulator

import (
	"context"
	"log"
	"math/rand"
	"time"

	"flightcore/internal/domain"
	"flightcore/internal/pricing"
	"flightcore/internal/store"
	"flightcore/pkg/database"
	"flightcore/pkg/metrics"
)

// maxStep bounds how far demand_index can move in a single tick (spec.md
// §4.2 step 2: "a small bounded random walk").
const maxStep = 5

// Service is the Demand Simulator.
type Service struct {
	store   *store.Store
	metrics *metrics.Registry
	now     func() time.Time
	rng     *rand.Rand
}

// New builds a Demand Simulator. seed should come from a caller-supplied
// source (e.g. idgen) since this package never calls time.Now for entropy.
func New(s *store.Store, m *metrics.Registry, now func() time.Time, seed int64) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: s, metrics: m, now: now, rng: rand.New(rand.NewSource(seed))}
}

// Tick runs one full sweep over every bookable flight (spec.md §4.2 steps
// 1-3). A single flight's transaction failing is logged and skipped, never
// aborting the rest of the sweep.
func (svc *Service) Tick(ctx context.Context) (int, error) {
	start := svc.now()
	ids, err := svc.store.AllBookableFlightIDs(ctx, svc.store.Conn(), start)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, id := range ids {
		if err := svc.tickOne(ctx, id); err != nil {
			log.Printf("demand simulator: skipping flight %d: %v", id, err)
			continue
		}
		updated++
	}

	if svc.metrics != nil {
		svc.metrics.SimulatorTick.Observe(svc.now().Sub(start).Seconds())
	}
	return updated, nil
}

// tickOne perturbs one flight's demand_index and, if it moved, recomputes
// and appends a FareHistorySample for every tier the flight sells (spec.md
// §4.2 steps 2-4), all inside the flight's own short transaction.
func (svc *Service) tickOne(ctx context.Context, flightID int64) error {
	return svc.store.WithTransaction(ctx, func(tx database.Tx) error {
		f, err := svc.store.LockFlightForUpdate(ctx, tx, flightID)
		if err != nil {
			return err
		}
		if !f.Status.Bookable() {
			return nil
		}

		now := svc.now()
		step := svc.biasedStep(f.HoursUntilDeparture(now))
		next := clamp(f.DemandIndex+step, 0, 100)
		if next == f.DemandIndex {
			return nil
		}
		if err := svc.store.UpdateDemandIndex(ctx, tx, flightID, next); err != nil {
			return err
		}
		f.DemandIndex = next

		for tier := range f.BaseFare {
			counts, err := svc.store.CountSeatsByTier(ctx, tx, f.ID, tier)
			if err != nil {
				return err
			}
			snapshot, err := pricing.SnapshotFromFlight(f, counts.Available, counts.Total, now, tier)
			if err != nil {
				return err
			}
			fare, err := pricing.Quote(snapshot)
			if err != nil {
				return err
			}
			if err := svc.store.AppendFareHistory(ctx, tx, domain.FareHistorySample{
				FlightID:    f.ID,
				Tier:        tier,
				Fare:        fare,
				DemandIndex: next,
				SampledAt:   now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// biasedStep draws a bounded random walk step skewed toward positive values
// as departure nears (spec.md §4.2 step 2: "pulled toward higher values as
// hours_until_departure shrinks, simulating booking pressure"). Far from
// departure the draw is symmetric in [-maxStep, maxStep]; at last call the
// lower bound rises to 0, so only upward or flat steps remain possible.
func (svc *Service) biasedStep(hoursUntilDep float64) int {
	pressure := bookingPressure(hoursUntilDep)
	lo := -maxStep + int(float64(maxStep)*pressure+0.5)
	hi := maxStep
	return lo + svc.rng.Intn(hi-lo+1)
}

// bookingPressure ramps linearly from 0 (a week or more out) to 1 (inside
// the final 3 hours).
func bookingPressure(hoursUntilDep float64) float64 {
	const (
		farOut   = 168.0
		lastCall = 3.0
	)
	switch {
	case hoursUntilDep >= farOut:
		return 0
	case hoursUntilDep <= lastCall:
		return 1
	default:
		return (farOut - hoursUntilDep) / (farOut - lastCall)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Run starts the simulator's periodic loop until ctx is cancelled (spec.md
// §4.2, Design Notes "two explicit periodic actors").
func (svc *Service) Run(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			svc.Tick(ctx)
		}
	}
}
