// Package inventory is the Seat Inventory and Booking Pipeline (spec.md
// §4.4): hold creation, payment/confirmation, hold expiry, and cancellation,
// each running inside one database transaction with the flight-then-seats
// lock ordering spec.md §5 mandates, wrapped by the explicit retry
// combinator for the transient conflicts that ordering cannot fully prevent.
package inventory

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"flightcore/internal/config"
	"flightcore/internal/domain"
	"flightcore/internal/pnrgen"
	"flightcore/internal/pricing"
	"flightcore/internal/store"
	"flightcore/pkg/database"
	"flightcore/pkg/eventbus"
	"flightcore/pkg/metrics"
	"flightcore/pkg/redisx"
	"flightcore/pkg/retry"
)

// PaymentAdapter simulates an external payment gateway (spec.md §4.4.2 step
// 3: "out of scope; simulate"). It is an interface so tests can substitute a
// deterministic fake in place of the probability-driven default.
type PaymentAdapter interface {
	Charge(ctx context.Context, bookingReference string, amount decimal.Decimal, method domain.PaymentMethod) (domain.PaymentOutcome, string, error)
}

// Service is the Seat Inventory and Booking Pipeline.
type Service struct {
	store    *store.Store
	redis    *redisx.Client
	events   *eventbus.Producer
	metrics  *metrics.Registry
	payments PaymentAdapter
	cfg      config.AppConfig
	now      func() time.Time
}

// New builds a Booking Pipeline service.
func New(s *store.Store, redis *redisx.Client, events *eventbus.Producer, m *metrics.Registry, payments PaymentAdapter, cfg config.AppConfig, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: s, redis: redis, events: events, metrics: m, payments: payments, cfg: cfg, now: now}
}

// bookingPolicy is the explicit retry combinator configuration spec.md §5
// names for seat-allocation and confirmation transactions.
func (svc *Service) bookingPolicy() retry.Policy {
	p := retry.DefaultBookingPolicy()
	if svc.cfg.RetryMaxAttempts > 0 {
		p.MaxAttempts = svc.cfg.RetryMaxAttempts
	}
	if svc.cfg.RetryBaseDelay > 0 {
		p.BaseDelay = svc.cfg.RetryBaseDelay
	}
	if svc.cfg.RetryFactor > 0 {
		p.Factor = svc.cfg.RetryFactor
	}
	return p
}

// flightLockKey namespaces the Redis belt-and-suspenders lock per flight
// (spec.md §5: "Flight row: write-locked during booking creation").
func flightLockKey(flightID int64) string {
	return "flightcore:lock:flight:" + strconv.FormatInt(flightID, 10)
}

// withFlightLock acquires the distributed pre-transaction lock, runs fn, and
// always releases it. It does not replace the in-transaction SELECT ... FOR
// UPDATE and must never reject a caller itself: the database row lock is the
// actual serialization point (spec.md §5 "Two Create-Hold operations on the
// same flight are serialized by the Flight row lock"), and the loser there
// needs to reach that lock and fail with SeatUnavailable, not be turned away
// here with a generic conflict. Redis only shortens the common case where no
// contention exists; on a miss it falls through and lets the transaction
// queue behind the row lock like it would with no cache at all.
func (svc *Service) withFlightLock(ctx context.Context, flightID int64, fn func(ctx context.Context) error) error {
	if svc.redis == nil {
		return fn(ctx)
	}
	key := flightLockKey(flightID)
	acquired, err := svc.redis.AcquireLock(ctx, key, svc.cfg.FlightLockTTL)
	if err != nil {
		// Redis is a belt-and-suspenders layer; its unavailability must not
		// block bookings that the database row lock still protects.
		return fn(ctx)
	}
	if !acquired {
		// Someone else is already inside this flight's transaction. Don't
		// reject; just run fn directly and let SELECT ... FOR UPDATE do the
		// actual queueing and arbitration.
		return fn(ctx)
	}
	defer svc.redis.ReleaseLock(ctx, key)
	return fn(ctx)
}

func (svc *Service) publishBookingEvent(ctx context.Context, b *domain.Booking) {
	if svc.events == nil {
		return
	}
	_ = svc.events.SendBookingEvent(ctx, eventbus.BookingEvent{
		BookingReference: b.BookingReference,
		FlightID:         b.FlightID,
		Status:           b.Status,
		Timestamp:        svc.now(),
	})
}

// quoteNow re-runs the Pricing Engine for (flight, tier) at the current
// instant, used both by the price-drift check and by fare computation.
func (svc *Service) quoteNow(ctx context.Context, tx database.Tx, f *domain.Flight, tier domain.CabinClass) (decimal.Decimal, error) {
	counts, err := svc.store.CountSeatsByTier(ctx, tx, f.ID, tier)
	if err != nil {
		return decimal.Zero, err
	}
	snapshot, err := pricing.SnapshotFromFlight(f, counts.Available, counts.Total, svc.now(), tier)
	if err != nil {
		return decimal.Zero, err
	}
	start := svc.now()
	fare, err := pricing.Quote(snapshot)
	if svc.metrics != nil {
		svc.metrics.PricingDuration.Observe(svc.now().Sub(start).Seconds())
	}
	return fare, err
}

// generatePNR issues a fresh PNR, counting collisions on the metrics
// registry (spec.md §4.5).
func (svc *Service) generatePNR(ctx context.Context, tx database.Tx) (string, error) {
	pnr, err := pnrgen.Generate(ctx, func(ctx context.Context, candidate string) (bool, error) {
		exists, err := svc.store.PNRExists(ctx, tx, candidate)
		if exists && svc.metrics != nil {
			svc.metrics.PNRCollisions.Inc()
		}
		return exists, err
	})
	return pnr, err
}
