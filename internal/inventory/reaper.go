package inventory

import (
	"context"
	"time"

	"flightcore/internal/domain"
	"flightcore/pkg/database"
)

// ExpireHolds is the Hold Expiry reaper's single sweep (spec.md §4.4.3): find
// every Held/PendingPayment booking whose hold has lapsed and expire it,
// each in its own short transaction so one bad row cannot stall the sweep.
func (svc *Service) ExpireHolds(ctx context.Context) (int, error) {
	refs, err := svc.store.ListExpirableBookings(ctx, svc.store.Conn(), svc.now())
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, ref := range refs {
		ok, err := svc.expireOne(ctx, ref)
		if err != nil {
			continue // one booking's bad row must not abort the sweep (spec.md §4.2-style isolation)
		}
		if ok {
			expired++
		}
	}

	if svc.metrics != nil && expired > 0 {
		svc.metrics.ReaperExpired.Add(float64(expired))
	}
	return expired, nil
}

func (svc *Service) expireOne(ctx context.Context, bookingReference string) (bool, error) {
	var expired bool
	var booking *domain.Booking

	err := svc.store.WithTransaction(ctx, func(tx database.Tx) error {
		b, err := svc.store.LockBookingForUpdateByReference(ctx, tx, bookingReference)
		if err != nil {
			return err
		}
		if !b.Status.Expirable() || !svc.now().After(b.HoldExpiresAt) {
			return nil // raced with a concurrent payment/cancellation
		}

		if err := svc.store.ReleaseSeatsForBooking(ctx, tx, b.ID); err != nil {
			return err
		}
		if err := svc.store.UpdateBookingStatus(ctx, tx, b.ID, domain.BookingExpired); err != nil {
			return err
		}

		tickets, err := svc.store.ListTicketsByBooking(ctx, tx, b.ID)
		if err != nil {
			return err
		}
		if svc.metrics != nil {
			svc.metrics.SeatsHeld.Sub(float64(len(tickets)))
		}

		b.Status = domain.BookingExpired
		booking = b
		expired = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if expired {
		if svc.metrics != nil {
			svc.metrics.BookingOutcomes.WithLabelValues("expired").Inc()
		}
		svc.publishBookingEvent(ctx, booking)
	}
	return expired, nil
}

// Run starts the reaper's periodic loop, sweeping every period until ctx is
// cancelled (spec.md §4.4.3, Design Notes "two explicit periodic actors").
func (svc *Service) Run(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			svc.ExpireHolds(ctx)
		}
	}
}
