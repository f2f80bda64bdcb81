package inventory

import (
	"context"

	"flightcore/internal/domain"
	"flightcore/pkg/database"
)

// CancelBooking voids a booking and releases its seats (spec.md §4.4.4).
// Inputs are the PNR and the acting user's identity (spec.md §6 "Cancel
// booking: Inputs: pnr, actor identity"); actor is carried for audit
// purposes rather than a capability gate, since cancellation has no staff-
// only variant the way flight-ops updates do. Held/PendingPayment and
// Confirmed bookings both release their seats; a Confirmed cancellation also
// issues a cancellation receipt. A booking that is already Cancelled is a
// no-op returning its current state, not an error.
func (svc *Service) CancelBooking(ctx context.Context, pnr string, actor domain.User) (*domain.Booking, error) {
	var booking *domain.Booking
	var wasConfirmed bool
	var alreadyCancelled bool

	err := svc.store.WithTransaction(ctx, func(tx database.Tx) error {
		b, err := svc.store.LockBookingForUpdateByPNR(ctx, tx, pnr)
		if err != nil {
			return err
		}
		if b.Status == domain.BookingCancelled {
			booking = b
			alreadyCancelled = true
			return nil
		}

		wasConfirmed = b.Status == domain.BookingConfirmed

		if err := svc.store.ReleaseSeatsForBooking(ctx, tx, b.ID); err != nil {
			return err
		}
		if err := svc.store.UpdateBookingStatus(ctx, tx, b.ID, domain.BookingCancelled); err != nil {
			return err
		}

		tickets, err := svc.store.ListTicketsByBooking(ctx, tx, b.ID)
		if err != nil {
			return err
		}

		b.Status = domain.BookingCancelled
		booking = b

		if svc.metrics != nil {
			n := float64(len(tickets))
			switch {
			case b.PNR != "":
				svc.metrics.SeatsSold.Sub(n)
			default:
				svc.metrics.SeatsHeld.Sub(n)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if alreadyCancelled {
		return booking, nil
	}

	if svc.metrics != nil {
		svc.metrics.BookingOutcomes.WithLabelValues("cancelled").Inc()
	}
	svc.publishBookingEvent(ctx, booking)
	if wasConfirmed {
		svc.issueReceiptJob(ctx, booking, true)
	}
	return booking, nil
}
