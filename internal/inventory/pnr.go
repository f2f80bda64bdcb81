package inventory

import (
	"context"

	"flightcore/internal/domain"
)

// GetPNRStatus returns the public, redacted projection of a booking keyed by
// its PNR (spec.md §6 "PNR status (public)").
func (svc *Service) GetPNRStatus(ctx context.Context, pnr string) (*domain.PNRStatusView, error) {
	b, err := svc.store.GetBookingByPNR(ctx, svc.store.Conn(), pnr)
	if err != nil {
		return nil, err
	}
	flight, err := svc.store.GetFlightByID(ctx, svc.store.Conn(), b.FlightID)
	if err != nil {
		return nil, err
	}
	return &domain.PNRStatusView{
		PNR:           b.PNR,
		Status:        b.Status,
		FlightNumber:  flight.FlightNumber,
		DepartureTime: flight.DepartureTime,
	}, nil
}

// GetBooking returns a full booking by its internal reference, for the
// owning user or staff view (spec.md §6 "Get booking").
func (svc *Service) GetBooking(ctx context.Context, bookingReference string) (*domain.Booking, error) {
	return svc.store.GetBookingByReference(ctx, svc.store.Conn(), bookingReference)
}

// GetBookingByPNR returns the full booking record keyed by its PNR (spec.md
// §6 "Get booking by PNR"), as opposed to GetPNRStatus's redacted public
// projection.
func (svc *Service) GetBookingByPNR(ctx context.Context, pnr string) (*domain.Booking, error) {
	return svc.store.GetBookingByPNR(ctx, svc.store.Conn(), pnr)
}

// IssueReceipt returns the structured receipt record for a confirmed
// booking, keyed by PNR (spec.md §6 "Issue receipt"). Rendering the record
// into bytes (PDF, HTML) is left to the external renderer; this is the
// synchronous counterpart to the fire-and-forget job PayBooking and
// CancelBooking already queue.
func (svc *Service) IssueReceipt(ctx context.Context, pnr string) (*domain.Receipt, error) {
	b, err := svc.store.GetBookingByPNR(ctx, svc.store.Conn(), pnr)
	if err != nil {
		return nil, err
	}
	return svc.buildReceipt(ctx, b, b.Status == domain.BookingCancelled)
}
