package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"flightcore/internal/apperr"
	"flightcore/internal/domain"
	"flightcore/pkg/database"
	"flightcore/pkg/eventbus"
	"flightcore/pkg/retry"
)

func newTicketNumber() string {
	return "TK-" + uuid.New().String()
}

// PayBookingRequest is the Payment/Confirmation operation's input (spec.md
// §4.4.2).
type PayBookingRequest struct {
	BookingReference string
	Amount           decimal.Decimal
	Method           domain.PaymentMethod
}

// PayBooking attempts to settle a held booking (spec.md §4.4.2): lock the
// booking, assert it is still within its hold window, assert the amount
// covers the booking total, invoke the payment adapter, and on success confirm the booking,
// issue a PNR and ticket numbers, and sell the seats — all in one
// transaction.
func (svc *Service) PayBooking(ctx context.Context, req PayBookingRequest) (*domain.Booking, error) {
	var booking *domain.Booking
	var outcome domain.PaymentOutcome

	err := retry.Do(ctx, svc.bookingPolicy(), func(ctx context.Context) error {
		b, o, err := svc.payBookingTx(ctx, req)
		if err != nil {
			return err
		}
		booking, outcome = b, o
		return nil
	})
	if err != nil {
		if svc.metrics != nil {
			svc.metrics.BookingOutcomes.WithLabelValues("payment_error").Inc()
		}
		return nil, err
	}

	svc.publishBookingEvent(ctx, booking)
	if svc.events != nil {
		_ = svc.events.SendPaymentEvent(ctx, eventbus.PaymentEvent{
			BookingReference: booking.BookingReference,
			Amount:           req.Amount.String(),
			Status:           outcome,
			TransactionID:    booking.TransactionID,
			Timestamp:        svc.now(),
		})
	}

	if outcome == domain.PaymentFailure {
		if svc.metrics != nil {
			svc.metrics.BookingOutcomes.WithLabelValues("payment_failed").Inc()
		}
		return booking, apperr.New(apperr.PaymentFailed, "payment adapter declined the charge")
	}

	if svc.metrics != nil {
		svc.metrics.BookingOutcomes.WithLabelValues("confirmed").Inc()
		if tickets, err := svc.store.ListTicketsByBooking(ctx, svc.store.Conn(), booking.ID); err == nil {
			n := float64(len(tickets))
			svc.metrics.SeatsHeld.Sub(n)
			svc.metrics.SeatsSold.Add(n)
		}
	}
	svc.issueReceiptJob(ctx, booking, false)
	return booking, nil
}

func (svc *Service) payBookingTx(ctx context.Context, req PayBookingRequest) (*domain.Booking, domain.PaymentOutcome, error) {
	var booking *domain.Booking
	var outcome domain.PaymentOutcome

	err := svc.store.WithTransaction(ctx, func(tx database.Tx) error {
		b, err := svc.store.LockBookingForUpdateByReference(ctx, tx, req.BookingReference)
		if err != nil {
			return err
		}
		if !b.Status.Expirable() {
			return apperr.New(apperr.InvalidState, "booking is not awaiting payment")
		}
		if svc.now().After(b.HoldExpiresAt) {
			return apperr.New(apperr.HoldExpired, "hold has expired")
		}
		if req.Amount.LessThan(b.TotalFare) {
			return apperr.New(apperr.InvalidArgument, "payment amount is less than the booking total")
		}

		if err := svc.store.UpdateBookingStatus(ctx, tx, b.ID, domain.BookingPendingPayment); err != nil {
			return err
		}

		paidOutcome, transactionID, err := svc.payments.Charge(ctx, b.BookingReference, req.Amount, req.Method)
		if err != nil {
			return apperr.Wrap(apperr.Internal, "payment adapter", err)
		}
		outcome = paidOutcome

		if err := svc.store.InsertPayment(ctx, tx, domain.Payment{
			BookingReference: b.BookingReference,
			Amount:           req.Amount,
			Method:           req.Method,
			Status:           paidOutcome,
			TransactionID:    transactionID,
		}); err != nil {
			return err
		}

		if paidOutcome == domain.PaymentFailure {
			if err := svc.store.UpdateBookingStatus(ctx, tx, b.ID, domain.BookingHeld); err != nil {
				return err
			}
			b.Status = domain.BookingHeld
			booking = b
			return nil
		}

		pnr, err := svc.generatePNR(ctx, tx)
		if err != nil {
			return err
		}

		if err := svc.store.ConfirmBooking(ctx, tx, b.ID, pnr, req.Amount, transactionID); err != nil {
			return err
		}
		if err := svc.store.SetSeatsSold(ctx, tx, b.ID); err != nil {
			return err
		}

		tickets, err := svc.store.ListTicketsByBooking(ctx, tx, b.ID)
		if err != nil {
			return err
		}
		for _, t := range tickets {
			if err := svc.store.UpdateTicketNumber(ctx, tx, t.ID, newTicketNumber()); err != nil {
				return err
			}
		}

		b.Status = domain.BookingConfirmed
		b.PNR = pnr
		b.PaidAmount = req.Amount
		b.TransactionID = transactionID
		booking = b
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return booking, outcome, nil
}

// issueReceiptJob hands a structured receipt record off to the external
// renderer (spec.md §4.5: "the core hands it a structured record and does
// not care about bytes"). cancellation marks a cancellation receipt rather
// than a payment one (spec.md §4.4.4 "Issue a cancellation receipt").
func (svc *Service) issueReceiptJob(ctx context.Context, b *domain.Booking, cancellation bool) {
	if svc.events == nil {
		return
	}
	receipt, err := svc.buildReceipt(ctx, b, cancellation)
	if err != nil {
		return
	}
	_ = svc.events.SendReceiptJob(ctx, eventbus.ReceiptJob{
		Receipt:   *receipt,
		Timestamp: svc.now(),
	})
}

// buildReceipt assembles the structured receipt record for a booking
// (spec.md §4.5), used both for the fire-and-forget receipt job and for the
// synchronous "Issue receipt" operation (spec.md §6).
func (svc *Service) buildReceipt(ctx context.Context, b *domain.Booking, cancellation bool) (*domain.Receipt, error) {
	tickets, err := svc.store.ListTicketsByBooking(ctx, svc.store.Conn(), b.ID)
	if err != nil {
		return nil, err
	}
	ticketValues := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		ticketValues = append(ticketValues, *t)
	}
	flight, err := svc.store.GetFlightByID(ctx, svc.store.Conn(), b.FlightID)
	if err != nil {
		return nil, err
	}
	return &domain.Receipt{
		BookingReference: b.BookingReference,
		PNR:              b.PNR,
		FlightNumber:     flight.FlightNumber,
		OriginCode:       flight.OriginCode,
		DestinationCode:  flight.DestinationCode,
		DepartureTime:    flight.DepartureTime,
		Passengers:       ticketValues,
		TotalFare:        b.TotalFare,
		PaidAt:           svc.now(),
		TransactionID:    b.TransactionID,
		Cancellation:     cancellation,
	}, nil
}
