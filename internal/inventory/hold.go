package inventory

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"flightcore/internal/apperr"
	"flightcore/internal/domain"
	"flightcore/internal/idgen"
	"flightcore/pkg/database"
	"flightcore/pkg/retry"
)

// CreateHoldRequest is the Create Hold operation's input (spec.md §4.4.1).
type CreateHoldRequest struct {
	UserID     int64
	FlightID   int64
	Tier       domain.CabinClass
	Passengers []domain.PassengerInput
	QuotedFare decimal.Decimal // the fare the caller last saw from Search, for the price-drift check
}

// CreateHold runs the full hold-creation transaction (spec.md §4.4.1): lock
// the flight, assign seats, re-check price drift against the quoted fare,
// insert the booking and its tickets, all inside one transaction, retried
// per spec.md §5 on transient conflicts.
func (svc *Service) CreateHold(ctx context.Context, req CreateHoldRequest) (*domain.Booking, error) {
	if len(req.Passengers) == 0 {
		return nil, apperr.New(apperr.InvalidArgument, "at least one passenger is required")
	}
	if svc.cfg.MaxPassengersPerBooking > 0 && len(req.Passengers) > svc.cfg.MaxPassengersPerBooking {
		return nil, apperr.New(apperr.PassengerCountExceeds, "passenger count exceeds the per-booking limit")
	}
	if !req.Tier.Valid() {
		return nil, apperr.New(apperr.InvalidTier, "unknown cabin class")
	}

	var booking *domain.Booking
	err := svc.withFlightLock(ctx, req.FlightID, func(ctx context.Context) error {
		return retry.Do(ctx, svc.bookingPolicy(), func(ctx context.Context) error {
			b, err := svc.createHoldTx(ctx, req)
			if err != nil {
				return err
			}
			booking = b
			return nil
		})
	})
	if err != nil {
		if svc.metrics != nil {
			svc.metrics.BookingOutcomes.WithLabelValues("hold_failed").Inc()
		}
		return nil, err
	}

	if svc.metrics != nil {
		svc.metrics.BookingOutcomes.WithLabelValues("held").Inc()
		svc.metrics.SeatsHeld.Add(float64(len(req.Passengers)))
	}
	svc.publishBookingEvent(ctx, booking)
	return booking, nil
}

func (svc *Service) createHoldTx(ctx context.Context, req CreateHoldRequest) (*domain.Booking, error) {
	var booking *domain.Booking

	err := svc.store.WithTransaction(ctx, func(tx database.Tx) error {
		flight, err := svc.store.LockFlightForUpdate(ctx, tx, req.FlightID)
		if err != nil {
			return err
		}
		if !flight.Status.Bookable() {
			return apperr.New(apperr.FlightNotBookable, "flight is not bookable")
		}

		seats, err := svc.assignSeats(ctx, tx, flight, req)
		if err != nil {
			return err
		}

		fare, err := svc.quoteNow(ctx, tx, flight, req.Tier)
		if err != nil {
			return err
		}
		if err := checkPriceDrift(req.QuotedFare, fare, svc.cfg.PriceDriftTolerance); err != nil {
			return err
		}

		total := fare.Mul(decimal.NewFromInt(int64(len(req.Passengers))))
		for _, seat := range seats {
			total = total.Add(seat.Surcharge)
		}

		now := svc.now()
		b := &domain.Booking{
			ID:               idgen.NewID(),
			BookingReference: newBookingReference(),
			UserID:           req.UserID,
			FlightID:         req.FlightID,
			Tier:             req.Tier,
			Status:           domain.BookingHeld,
			TotalFare:        total,
			PaidAmount:       decimal.Zero,
			CreatedAt:        now,
			HoldExpiresAt:    now.Add(svc.cfg.HoldTTL),
		}
		if err := svc.store.InsertBooking(ctx, tx, b); err != nil {
			return err
		}

		for i, seat := range seats {
			if err := svc.store.SetSeatHeld(ctx, tx, seat.ID, b.ID); err != nil {
				return err
			}
			p := req.Passengers[i]
			t := &domain.Ticket{
				ID:              idgen.NewID(),
				BookingID:       b.ID,
				SeatID:          seat.ID,
				PassengerName:   p.Name,
				PassengerAge:    p.Age,
				PassengerGender: p.Gender,
			}
			if err := svc.store.InsertTicket(ctx, tx, t); err != nil {
				return err
			}
		}

		if err := svc.store.AppendFareHistory(ctx, tx, domain.FareHistorySample{
			FlightID:    flight.ID,
			Tier:        req.Tier,
			Fare:        fare,
			DemandIndex: flight.DemandIndex,
			SampledAt:   now,
		}); err != nil {
			return err
		}

		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// assignSeats locks either the caller's requested seats or, absent a
// request, the next available seats of the tier in ascending seat_number
// order (spec.md §4.4.1 step 2, §5 lock ordering).
func (svc *Service) assignSeats(ctx context.Context, tx database.Tx, flight *domain.Flight, req CreateHoldRequest) ([]*domain.Seat, error) {
	var requested []string
	for _, p := range req.Passengers {
		if p.RequestedSeat != "" {
			requested = append(requested, p.RequestedSeat)
		}
	}

	if len(requested) > 0 {
		if len(requested) != len(req.Passengers) {
			return nil, apperr.New(apperr.InvalidArgument, "either every passenger requests a seat or none do")
		}
		seats, err := svc.store.LockSeatsByNumberForUpdate(ctx, tx, flight.ID, requested)
		if err != nil {
			return nil, err
		}
		if len(seats) != len(requested) {
			return nil, apperr.New(apperr.SeatUnavailable, "one or more requested seats do not exist")
		}
		bySeatNumber := make(map[string]*domain.Seat, len(seats))
		for _, seat := range seats {
			if seat.Status != domain.SeatAvailable || seat.Class != req.Tier {
				return nil, apperr.New(apperr.SeatUnavailable, "requested seat is not available in the requested tier")
			}
			bySeatNumber[seat.SeatNumber] = seat
		}
		// Locks were taken in seat_number order; hand the seats back in
		// passenger order so each passenger gets the seat they asked for.
		ordered := make([]*domain.Seat, 0, len(requested))
		for _, number := range requested {
			ordered = append(ordered, bySeatNumber[number])
		}
		return ordered, nil
	}

	seats, err := svc.store.ListAvailableSeatsForUpdate(ctx, tx, flight.ID, req.Tier, len(req.Passengers))
	if err != nil {
		return nil, err
	}
	if len(seats) < len(req.Passengers) {
		return nil, apperr.New(apperr.SeatUnavailable, "not enough available seats in the requested tier")
	}
	return seats, nil
}

// checkPriceDrift enforces spec.md §4.4.1's price-drift policy: the fare
// quoted to the caller must still be within tolerance of the fare computed
// at hold time, since quotes are not honored verbatim.
func checkPriceDrift(quoted, current decimal.Decimal, tolerance float64) error {
	if quoted.IsZero() {
		return nil // caller skipped Search and has no quote to compare against
	}
	diff := current.Sub(quoted).Abs()
	relative := diff.Div(quoted).InexactFloat64()
	if math.IsNaN(relative) || relative > tolerance {
		return apperr.New(apperr.PriceChanged, "fare has moved beyond the allowed drift tolerance since quoting")
	}
	return nil
}

func newBookingReference() string {
	return "BK-" + uuid.New().String()
}
