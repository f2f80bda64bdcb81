package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"flightcore/internal/apperr"
	"flightcore/internal/domain"
	"flightcore/internal/inventory"
)

// BookingHandler serves the Booking Pipeline's public operations (spec.md §6
// "Create booking/hold", "Pay booking", "Get booking by PNR", "Cancel
// booking", "Issue receipt").
type BookingHandler struct {
	bookings *inventory.Service
}

// NewBookingHandler builds a BookingHandler.
func NewBookingHandler(b *inventory.Service) *BookingHandler {
	return &BookingHandler{bookings: b}
}

type passengerBody struct {
	Name          string `json:"name"`
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
	RequestedSeat string `json:"requested_seat"`
}

// CreateBooking handles POST /bookings (spec.md §4.4.1).
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID     int64              `json:"user_id"`
		FlightID   int64              `json:"flight_id"`
		Tier       domain.CabinClass  `json:"tier"`
		Passengers []passengerBody    `json:"passengers"`
		QuotedFare string             `json:"quoted_fare"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	quoted := decimal.Zero
	if body.QuotedFare != "" {
		var err error
		quoted, err = decimal.NewFromString(body.QuotedFare)
		if err != nil {
			writeError(w, apperr.New(apperr.InvalidArgument, "quoted_fare must be a decimal string"))
			return
		}
	}

	passengers := make([]domain.PassengerInput, 0, len(body.Passengers))
	for _, p := range body.Passengers {
		passengers = append(passengers, domain.PassengerInput{
			Name:          p.Name,
			Age:           p.Age,
			Gender:        p.Gender,
			RequestedSeat: p.RequestedSeat,
		})
	}

	booking, err := h.bookings.CreateHold(r.Context(), inventory.CreateHoldRequest{
		UserID:     body.UserID,
		FlightID:   body.FlightID,
		Tier:       body.Tier,
		Passengers: passengers,
		QuotedFare: quoted,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// PayBooking handles POST /bookings/{reference}/pay (spec.md §4.4.2).
func (h *BookingHandler) PayBooking(w http.ResponseWriter, r *http.Request) {
	reference := mux.Vars(r)["reference"]

	var body struct {
		Amount string               `json:"amount"`
		Method domain.PaymentMethod `json:"method"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		writeError(w, apperr.New(apperr.InvalidArgument, "amount must be a decimal string"))
		return
	}

	booking, err := h.bookings.PayBooking(r.Context(), inventory.PayBookingRequest{
		BookingReference: reference,
		Amount:           amount,
		Method:           body.Method,
	})
	if err != nil && booking == nil {
		writeError(w, err)
		return
	}
	if err != nil {
		// Payment failed but the booking survives (spec.md §4.4.2): report the
		// failure kind while still returning the booking's current state.
		writeJSON(w, statusFor(apperr.KindOf(err)), booking)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// GetBooking handles GET /bookings/{reference} (spec.md §6).
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	reference := mux.Vars(r)["reference"]
	booking, err := h.bookings.GetBooking(r.Context(), reference)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// GetPNRStatus handles GET /pnr/{pnr} (spec.md §6 "PNR status (public)").
func (h *BookingHandler) GetPNRStatus(w http.ResponseWriter, r *http.Request) {
	pnr := mux.Vars(r)["pnr"]
	view, err := h.bookings.GetPNRStatus(r.Context(), pnr)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GetBookingByPNR handles GET /pnr/{pnr}/booking (spec.md §6 "Get booking by
// PNR"), the full record as opposed to GetPNRStatus's redacted projection.
func (h *BookingHandler) GetBookingByPNR(w http.ResponseWriter, r *http.Request) {
	pnr := mux.Vars(r)["pnr"]
	booking, err := h.bookings.GetBookingByPNR(r.Context(), pnr)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// IssueReceipt handles GET /pnr/{pnr}/receipt (spec.md §6 "Issue receipt").
func (h *BookingHandler) IssueReceipt(w http.ResponseWriter, r *http.Request) {
	pnr := mux.Vars(r)["pnr"]
	receipt, err := h.bookings.IssueReceipt(r.Context(), pnr)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

// CancelBooking handles POST /pnr/{pnr}/cancel (spec.md §4.4.4).
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	pnr := mux.Vars(r)["pnr"]
	actor := actorFromRequest(r)
	booking, err := h.bookings.CancelBooking(r.Context(), pnr, actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
