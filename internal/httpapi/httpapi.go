// Package httpapi wires the core's services to the HTTP surface named in
// spec.md §6, following the teacher's handler-per-resource shape over
// gorilla/mux.
package httpapi

import (
	"encoding/json"
	"net/http"

	"flightcore/internal/apperr"
)

// writeJSON writes v as a JSON response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

type errorBody struct {
	Kind    apperr.Kind `json:"kind"`
	Message string      `json:"message"`
}

// writeError maps an apperr.Kind to an HTTP status and writes it as JSON.
func writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	writeJSON(w, statusFor(kind), errorBody{Kind: kind, Message: err.Error()})
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.InvalidArgument, apperr.InvalidTier, apperr.PassengerCountExceeds:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict, apperr.SeatUnavailable, apperr.PriceChanged, apperr.HoldExpired, apperr.InvalidState:
		return http.StatusConflict
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.PaymentFailed:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}
