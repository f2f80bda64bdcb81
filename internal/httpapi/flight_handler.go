package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"flightcore/internal/apperr"
	"flightcore/internal/catalog"
	"flightcore/internal/domain"
	"flightcore/internal/search"
	"flightcore/internal/store"
)

// FlightHandler serves the Search Service and the read side of the Catalog
// Store plus its staff operations (spec.md §6 "Search flights", "Get flight",
// "Update flight status", "Assign gate").
type FlightHandler struct {
	search  *search.Service
	catalog *catalog.Service
}

// NewFlightHandler builds a FlightHandler.
func NewFlightHandler(s *search.Service, c *catalog.Service) *FlightHandler {
	return &FlightHandler{search: s, catalog: c}
}

// SearchFlights handles GET /flights/search (spec.md §4.3).
func (h *FlightHandler) SearchFlights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := search.Criteria{
		OriginCode:      q.Get("origin"),
		DestinationCode: q.Get("destination"),
		Tier:            domain.CabinClass(q.Get("tier")),
		Sort:            store.SortKey(q.Get("sort")),
	}
	if passengers, err := strconv.Atoi(q.Get("passengers")); err == nil {
		criteria.Passengers = passengers
	} else if q.Get("passengers") == "" {
		criteria.Passengers = 1
	}
	if dateStr := q.Get("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			writeError(w, apperr.New(apperr.InvalidArgument, "date must be YYYY-MM-DD"))
			return
		}
		criteria.Date = &date
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		criteria.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil {
		criteria.Offset = offset
	}

	results, err := h.search.Search(r.Context(), criteria)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// GetFlight handles GET /flights/{id} (spec.md §6).
func (h *FlightHandler) GetFlight(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, apperr.New(apperr.InvalidArgument, "id must be an integer"))
		return
	}
	flight, err := h.catalog.GetFlight(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, flight)
}

// UpdateFlightStatus handles PUT /flights/{id}/status, staff-only (spec.md §6).
func (h *FlightHandler) UpdateFlightStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, apperr.New(apperr.InvalidArgument, "id must be an integer"))
		return
	}
	var body struct {
		Status       domain.FlightStatus `json:"status"`
		DelayMinutes int                 `json:"delay_minutes"`
		DelayReason  string              `json:"delay_reason"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	actor := actorFromRequest(r)
	if err := h.catalog.UpdateFlightStatus(r.Context(), actor, id, body.Status, body.DelayMinutes, body.DelayReason); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

// AssignGate handles PUT /flights/{id}/gate, airport-authority-only (spec.md §6).
func (h *FlightHandler) AssignGate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, apperr.New(apperr.InvalidArgument, "id must be an integer"))
		return
	}
	var body struct {
		Gate string `json:"gate"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	actor := actorFromRequest(r)
	if err := h.catalog.AssignGate(r.Context(), actor, id, body.Gate); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}
