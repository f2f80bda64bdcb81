package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"flightcore/internal/httpapi"
)

func TestHealthEndpoint(t *testing.T) {
	// The health endpoint never touches either handler, so nil stand-ins are
	// enough to exercise the route wiring and middleware chain.
	router := httpapi.NewRouter(&httpapi.FlightHandler{}, &httpapi.BookingHandler{}, false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, status)
	}
}
