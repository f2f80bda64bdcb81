// Package catalog is the Catalog Store service (spec.md §4.6): read access to
// flights/airports/airlines/aircraft, the staff-only flight-ops operations,
// and the external schedule feed stub.
package catalog

import (
	"context"

	"flightcore/internal/apperr"
	"flightcore/internal/domain"
	"flightcore/internal/store"
	"flightcore/pkg/database"
)

// Service is the Catalog Store.
type Service struct {
	store *store.Store
}

// New builds a Catalog Store service over a Store.
func New(s *store.Store) *Service {
	return &Service{store: s}
}

// GetFlight returns one flight by id (spec.md §6 "Get flight").
func (svc *Service) GetFlight(ctx context.Context, id int64) (*domain.Flight, error) {
	return svc.store.GetFlightByID(ctx, svc.store.Conn(), id)
}

// GetAirport returns one airport by IATA code.
func (svc *Service) GetAirport(ctx context.Context, code string) (*domain.Airport, error) {
	return svc.store.GetAirportByCode(ctx, svc.store.Conn(), code)
}

// GetAircraft returns one aircraft, including its seat-class distribution.
func (svc *Service) GetAircraft(ctx context.Context, id int64) (*domain.Aircraft, error) {
	return svc.store.GetAircraftByID(ctx, svc.store.Conn(), id)
}

// UpdateFlightStatus is the staff-only operation (spec.md §6): only
// RoleAirlineStaff and RoleAdmin may update a flight's operational status,
// delay minutes, and delay reason.
func (svc *Service) UpdateFlightStatus(ctx context.Context, actor domain.User, flightID int64, status domain.FlightStatus, delayMinutes int, delayReason string) error {
	if !actor.Role.CanManageFlightOps() {
		return apperr.New(apperr.Forbidden, "role may not manage flight operations")
	}
	return svc.store.WithTransaction(ctx, func(tx database.Tx) error {
		return svc.store.UpdateFlightStatus(ctx, tx, flightID, status, delayMinutes, delayReason)
	})
}

// AssignGate is the airport-authority-only operation (spec.md §6).
func (svc *Service) AssignGate(ctx context.Context, actor domain.User, flightID int64, gate string) error {
	if !actor.Role.CanAssignGate() {
		return apperr.New(apperr.Forbidden, "role may not assign gates")
	}
	return svc.store.WithTransaction(ctx, func(tx database.Tx) error {
		return svc.store.AssignGate(ctx, tx, flightID, gate)
	})
}

// ScheduleFeed is the external feed stub (spec.md §4.6): a deterministic
// projection of one airline's upcoming schedule. Nothing outside this core
// calls it; it stands in for the downstream systems that would otherwise
// consume a real feed.
func (svc *Service) ScheduleFeed(ctx context.Context, airlineCode string) ([]domain.ScheduleProjection, error) {
	return svc.store.ScheduleFeedByAirline(ctx, svc.store.Conn(), airlineCode)
}
