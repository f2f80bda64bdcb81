package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FlightStatus is the operational state of a scheduled flight.
type FlightStatus string

const (
	FlightScheduled FlightStatus = "scheduled"
	FlightBoarding  FlightStatus = "boarding"
	FlightDelayed   FlightStatus = "delayed"
	FlightDeparted  FlightStatus = "departed"
	FlightLanded    FlightStatus = "landed"
	FlightCancelled FlightStatus = "cancelled"
)

// Bookable reports whether a hold may still be created against the flight.
func (s FlightStatus) Bookable() bool {
	return s != FlightCancelled && s != FlightDeparted && s != FlightLanded
}

// Flight is the catalog entity described in spec.md §3.
type Flight struct {
	ID             int64
	FlightNumber   string
	AirlineCode    string
	OriginCode     string
	DestinationCode string
	AircraftID     int64
	DepartureTime  time.Time
	ArrivalTime    time.Time
	BaseFare       map[CabinClass]decimal.Decimal
	DemandIndex    int
	Status         FlightStatus
	DelayMinutes   int
	DelayReason    string
	Gate           string
	Version        int
}

// DurationMinutes is arrival minus departure, in whole minutes.
func (f *Flight) DurationMinutes() int {
	return int(f.ArrivalTime.Sub(f.DepartureTime).Minutes())
}

// HoursUntilDeparture returns hours-to-departure relative to now, never negative.
func (f *Flight) HoursUntilDeparture(now time.Time) float64 {
	d := f.DepartureTime.Sub(now).Hours()
	if d < 0 {
		return 0
	}
	return d
}

// Airport is a read-mostly catalog entity.
type Airport struct {
	Code    string // 3-char IATA
	Name    string
	City    string
	Country string
}

// Airline is a read-mostly catalog entity.
type Airline struct {
	Code string // 2-char IATA
	Name string
}

// Aircraft is a read-mostly catalog entity; ClassDistribution maps each
// cabin class to the number of seats of that class the airframe carries.
type Aircraft struct {
	ID                int64
	Registration      string
	Model             string
	TotalSeats        int
	ClassDistribution map[CabinClass]int
}

// ScheduleProjection is the deterministic row the external feed stub (§4.6)
// returns for a given airline code.
type ScheduleProjection struct {
	FlightNumber    string
	OriginCode      string
	DestinationCode string
	DepartureTime   time.Time
	ArrivalTime     time.Time
	Status          FlightStatus
}
