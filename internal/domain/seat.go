package domain

import "github.com/shopspring/decimal"

// SeatStatus is the lifecycle state of a single seat on a single flight.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatHeld      SeatStatus = "held"
	SeatSold      SeatStatus = "sold"
)

// Seat is one physical seat on one flight (spec.md §3). BookingID is nil
// unless Status is Held or Sold.
type Seat struct {
	ID         int64
	FlightID   int64
	SeatNumber string
	Class      CabinClass
	Position   SeatPosition
	Surcharge  decimal.Decimal
	Status     SeatStatus
	BookingID  *int64
}
