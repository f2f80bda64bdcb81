package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus is the state machine position of a Booking (spec.md §4.4).
type BookingStatus string

const (
	BookingHeld           BookingStatus = "held"
	BookingPendingPayment BookingStatus = "pending_payment"
	BookingConfirmed      BookingStatus = "confirmed"
	BookingCancelled      BookingStatus = "cancelled"
	BookingExpired        BookingStatus = "expired"
)

// Terminal reports whether no further transition is possible from s.
func (s BookingStatus) Terminal() bool {
	return s == BookingCancelled || s == BookingExpired || s == BookingConfirmed
}

// Expirable reports whether a booking in status s is subject to the reaper.
func (s BookingStatus) Expirable() bool {
	return s == BookingHeld || s == BookingPendingPayment
}

// PassengerInput is one passenger on a Create-Hold request.
type PassengerInput struct {
	Name          string
	Age           int
	Gender        string
	RequestedSeat string // seat_number; empty means "assign next available"
}

// Booking is the central reservation record (spec.md §3).
type Booking struct {
	ID               int64
	BookingReference string
	PNR              string // empty until Confirmed
	UserID           int64
	FlightID         int64
	Tier             CabinClass
	Status           BookingStatus
	TotalFare        decimal.Decimal
	PaidAmount       decimal.Decimal
	CreatedAt        time.Time
	HoldExpiresAt    time.Time
	TransactionID    string
}

// Ticket is one passenger's seat assignment within a Booking (spec.md §3).
type Ticket struct {
	ID            int64
	BookingID     int64
	SeatID        int64
	TicketNumber  string
	PassengerName string
	PassengerAge  int
	PassengerGender string
}

// FareHistorySample is one append-only point on a flight's fare time series.
type FareHistorySample struct {
	FlightID    int64
	Tier        CabinClass
	Fare        decimal.Decimal
	DemandIndex int
	SampledAt   time.Time
}

// PaymentMethod is how a booking was (attempted to be) paid.
type PaymentMethod string

const (
	PaymentCard       PaymentMethod = "card"
	PaymentUPI        PaymentMethod = "upi"
	PaymentNetBanking PaymentMethod = "net_banking"
	PaymentWallet     PaymentMethod = "wallet"
)

// PaymentOutcome is the result of a single payment adapter invocation.
type PaymentOutcome string

const (
	PaymentSuccess PaymentOutcome = "success"
	PaymentFailure PaymentOutcome = "failed"
)

// Payment is one recorded attempt to settle a Booking (spec.md §3).
type Payment struct {
	BookingReference string
	Amount           decimal.Decimal
	Method           PaymentMethod
	Status           PaymentOutcome
	TransactionID    string
}

// Role is a user's capability bucket (Design Note: enumerated role type
// replacing dynamic string role checks).
type Role string

const (
	RoleCustomer        Role = "customer"
	RoleAdmin            Role = "admin"
	RoleAirlineStaff     Role = "airline_staff"
	RoleAirportAuthority Role = "airport_authority"
)

// CanManageFlightOps reports whether the role may update flight status/delay.
func (r Role) CanManageFlightOps() bool {
	return r == RoleAirlineStaff || r == RoleAdmin
}

// CanAssignGate reports whether the role may assign a gate to a flight.
func (r Role) CanAssignGate() bool {
	return r == RoleAirportAuthority || r == RoleAdmin
}

// User is an account in the system (spec.md §3); credential handling itself
// is out of scope (spec.md §1 excludes auth/OTP flows).
type User struct {
	ID    int64
	Email string
	Role  Role
	Name  string
}

// Receipt is the structured hand-off record for the external renderer
// (spec.md §4.5). The core never produces bytes, only this value.
type Receipt struct {
	BookingReference string
	PNR              string
	FlightNumber     string
	OriginCode       string
	DestinationCode  string
	DepartureTime    time.Time
	Passengers       []Ticket
	TotalFare        decimal.Decimal
	PaidAt           time.Time
	TransactionID    string
	Cancellation     bool
}

// PNRStatusView is the redacted, publicly exposable projection of a booking
// keyed by PNR (spec.md §6 "PNR status (public)").
type PNRStatusView struct {
	PNR          string
	Status       BookingStatus
	FlightNumber string
	DepartureTime time.Time
}
