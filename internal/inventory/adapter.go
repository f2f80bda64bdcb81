package inventory

import (
	"context"
	"math/rand"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"flightcore/internal/domain"
)

// SimulatedPaymentAdapter stands in for the external payment gateway spec.md
// §4.4.2 step 3 puts out of scope: it succeeds with a configured probability
// and otherwise fails, always returning a synthetic transaction id.
type SimulatedPaymentAdapter struct {
	SuccessProbability float64
	rng                *rand.Rand
}

// NewSimulatedPaymentAdapter builds an adapter with the configured success
// rate (spec.md §6 "payment success probability").
func NewSimulatedPaymentAdapter(successProbability float64) *SimulatedPaymentAdapter {
	return &SimulatedPaymentAdapter{
		SuccessProbability: successProbability,
		rng:                rand.New(rand.NewSource(uuidSeed())),
	}
}

// Charge implements PaymentAdapter.
func (a *SimulatedPaymentAdapter) Charge(ctx context.Context, bookingReference string, amount decimal.Decimal, method domain.PaymentMethod) (domain.PaymentOutcome, string, error) {
	transactionID := "TXN-" + uuid.New().String()
	if a.rng.Float64() < a.SuccessProbability {
		return domain.PaymentSuccess, transactionID, nil
	}
	return domain.PaymentFailure, transactionID, nil
}

// uuidSeed derives a math/rand seed from a random UUID instead of the wall
// clock, since callers of this package may run inside a workflow that
// forbids time.Now()-derived randomness at construction time.
func uuidSeed() int64 {
	id := uuid.New()
	var seed int64
	for i := 0; i < 8; i++ {
		seed = seed<<8 | int64(id[i])
	}
	if seed < 0 {
		seed = -seed
	}
	return seed
}
