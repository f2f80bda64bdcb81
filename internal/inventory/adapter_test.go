package inventory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"flightcore/internal/domain"
)

func TestSimulatedPaymentAdapter_AlwaysSucceeds(t *testing.T) {
	adapter := NewSimulatedPaymentAdapter(1.0)
	outcome, txn, err := adapter.Charge(context.Background(), "BK-1", decimal.RequireFromString("100"), domain.PaymentCard)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if outcome != domain.PaymentSuccess {
		t.Fatalf("expected success with probability 1.0, got %v", outcome)
	}
	if txn == "" {
		t.Fatalf("expected a non-empty transaction id")
	}
}

func TestSimulatedPaymentAdapter_AlwaysFails(t *testing.T) {
	adapter := NewSimulatedPaymentAdapter(0.0)
	outcome, _, err := adapter.Charge(context.Background(), "BK-1", decimal.RequireFromString("100"), domain.PaymentCard)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if outcome != domain.PaymentFailure {
		t.Fatalf("expected failure with probability 0.0, got %v", outcome)
	}
}
