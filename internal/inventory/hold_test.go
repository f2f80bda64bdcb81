package inventory

import (
	"testing"

	"github.com/shopspring/decimal"

	"flightcore/internal/apperr"
)

func TestCheckPriceDrift_WithinTolerance(t *testing.T) {
	quoted := decimal.RequireFromString("5000")
	current := decimal.RequireFromString("5040") // 0.8% drift
	if err := checkPriceDrift(quoted, current, 0.01); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestCheckPriceDrift_ExceedsTolerance(t *testing.T) {
	quoted := decimal.RequireFromString("5000")
	current := decimal.RequireFromString("5200") // 4% drift
	err := checkPriceDrift(quoted, current, 0.01)
	if apperr.KindOf(err) != apperr.PriceChanged {
		t.Fatalf("expected PriceChanged, got %v", err)
	}
}

func TestCheckPriceDrift_NoQuoteSkipsCheck(t *testing.T) {
	if err := checkPriceDrift(decimal.Zero, decimal.RequireFromString("9999"), 0.01); err != nil {
		t.Fatalf("expected no error when no quote was supplied, got %v", err)
	}
}
