package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"flightcore/internal/apperr"
	"flightcore/internal/domain"
)

func snap(base float64, avail, total int, hours float64, demand int, tier domain.CabinClass) Snapshot {
	return Snapshot{
		BaseFare:       decimal.NewFromFloat(base),
		SeatsAvailable: avail,
		SeatsTotal:     total,
		HoursUntilDep:  hours,
		DemandIndex:    demand,
		Tier:           tier,
	}
}

func TestQuote_S1HappyPath(t *testing.T) {
	// S1 seed: base 5000, 3/3 available, demand 10, 72h out, Economy.
	fare, err := Quote(snap(5000, 3, 3, 72, 10, domain.Economy))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// all factors should be close to 1.0 so fare stays near base fare.
	if fare.LessThan(decimal.NewFromInt(5000)) {
		t.Fatalf("fare %s fell below base fare", fare)
	}
	if fare.GreaterThan(decimal.NewFromFloat(6000)) {
		t.Fatalf("fare %s unexpectedly high for near-floor inputs", fare)
	}
}

func TestQuote_FloorAndCap(t *testing.T) {
	base := decimal.NewFromInt(1000)

	low, err := Quote(snap(1000, 50, 50, 1000, 0, domain.Economy))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if low.LessThan(base) {
		t.Fatalf("fare %s below floor %s", low, base)
	}

	high, err := Quote(snap(1000, 0, 50, 0, 100, domain.First))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cap := base.Mul(decimal.NewFromInt(10))
	if high.GreaterThan(cap) {
		t.Fatalf("fare %s exceeds cap %s", high, cap)
	}
}

func TestQuote_MonotonicInFillRatio(t *testing.T) {
	emptier, _ := Quote(snap(1000, 40, 50, 48, 10, domain.Economy))
	fuller, _ := Quote(snap(1000, 5, 50, 48, 10, domain.Economy))
	if fuller.LessThan(emptier) {
		t.Fatalf("fare should not decrease as seats_available drops: emptier=%s fuller=%s", emptier, fuller)
	}
}

func TestQuote_MonotonicInTimeToDeparture(t *testing.T) {
	farOut, _ := Quote(snap(1000, 20, 50, 200, 10, domain.Economy))
	soon, _ := Quote(snap(1000, 20, 50, 2, 10, domain.Economy))
	if soon.LessThan(farOut) {
		t.Fatalf("fare should not decrease as departure approaches: farOut=%s soon=%s", farOut, soon)
	}
}

func TestQuote_DemandBuckets(t *testing.T) {
	low, _ := Quote(snap(1000, 20, 50, 48, 10, domain.Economy))
	medium, _ := Quote(snap(1000, 20, 50, 48, 40, domain.Economy))
	high, _ := Quote(snap(1000, 20, 50, 48, 60, domain.Economy))
	extreme, _ := Quote(snap(1000, 20, 50, 48, 90, domain.Economy))

	if !(low.LessThanOrEqual(medium) && medium.LessThanOrEqual(high) && high.LessThanOrEqual(extreme)) {
		t.Fatalf("expected non-decreasing fares across demand buckets, got %s %s %s %s", low, medium, high, extreme)
	}
}

func TestQuote_ClassFactorOrdering(t *testing.T) {
	eco, _ := Quote(snap(1000, 20, 50, 48, 40, domain.Economy))
	flex, _ := Quote(snap(1000, 20, 50, 48, 40, domain.EconomyFlex))
	biz, _ := Quote(snap(1000, 20, 50, 48, 40, domain.Business))
	first, _ := Quote(snap(1000, 20, 50, 48, 40, domain.First))

	if !(eco.LessThan(flex) && flex.LessThan(biz) && biz.LessThan(first)) {
		t.Fatalf("expected strictly increasing fares across cabin classes, got %s %s %s %s", eco, flex, biz, first)
	}
}

func TestQuote_RejectsInvalidInputs(t *testing.T) {
	cases := []struct {
		name string
		s    Snapshot
	}{
		{"negative base fare", snap(-1, 10, 50, 10, 10, domain.Economy)},
		{"zero base fare", snap(0, 10, 50, 10, 10, domain.Economy)},
		{"negative seats available", snap(1000, -1, 50, 10, 10, domain.Economy)},
		{"zero seats total", snap(1000, 0, 0, 10, 10, domain.Economy)},
		{"available exceeds total", snap(1000, 60, 50, 10, 10, domain.Economy)},
		{"demand index out of range", snap(1000, 10, 50, 10, 101, domain.Economy)},
		{"unknown tier", snap(1000, 10, 50, 10, 10, domain.CabinClass("unknown"))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Quote(tc.s)
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			if apperr.KindOf(err) != apperr.InvalidArgument {
				t.Fatalf("expected InvalidArgument, got %v", apperr.KindOf(err))
			}
		})
	}
}
