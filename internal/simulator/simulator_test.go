package simulator

import (
	"math/rand"
	"testing"
)

func TestBookingPressure(t *testing.T) {
	cases := []struct {
		hours float64
		want  float64
	}{
		{200, 0},
		{168, 0},
		{3, 1},
		{0, 1},
		{85.5, 0.5},
	}
	for _, c := range cases {
		if got := bookingPressure(c.hours); got != c.want {
			t.Fatalf("bookingPressure(%v) = %v, want %v", c.hours, got, c.want)
		}
	}
}

func TestBiasedStep_NearDepartureNeverNegative(t *testing.T) {
	svc := &Service{rng: rand.New(rand.NewSource(1))}
	for i := 0; i < 200; i++ {
		if step := svc.biasedStep(1); step < 0 {
			t.Fatalf("biasedStep near departure produced a negative step: %d", step)
		}
	}
}

func TestBiasedStep_FarFromDepartureCanBeNegative(t *testing.T) {
	svc := &Service{rng: rand.New(rand.NewSource(1))}
	sawNegative := false
	for i := 0; i < 200; i++ {
		if svc.biasedStep(500) < 0 {
			sawNegative = true
			break
		}
	}
	if !sawNegative {
		t.Fatalf("expected at least one negative step far from departure")
	}
}

func TestClamp(t *testing.T) {
	cases := []struct {
		v, lo, hi, want int
	}{
		{50, 0, 100, 50},
		{-5, 0, 100, 0},
		{150, 0, 100, 100},
		{0, 0, 100, 0},
		{100, 0, 100, 100},
	}
	for _, c := range cases {
		if got := clamp(c.v, c.lo, c.hi); got != c.want {
			t.Fatalf("clamp(%d, %d, %d) = %d, want %d", c.v, c.lo, c.hi, got, c.want)
		}
	}
}
