// Package pnrgen issues passenger name records at booking confirmation
// (spec.md §4.5): six characters, alphabet excludes visually ambiguous
// characters, collision-checked against live not-Expired bookings.
package pnrgen

import (
	"context"
	"crypto/rand"

	"flightcore/internal/apperr"
)

// alphabet excludes 0, O, 1, I (spec.md §4.5 "excluding ambiguous
// characters").
const alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

const length = 6

// maxAttempts is the collision-retry budget (spec.md §4.5, K=8) before
// giving up and surfacing an Internal error.
const maxAttempts = 8

// Checker reports whether a candidate PNR is already in use.
type Checker func(ctx context.Context, pnr string) (bool, error)

// Generate produces a fresh, collision-free PNR by drawing random candidates
// and checking each against exists until one is free or attempts run out.
func Generate(ctx context.Context, exists Checker) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate, err := draw()
		if err != nil {
			return "", apperr.Wrap(apperr.Internal, "draw pnr candidate", err)
		}

		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", apperr.New(apperr.Internal, "exhausted pnr collision retries")
}

func draw() (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, length)
	for i, b := range buf {
		out[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(out), nil
}
