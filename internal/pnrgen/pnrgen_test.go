package pnrgen

import (
	"context"
	"strings"
	"testing"

	"flightcore/internal/apperr"
)

func TestGenerate_FirstCandidateFree(t *testing.T) {
	pnr, err := Generate(context.Background(), func(ctx context.Context, candidate string) (bool, error) {
		return false, nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(pnr) != length {
		t.Fatalf("expected a %d-character pnr, got %q", length, pnr)
	}
	for _, r := range pnr {
		if !strings.ContainsRune(alphabet, r) {
			t.Fatalf("pnr %q contains a character outside the allowed alphabet", pnr)
		}
	}
}

func TestGenerate_RetriesOnCollision(t *testing.T) {
	attempts := 0
	_, err := Generate(context.Background(), func(ctx context.Context, candidate string) (bool, error) {
		attempts++
		return attempts < 3, nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", attempts)
	}
}

func TestGenerate_ExhaustsRetries(t *testing.T) {
	_, err := Generate(context.Background(), func(ctx context.Context, candidate string) (bool, error) {
		return true, nil
	})
	if apperr.KindOf(err) != apperr.Internal {
		t.Fatalf("expected Internal, got %v", err)
	}
}
