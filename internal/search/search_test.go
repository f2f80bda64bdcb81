package search

import (
	"context"
	"testing"

	"flightcore/internal/apperr"
)

func TestSearch_RejectsMissingCodes(t *testing.T) {
	svc := New(nil, nil)
	_, err := svc.Search(context.Background(), Criteria{OriginCode: "DEL"})
	if apperr.KindOf(err) != apperr.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestSearch_RejectsSameOriginAndDestination(t *testing.T) {
	svc := New(nil, nil)
	_, err := svc.Search(context.Background(), Criteria{OriginCode: "DEL", DestinationCode: "DEL"})
	if apperr.KindOf(err) != apperr.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestSearch_RejectsPassengerCountBelowOne(t *testing.T) {
	svc := New(nil, nil)
	_, err := svc.Search(context.Background(), Criteria{OriginCode: "DEL", DestinationCode: "BOM", Passengers: 0})
	if apperr.KindOf(err) != apperr.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestSearch_RejectsUnknownTier(t *testing.T) {
	svc := New(nil, nil)
	_, err := svc.Search(context.Background(), Criteria{OriginCode: "DEL", DestinationCode: "BOM", Passengers: 1, Tier: "super_deluxe"})
	if apperr.KindOf(err) != apperr.InvalidTier {
		t.Fatalf("expected InvalidTier, got %v", err)
	}
}
