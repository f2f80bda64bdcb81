package search

import (
	"testing"

	"github.com/shopspring/decimal"

	"flightcore/internal/domain"
	"flightcore/internal/store"
)

func TestSortResults_ByPrice_StableById(t *testing.T) {
	results := []Result{
		{Flight: &domain.Flight{ID: 1}, cheapestFare: decimal.RequireFromString("200")},
		{Flight: &domain.Flight{ID: 2}, cheapestFare: decimal.RequireFromString("100")},
		{Flight: &domain.Flight{ID: 3}, cheapestFare: decimal.RequireFromString("100")},
	}
	sortResults(results, store.SortByPrice)
	if results[0].Flight.ID != 2 || results[1].Flight.ID != 3 || results[2].Flight.ID != 1 {
		t.Fatalf("unexpected order: %+v", results)
	}
}

func TestSortResults_ByDuration(t *testing.T) {
	results := []Result{
		{Flight: &domain.Flight{ID: 1}, DurationMinutes: 180},
		{Flight: &domain.Flight{ID: 2}, DurationMinutes: 90},
	}
	sortResults(results, store.SortByDuration)
	if results[0].Flight.ID != 2 {
		t.Fatalf("expected shortest duration first, got %+v", results)
	}
}

func TestSortResults_DepartureIsNoOp(t *testing.T) {
	results := []Result{
		{Flight: &domain.Flight{ID: 2}},
		{Flight: &domain.Flight{ID: 1}},
	}
	sortResults(results, store.SortByDeparture)
	if results[0].Flight.ID != 2 || results[1].Flight.ID != 1 {
		t.Fatalf("expected departure order left untouched, got %+v", results)
	}
}

func TestPaginate(t *testing.T) {
	results := []Result{{}, {}, {}, {}, {}}
	if got := paginate(results, 2, 1); len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got := paginate(results, 0, 10); len(got) != 0 {
		t.Fatalf("expected an empty slice when offset exceeds length, got %d", len(got))
	}
}
