// Package search is the Search Service (spec.md §4.3): filters non-Cancelled
// flights by route and date, attaches a live price map and seat counts per
// tier from the Pricing Engine and current seat inventory.
package search

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"flightcore/internal/apperr"
	"flightcore/internal/domain"
	"flightcore/internal/pricing"
	"flightcore/internal/store"
)

// Result is one flight row enriched with its current per-tier fare and seat
// counts (spec.md §4.3 "price_map", "seats_by_class", "duration_minutes").
type Result struct {
	Flight          *domain.Flight
	PriceMap        map[domain.CabinClass]string
	SeatsByClass    map[domain.CabinClass]store.SeatCounts
	DurationMinutes int

	cheapestFare decimal.Decimal // lowest fare across PriceMap; used for SortByPrice only
}

// Criteria is the caller-facing search request (spec.md §4.3).
type Criteria struct {
	OriginCode      string
	DestinationCode string
	Date            *time.Time
	Passengers      int               // must be >= 1
	Tier            domain.CabinClass // optional; empty means every tier the flight sells
	Sort            store.SortKey     // defaults to SortByDeparture
	Limit           int
	Offset          int
}

// Service is the Search Service.
type Service struct {
	store *store.Store
	now   func() time.Time
}

// New builds a Search Service. now defaults to time.Now.
func New(s *store.Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: s, now: now}
}

// Search returns the non-Cancelled flights matching c, each carrying a live
// price map and seat counts for c.Tier, or for every cabin class the flight
// has a base fare for when no tier is given (spec.md §4.3).
func (svc *Service) Search(ctx context.Context, c Criteria) ([]Result, error) {
	if c.OriginCode == "" || c.DestinationCode == "" {
		return nil, apperr.New(apperr.InvalidArgument, "origin_code and destination_code are required")
	}
	if c.OriginCode == c.DestinationCode {
		return nil, apperr.New(apperr.InvalidArgument, "origin_code and destination_code must differ")
	}
	if c.Passengers < 1 {
		return nil, apperr.New(apperr.InvalidArgument, "passengers must be at least 1")
	}
	if c.Tier != "" && !c.Tier.Valid() {
		return nil, apperr.New(apperr.InvalidTier, "unknown cabin class")
	}

	if _, err := svc.store.GetAirportByCode(ctx, svc.store.Conn(), c.OriginCode); err != nil {
		return nil, err
	}
	if _, err := svc.store.GetAirportByCode(ctx, svc.store.Conn(), c.DestinationCode); err != nil {
		return nil, err
	}

	flights, err := svc.store.SearchFlights(ctx, svc.store.Conn(), store.SearchCriteria{
		OriginCode:      c.OriginCode,
		DestinationCode: c.DestinationCode,
		Date:            c.Date,
	})
	if err != nil {
		return nil, err
	}

	now := svc.now()
	results := make([]Result, 0, len(flights))
	for _, f := range flights {
		if c.Tier != "" {
			if _, ok := f.BaseFare[c.Tier]; !ok {
				continue
			}
		}

		var tiers []domain.CabinClass
		if c.Tier != "" {
			tiers = []domain.CabinClass{c.Tier}
		} else {
			for tier := range f.BaseFare {
				tiers = append(tiers, tier)
			}
		}

		priceMap := make(map[domain.CabinClass]string, len(tiers))
		seatsByClass := make(map[domain.CabinClass]store.SeatCounts, len(tiers))
		cheapest := decimal.Zero

		for _, tier := range tiers {
			counts, err := svc.store.CountSeatsByTier(ctx, svc.store.Conn(), f.ID, tier)
			if err != nil {
				return nil, err
			}
			seatsByClass[tier] = counts

			snapshot, err := pricing.SnapshotFromFlight(f, counts.Available, counts.Total, now, tier)
			if err != nil {
				return nil, err
			}
			fare, err := pricing.Quote(snapshot)
			if err != nil {
				return nil, err
			}
			priceMap[tier] = fare.String()
			if cheapest.IsZero() || fare.LessThan(cheapest) {
				cheapest = fare
			}
		}

		results = append(results, Result{
			Flight:          f,
			PriceMap:        priceMap,
			SeatsByClass:    seatsByClass,
			DurationMinutes: f.DurationMinutes(),
			cheapestFare:    cheapest,
		})
	}

	sortResults(results, c.Sort)
	return paginate(results, c.Limit, c.Offset), nil
}

// sortResults orders results per the requested sort key, stable by flight id
// as the secondary key (spec.md §4.3 "Sorting is stable by id as secondary
// key"). SearchFlights already returns departure/id order, so SortByDeparture
// (the default, and the zero value) needs no further work here.
func sortResults(results []Result, key store.SortKey) {
	switch key {
	case store.SortByPrice:
		sort.SliceStable(results, func(i, j int) bool {
			if !results[i].cheapestFare.Equal(results[j].cheapestFare) {
				return results[i].cheapestFare.LessThan(results[j].cheapestFare)
			}
			return results[i].Flight.ID < results[j].Flight.ID
		})
	case store.SortByDuration:
		sort.SliceStable(results, func(i, j int) bool {
			if results[i].DurationMinutes != results[j].DurationMinutes {
				return results[i].DurationMinutes < results[j].DurationMinutes
			}
			return results[i].Flight.ID < results[j].Flight.ID
		})
	}
}

// paginate slices results after sorting, since price/duration order can't be
// pushed down into the SQL LIMIT/OFFSET the store layer uses for the
// departure-ordered default.
func paginate(results []Result, limit, offset int) []Result {
	if offset > 0 {
		if offset >= len(results) {
			return results[:0]
		}
		results = results[offset:]
	}
	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}
	return results
}
