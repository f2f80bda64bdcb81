// Package metrics exposes the core's Prometheus counters and histograms.
// The teacher's go.mod already required prometheus/client_golang but never
// imported it anywhere; this package is what actually wires that dependency
// in, per SPEC_FULL.md §B.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles every metric the core emits.
type Registry struct {
	BookingOutcomes   *prometheus.CounterVec
	SeatsHeld         prometheus.Gauge
	SeatsSold         prometheus.Gauge
	PricingDuration   prometheus.Histogram
	SimulatorTick     prometheus.Histogram
	ReaperExpired     prometheus.Counter
	PNRCollisions     prometheus.Counter
}

// New registers and returns the core's metric set.
func New() *Registry {
	return &Registry{
		BookingOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "flightcore_booking_outcomes_total",
			Help: "Count of booking pipeline outcomes by outcome label.",
		}, []string{"status"}),
		SeatsHeld: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "flightcore_seats_held",
			Help: "Current number of seats in Held status across all flights.",
		}),
		SeatsSold: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "flightcore_seats_sold",
			Help: "Current number of seats in Sold status across all flights.",
		}),
		PricingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "flightcore_pricing_quote_seconds",
			Help:    "Wall time of a single Pricing Engine Quote call.",
			Buckets: prometheus.DefBuckets,
		}),
		SimulatorTick: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "flightcore_simulator_tick_seconds",
			Help:    "Wall time of one Demand Simulator tick across all flights.",
			Buckets: prometheus.DefBuckets,
		}),
		ReaperExpired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "flightcore_reaper_expired_total",
			Help: "Count of bookings the hold reaper has expired.",
		}),
		PNRCollisions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "flightcore_pnr_collisions_total",
			Help: "Count of PNR generation collisions that required a retry.",
		}),
	}
}

// Handler returns the HTTP handler that exposes metrics for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
