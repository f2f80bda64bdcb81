package httpapi

import (
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewRouter assembles the full HTTP surface (spec.md §6) and wraps it in the
// teacher's middleware chain, plus OpenTelemetry instrumentation.
func NewRouter(fh *FlightHandler, bh *BookingHandler, tracingEnabled bool) http.Handler {
	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/flights/search", fh.SearchFlights).Methods("GET")
	api.HandleFunc("/flights/{id}", fh.GetFlight).Methods("GET")
	api.HandleFunc("/flights/{id}/status", fh.UpdateFlightStatus).Methods("PUT")
	api.HandleFunc("/flights/{id}/gate", fh.AssignGate).Methods("PUT")

	api.HandleFunc("/bookings", bh.CreateBooking).Methods("POST")
	api.HandleFunc("/bookings/{reference}", bh.GetBooking).Methods("GET")
	api.HandleFunc("/bookings/{reference}/pay", bh.PayBooking).Methods("POST")
	api.HandleFunc("/pnr/{pnr}", bh.GetPNRStatus).Methods("GET")
	api.HandleFunc("/pnr/{pnr}/booking", bh.GetBookingByPNR).Methods("GET")
	api.HandleFunc("/pnr/{pnr}/receipt", bh.IssueReceipt).Methods("GET")
	api.HandleFunc("/pnr/{pnr}/cancel", bh.CancelBooking).Methods("POST")

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")

	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)
	router.Use(rateLimitMiddleware)
	router.Use(throttleMiddleware)

	var handler http.Handler = router
	if tracingEnabled {
		handler = otelhttp.NewHandler(router, "flightcore")
	}
	return handler
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-Email, X-User-Role, X-User-Name")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Per-IP rate limiter, unchanged in shape from the teacher's server.
var (
	ipLimiters   = make(map[string]*rate.Limiter)
	ipLimitersMu sync.Mutex

	requestsPerSecond = rate.Limit(10)
	burstSize         = 20
)

func getIPLimiter(ip string) *rate.Limiter {
	ipLimitersMu.Lock()
	defer ipLimitersMu.Unlock()

	limiter, exists := ipLimiters[ip]
	if !exists {
		limiter = rate.NewLimiter(requestsPerSecond, burstSize)
		ipLimiters[ip] = limiter
	}
	return limiter
}

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if limiter := getIPLimiter(ip); !limiter.Allow() {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte("Too Many Requests"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Total in-flight request throttle, unchanged in shape from the teacher's
// server.
var (
	maxInFlight = 100
	inFlightSem = make(chan struct{}, maxInFlight)
)

func throttleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case inFlightSem <- struct{}{}:
			defer func() { <-inFlightSem }()
			next.ServeHTTP(w, r)
		default:
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte("Server is busy, please try again later"))
		}
	})
}
