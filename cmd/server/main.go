package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightcore/internal/catalog"
	"flightcore/internal/config"
	"flightcore/internal/httpapi"
	"flightcore/internal/inventory"
	"flightcore/internal/search"
	"flightcore/internal/store"
	"flightcore/pkg/database"
	"flightcore/pkg/eventbus"
	"flightcore/pkg/metrics"
	"flightcore/pkg/redisx"
	"flightcore/pkg/tracing"
)

func main() {
	cfg := config.Load()

	shutdownTracer, err := tracing.InitTracer(context.Background(), &cfg.Tracing)
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer shutdownTracer(context.Background())

	db, err := database.NewPostgresConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient := redisx.NewClient(&cfg.Redis)
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	eventProducer := eventbus.NewProducer(&cfg.Kafka)
	defer eventProducer.Close()

	metricsRegistry := metrics.New()

	flightStore := store.New(db)
	catalogService := catalog.New(flightStore)
	searchService := search.New(flightStore, time.Now)
	paymentAdapter := inventory.NewSimulatedPaymentAdapter(cfg.App.PaymentSuccessProbability)
	bookingService := inventory.New(flightStore, redisClient, eventProducer, metricsRegistry, paymentAdapter, cfg.App, time.Now)

	flightHandler := httpapi.NewFlightHandler(searchService, catalogService)
	bookingHandler := httpapi.NewBookingHandler(bookingService)

	router := httpapi.NewRouter(flightHandler, bookingHandler, cfg.Tracing.Enabled)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	reaperCtx, stopReaper := context.WithCancel(context.Background())
	defer stopReaper()
	go bookingService.Run(reaperCtx, cfg.App.ReaperPeriod)

	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle(cfg.Metrics.Path, metrics.Handler())
			log.Printf("Serving metrics on port %s%s", cfg.Metrics.Port, cfg.Metrics.Path)
			if err := http.ListenAndServe(":"+cfg.Metrics.Port, mux); err != nil && err != http.ErrServerClosed {
				log.Printf("Metrics server stopped: %v", err)
			}
		}()
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	stopReaper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
