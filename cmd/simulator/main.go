// Command simulator runs the Demand Simulator as its own periodic actor
// (spec.md §4.2, Design Notes "two explicit periodic actors ... with their
// own cancellation tokens"), separate from the API server's reaper loop.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"flightcore/internal/config"
	"flightcore/internal/idgen"
	"flightcore/internal/simulator"
	"flightcore/internal/store"
	"flightcore/pkg/database"
	"flightcore/pkg/metrics"
)

func main() {
	cfg := config.Load()

	db, err := database.NewPostgresConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	metricsRegistry := metrics.New()

	flightStore := store.New(db)
	sim := simulator.New(flightStore, metricsRegistry, nil, idgen.NewID())

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("Shutting down demand simulator...")
		stop()
	}()

	log.Printf("Starting demand simulator, tick period %s", cfg.App.SimulatorPeriod)
	sim.Run(ctx, cfg.App.SimulatorPeriod)
	log.Println("Demand simulator exited")
}
