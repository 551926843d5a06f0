package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"docgrounder-be/internal/bootstrap"
	"docgrounder-be/internal/config"
	"docgrounder-be/internal/tracer"
	"docgrounder-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer
	if cfg.App.TracingEnabled {
		shutdownTracer := tracer.InitTracer()
		defer shutdownTracer(context.Background())
	}

	// 3. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Dispatcher.Close()
	defer container.Emitter.Close()

	// 5. Run the ingestion consumer until interrupted
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("Worker: consuming ingestion tasks...")
	if err := container.IngestionService.Run(ctx); err != nil {
		log.Fatalf("Worker stopped with error: %v", err)
	}
	log.Println("Worker: shut down cleanly")
}
