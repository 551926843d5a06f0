package main

import (
	"context"
	"log"

	"docgrounder-be/internal/bootstrap"
	"docgrounder-be/internal/config"
	"docgrounder-be/internal/server"
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

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
