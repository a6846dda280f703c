package main

import (
	"context"
	"log"

	"cancellation-flow-be/internal/bootstrap"
	"cancellation-flow-be/internal/config"
	"cancellation-flow-be/internal/server"
	"cancellation-flow-be/internal/tracer"
	"cancellation-flow-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Persistence Worker...")
		if err := container.PersistenceService.Consume(context.Background()); err != nil {
			log.Printf("Background Persistence Worker Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
