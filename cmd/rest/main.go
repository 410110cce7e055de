package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"estate-listing-be/internal/bootstrap"
	"estate-listing-be/internal/config"
	"estate-listing-be/internal/server"
	"estate-listing-be/internal/tracer"
	"estate-listing-be/pkg/database"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	shutdownTracer := tracer.InitTracer(ctx, cfg.App.OtelEnabled, cfg.App.OtelEndpoint)
	defer shutdownTracer(context.Background())

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.IsProduction())
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Printf("Render warm-up consumer not started: %v", err)
	}
	if container.CacheSyncService != nil {
		if err := container.CacheSyncService.Start(ctx); err != nil {
			log.Printf("Render cache sync not started: %v", err)
		}
	}

	srv := server.New(cfg, container)
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(); err != nil {
			log.Printf("Server shutdown: %v", err)
		}
	}()

	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
