package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"site-content-be/internal/bootstrap"
	"site-content-be/internal/config"
	"site-content-be/internal/server"
	"site-content-be/internal/tracer"
	"site-content-be/pkg/database"

	"golang.org/x/sync/errgroup"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.App.Environment != "production")
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 4. Background services and the server share one lifetime
	srv := server.New(cfg, container)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		container.WebSocketHub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		log.Println("Background: Starting Consumer Service...")
		return container.ConsumerService.Consume(gctx)
	})
	g.Go(func() error {
		log.Println("Background: Starting Font Sync Service...")
		if err := container.FontSyncService.Start(gctx); err != nil {
			log.Printf("[WARN] Font sync subscription failed: %v", err)
		}
		return nil
	})
	g.Go(srv.Run)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
