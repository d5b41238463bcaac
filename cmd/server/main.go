package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/agenthands/netrepair/internal/config"
	"github.com/agenthands/netrepair/internal/core"
	"github.com/agenthands/netrepair/internal/driver"
	"github.com/agenthands/netrepair/internal/logging"
	"github.com/agenthands/netrepair/internal/server"
	"github.com/agenthands/netrepair/internal/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfg, err := config.Resolve()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if _, err := logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Init(ctx, cfg.TelemetryConfig())
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("Telemetry shutdown: %v", err)
		}
	}()

	d, err := driver.NewClingoDriver(cfg.DriverConfig())
	if err != nil {
		log.Fatalf("Failed to configure solver: %v", err)
	}
	if err := d.Available(); err != nil {
		log.Printf("Warning: %v; solving is unavailable but the other routes still work", err)
	}

	gin.SetMode(cfg.Server.Mode)
	srv := server.NewServer(core.NewRepairer(d, cfg.RepairerOptions()))
	if err := server.ListenAndServe(ctx, ":"+cfg.Server.Port, srv.SetupRouter()); err != nil {
		log.Fatal(err)
	}
}
