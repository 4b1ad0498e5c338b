package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Gunvolt24/printshop_console/config"
	"github.com/Gunvolt24/printshop_console/internal/app"
	"github.com/joho/godotenv"
)

// Эталонное хранилище заказов (servicios, login) на Postgres.
func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, cleanup, err := app.BootstrapStore(ctx, &cfg)
	if err != nil {
		log.Fatalf("bootstrap store: %v", err)
	}
	defer cleanup()

	if err := a.Run(ctx); err != nil {
		a.Logger.Errorf(ctx, "store stopped with error: %v", err)
	}
}
