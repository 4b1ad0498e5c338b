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

// Консоль заказов типографии: HTTP API поверх удалённого хранилища.
func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// SIGINT/SIGTERM отменяют контекст и запускают graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, cleanup, err := app.Bootstrap(ctx, &cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer cleanup()

	if err := a.Run(ctx); err != nil {
		a.Logger.Errorf(ctx, "console stopped with error: %v", err)
	}
}
