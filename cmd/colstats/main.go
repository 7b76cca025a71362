package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"colstats/internal"
	"colstats/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	// a missing .env is normal; the environment alone is enough
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	logger := internal.NewLogger(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = newRootCmd(cfg, logger).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
