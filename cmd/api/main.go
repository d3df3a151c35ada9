package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpapi "bubblehead/internal/http/httpapi"
	"bubblehead/internal/infra"
)

func main() {
	// Load .env (optional)
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := httpapi.Serve(ctx, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("http server failed")
		os.Exit(1)
	}
}
