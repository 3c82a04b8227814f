package main

import (
	"context"
	"fmt"
	"os"

	"retail-checkout/internal/config"
	"retail-checkout/internal/db"
	"retail-checkout/internal/logging"
	"retail-checkout/internal/seed"

	"go.uber.org/zap"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck
	logger = logger.Named("seed")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if err := seed.Apply(ctx, pool, logger); err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}
}
