package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"retail-checkout/internal/config"
	"retail-checkout/internal/db"
	"retail-checkout/internal/logging"
	"retail-checkout/internal/migrate"

	"go.uber.org/zap"
)

func main() {
	var down int
	flag.IntVar(&down, "down", 0, "Roll back this many migration steps instead of applying")
	flag.Parse()

	cfg := config.FromEnv()
	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck
	logger = logger.Named("migrate")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if down > 0 {
		if err := migrate.Rollback(ctx, pool, down); err != nil {
			logger.Fatal("rollback migrations", zap.Error(err))
		}
		logger.Info("migrations rolled back", zap.Int("steps", down))
		return
	}

	if err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}
	versions, err := migrate.Versions()
	if err != nil {
		logger.Fatal("list migrations", zap.Error(err))
	}
	logger.Info("migrations applied", zap.Strings("versions", versions))
}
