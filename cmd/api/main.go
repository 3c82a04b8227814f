package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"retail-checkout/internal/config"
	"retail-checkout/internal/db"
	"retail-checkout/internal/exchange"
	"retail-checkout/internal/httpserver"
	"retail-checkout/internal/logging"
	campaignrepo "retail-checkout/internal/repository/campaign"
	productrepo "retail-checkout/internal/repository/product"
	receiptrepo "retail-checkout/internal/repository/receipt"
	shiftrepo "retail-checkout/internal/repository/shift"
	campaignsvc "retail-checkout/internal/service/campaign"
	paymentsvc "retail-checkout/internal/service/payment"
	productsvc "retail-checkout/internal/service/product"
	receiptsvc "retail-checkout/internal/service/receipt"
	reportsvc "retail-checkout/internal/service/report"
	shiftsvc "retail-checkout/internal/service/shift"

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

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	receiptRepo := receiptrepo.NewPostgres(dbpool, logger)
	shiftRepo := shiftrepo.NewPostgres(dbpool, receiptRepo, logger)

	campaignService := campaignsvc.New(campaignsvc.Repos{
		Discounts:        campaignrepo.NewDiscountPostgres(dbpool, logger),
		ReceiptDiscounts: campaignrepo.NewReceiptDiscountPostgres(dbpool, logger),
		Combos:           campaignrepo.NewComboPostgres(dbpool, logger),
		BuyNGetN:         campaignrepo.NewBuyNGetNPostgres(dbpool, logger),
		Products:         productRepo,
	}, logger)
	productService := productsvc.New(productRepo, campaignService, logger)
	shiftService := shiftsvc.New(shiftRepo, logger)
	receiptService := receiptsvc.New(receiptRepo, shiftRepo, productRepo, campaignService, logger)

	converter := exchange.New(exchange.Options{
		BaseURL:   cfg.Exchange.BaseURL,
		Timeout:   cfg.Exchange.Timeout,
		RateLimit: cfg.Exchange.RateLimit,
		Burst:     cfg.Exchange.Burst,
	}, logger)
	paymentService := paymentsvc.New(receiptRepo, shiftRepo, campaignService, converter, cfg.BaseCurrency, logger)
	reportService := reportsvc.New(shiftRepo, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Products:  productService,
		Campaigns: campaignService,
		Shifts:    shiftService,
		Receipts:  receiptService,
		Payments:  paymentService,
		Reports:   reportService,
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
