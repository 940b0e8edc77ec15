package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/jimohammad/po-sub000/internal/app"
	"github.com/jimohammad/po-sub000/internal/ledger"
	"github.com/jimohammad/po-sub000/internal/observability"
	"github.com/jimohammad/po-sub000/internal/party"
	"github.com/jimohammad/po-sub000/internal/payments"
	"github.com/jimohammad/po-sub000/internal/platform/cache"
	"github.com/jimohammad/po-sub000/internal/platform/db"
	"github.com/jimohammad/po-sub000/internal/purchasing"
	"github.com/jimohammad/po-sub000/internal/returns"
	"github.com/jimohammad/po-sub000/internal/sales"
	"github.com/jimohammad/po-sub000/internal/share"
	"github.com/jimohammad/po-sub000/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	ledgerRepo := ledger.NewRepository(pool)
	ledgerService := ledger.NewService(ledgerRepo, logger)
	ledgerHandler := ledger.NewHandler(logger, ledgerService, metrics)

	partyRepo := party.NewRepository(pool)
	partyService := party.NewService(partyRepo)
	partyHandler := party.NewHandler(logger, partyService)

	salesRepo := sales.NewRepository(pool)
	salesService := sales.NewService(salesRepo)
	salesHandler := sales.NewHandler(logger, salesService)

	purchasingRepo := purchasing.NewRepository(pool)
	purchasingService := purchasing.NewService(purchasingRepo)
	purchasingHandler := purchasing.NewHandler(logger, purchasingService)

	paymentsRepo := payments.NewRepository(pool)
	paymentsService := payments.NewService(paymentsRepo)
	paymentsHandler := payments.NewHandler(logger, paymentsService)

	returnsRepo := returns.NewRepository(pool)
	returnsService := returns.NewService(returnsRepo)
	returnsHandler := returns.NewHandler(logger, returnsService)

	shareStore := share.NewStore(redisClient)
	shareHandler := share.NewHandler(logger, shareStore, ledgerService, partyService, cfg.ShareTTL)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		LedgerHandler:     ledgerHandler,
		PartyHandler:      partyHandler,
		SalesHandler:      salesHandler,
		PurchasingHandler: purchasingHandler,
		PaymentsHandler:   paymentsHandler,
		ReturnsHandler:    returnsHandler,
		ShareHandler:      shareHandler,
		JobHandler:        jobHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
