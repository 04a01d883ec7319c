package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/vantage-admin/vantage-admin/internal/app"
	"github.com/vantage-admin/vantage-admin/internal/customers"
	"github.com/vantage-admin/vantage-admin/internal/export"
	"github.com/vantage-admin/vantage-admin/internal/importer"
	"github.com/vantage-admin/vantage-admin/internal/platform/cache"
	"github.com/vantage-admin/vantage-admin/internal/platform/db"
	"github.com/vantage-admin/vantage-admin/internal/proposals"
	"github.com/vantage-admin/vantage-admin/internal/quotations"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// Saves keep working without Redis through the timestamp fallback
		// in the number generator; jobs will not be enqueued.
		logger.Warn("redis unavailable", slog.Any("error", err))
	}
	defer func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}
	}()

	var taskClient *asynq.Client
	if redisClient != nil {
		taskClient = asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer func() {
			if err := taskClient.Close(); err != nil {
				logger.Warn("asynq close", slog.Any("error", err))
			}
		}()
	}

	renderer := export.NewPDFRenderer(cfg.CompanyName)

	customerRepo := customers.NewRepository(pool)
	customerService := customers.NewService(customerRepo)
	customerHandler := customers.NewHandler(logger, customerService)

	quotationRepo := quotations.NewRepository(pool)
	numbers := quotations.NewNumberGenerator(redisClient)
	var enqueuer quotations.TaskEnqueuer
	if taskClient != nil {
		enqueuer = taskClient
	}
	quotationService := quotations.NewService(quotationRepo, numbers, customerService, enqueuer, logger)
	quotationHandler := quotations.NewHandler(logger, quotationService, renderer)

	proposalRepo := proposals.NewRepository(pool)
	proposalService := proposals.NewService(proposalRepo)
	proposalHandler := proposals.NewHandler(logger, proposalService)

	importHandler := importer.NewHandler(logger, quotationService, cfg.DefaultCurrency, cfg.DefaultVATRate)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		CustomerHandler:  customerHandler,
		QuotationHandler: quotationHandler,
		ProposalHandler:  proposalHandler,
		ImportHandler:    importHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
