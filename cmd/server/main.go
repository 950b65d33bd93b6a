package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopcentral/internal/config"
	"shopcentral/internal/infra"
	"shopcentral/internal/repository"
	"shopcentral/internal/router"
	"shopcentral/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Async infrastructure: receipts, enrichment and email run on the worker
	// pool; handlers are wired here (composition root) so the pool has full
	// access to all dependencies.
	visionClient := infra.NewVisionClient(cfg.VisionSidecarURL)
	visionCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)

	saleRepo := repository.NewSaleRepository(db)
	productRepo := repository.NewProductRepository(db)

	pool := worker.NewPool(rdb)
	pool.Register("receipt", worker.NewReceiptWorker(saleRepo, dispatcher, cfg.ReceiptStoragePath, cfg.ShopName))
	pool.Register("enrichment", worker.NewEnrichmentWorker(productRepo, visionClient, visionCB))
	pool.Register("email", worker.NewEmailWorker(mailer))
	pool.Start(ctx, cfg.WorkerPoolSize)

	// Daily low-stock digest
	lowStockCron := worker.StartLowStockCron(ctx, worker.LowStockCronConfig{
		ProductRepo: productRepo,
		Dispatcher:  dispatcher,
		DigestEmail: cfg.DigestEmail,
		ShopName:    cfg.ShopName,
	})
	defer lowStockCron.Stop()

	r := router.New(cfg, db, rdb, visionCB, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("shopcentral backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
