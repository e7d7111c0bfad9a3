package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clawhouse/platform/internal/auth"
	"github.com/clawhouse/platform/internal/guard"
	"github.com/clawhouse/platform/internal/handler"
	"github.com/clawhouse/platform/internal/infra"
	"github.com/clawhouse/platform/internal/ledger"
	"github.com/clawhouse/platform/internal/poker"
	"github.com/clawhouse/platform/internal/table"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("moltem server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	producer := infra.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaEnabled, logger)
	defer producer.Close()
	feed := ledger.NewFeed(producer, cfg.KafkaJournalTopic, logger)

	led, err := ledger.Open(cfg.LedgerPath, cfg.Amount(cfg.MinDeposit), cfg.Amount(cfg.MinCashout), feed, logger)
	if err != nil {
		return err
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, "moltem", 24*time.Hour)
	authSvc := auth.NewService("Molt'em", tokens, logger)

	gameCfg := poker.Config{
		SmallBlind: cfg.Amount(cfg.PokerSmallBlind),
		BigBlind:   cfg.Amount(cfg.PokerBigBlind),
		MinBuyIn:   cfg.Amount(cfg.PokerMinBuyIn),
		MaxBuyIn:   cfg.Amount(cfg.PokerMaxBuyIn),
		MaxSeats:   cfg.PokerMaxSeats,
	}
	tbl := table.NewPokerTable(table.PokerConfig{
		Game:          gameCfg,
		ActionTimeout: cfg.PokerActionTimeout,
		NextHandDelay: cfg.PokerNextHandDelay,
	}, led, logger)
	defer tbl.Close()

	pokerHandler := handler.NewPokerHandler(tbl)
	router := handler.NewRouter(handler.RouterDeps{
		Logger:      logger,
		AuthSvc:     authSvc,
		AuthHandler: handler.NewAuthHandler(authSvc),
		Guards:      guard.NewSet(),
		Game:        handler.NewGameHandler(tbl, led, handler.PokerRules(gameCfg)),
		Operator:    handler.NewOperatorHandler(led, tbl),
		WS:          handler.NewWSHandler(tbl, authSvc, cfg.OperatorKey, logger),
		Health:      handler.HealthHandler(led),
		OperatorKey: cfg.OperatorKey,
		CORSOrigins: cfg.CORSAllowedOrigins,
		MountActions: func(r chi.Router) {
			r.Post("/table/sit", pokerHandler.Sit)
			r.Post("/table/stand", pokerHandler.Stand)
			r.Post("/action", pokerHandler.Act)
		},
	})

	addr := fmt.Sprintf(":%d", cfg.PokerPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("moltem server starting", "addr", addr, "ledger", cfg.LedgerPath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
