// Package main - Entry point for the price estimation server
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"realestate-price/api"
	"realestate-price/core/model"
	"realestate-price/core/rules"
	"realestate-price/core/valuation"
	"realestate-price/internal/config"
	"realestate-price/internal/logging"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "config.json", "Path to config file")
	addr := flag.String("addr", "", "Server address (overrides config)")
	flag.Parse()

	if err := run(*configPath, *addr); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, addr string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyEnv()
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logging.Sync()
	logger := logging.With(zap.String("version", version))

	ruleSet, err := rules.Load(cfg.Rules.Path)
	if err != nil {
		return err
	}
	logging.Info("Loaded rule tables",
		zap.String("source", ruleSet.Source),
		zap.Int("feature_rules", len(ruleSet.Features)),
		zap.Int("price_tiers", len(ruleSet.Tiers)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handle := model.Load(ctx, cfg.Model.Path, cfg.Model.LoadTimeout(), logger)
	if !handle.IsPresent() {
		logging.Warn("Serving without a model, every estimate uses the heuristic price tiers")
	}

	service := valuation.New(handle,
		valuation.WithProfiler(ruleSet.Profiler()),
		valuation.WithEstimator(ruleSet.Estimator()),
		valuation.WithLogger(logger))

	srv := api.NewServer(version, service, logger).HTTPServer(
		cfg.Server.Addr,
		time.Duration(cfg.Server.ReadTimeoutSeconds)*time.Second,
		time.Duration(cfg.Server.WriteTimeoutSeconds)*time.Second)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Price estimation server listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("model", handle.State()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logging.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logging.Error("Server stopped with error", zap.Error(err))
		return err
	}
	return nil
}
