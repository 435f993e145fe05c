package main

import (
	"BrainrotKeeper/internal/catalog"
	"BrainrotKeeper/internal/config"
	"BrainrotKeeper/internal/handlers"
	"BrainrotKeeper/internal/middleware"
	"BrainrotKeeper/internal/repo"
	"BrainrotKeeper/internal/service"
	"BrainrotKeeper/internal/valuation"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func newLogger(format string) (*zap.Logger, error) {
	if format == "json" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func main() {
	cfg := config.NewConfig()

	logger, err := newLogger(cfg.LogFormat)
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		_ = logger.Sync()
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		sugar.Fatalw("failed to load catalog", "path", cfg.CatalogPath, "error", err)
	}
	policy, err := valuation.ParsePolicy(cfg.ValuationPolicy)
	if err != nil {
		sugar.Fatalw("bad valuation policy", "error", err)
	}
	engine, err := valuation.New(cat, policy)
	if err != nil {
		sugar.Fatalw("valuation policy rejected", "policy", policy, "error", err)
	}

	profiles := repo.NewCachedProfileStore(
		repo.NewProfileStore(gormDB, cfg.DefaultAccounts),
		cfg.ProfileCacheSize,
		cfg.ProfileCacheTTL,
	)

	userService := service.NewUserService(repo.NewUserRepository(gormDB))
	inventoryService := service.NewInventoryService(profiles, engine, service.InventoryOptions{
		DefaultAccounts: cfg.DefaultAccounts,
		MaxMutations:    cfg.MaxMutations,
		StrictCatalog:   cfg.StrictCatalog,
	}, sugar)

	h := handlers.NewHandler(userService, inventoryService, sugar, cfg)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"Catalog", cfg.CatalogPath,
		"Policy", policy,
		"StrictCatalog", cfg.StrictCatalog,
		"MaxMutations", cfg.MaxMutations,
		"ProfileCacheSize", cfg.ProfileCacheSize,
		"Dialect", repo.DialectFor(cfg.DatabaseDSN),
	)

	srv := &http.Server{
		Addr:              cfg.BaseURL,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Shutdown failed", "error", err)
		}
	}()

	sugar.Infow("Starting server", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalw("Server failed", "error", err)
	}
	sugar.Infow("Server stopped")
}
