// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/carterperez-dev/booking-api/internal/catalog"
	"github.com/carterperez-dev/booking-api/internal/config"
	"github.com/carterperez-dev/booking-api/internal/core"
	"github.com/carterperez-dev/booking-api/internal/user"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(*configPath, logger); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // process is exiting

	// The API caches the active listing, so clear it when Redis is reachable.
	var cache catalog.Cache
	if redis, redisErr := core.NewRedis(ctx, cfg.Redis); redisErr != nil {
		logger.Warn("redis unavailable, catalog cache not invalidated",
			"error", redisErr,
		)
	} else {
		defer redis.Close() //nolint:errcheck // process is exiting
		cache = catalog.NewRedisCache(redis.Client, cfg.Cache.CatalogTTL)
	}

	catalogSvc := catalog.NewCatalog(catalog.NewRepository(db.DB), cache)

	created, err := catalogSvc.SeedDefaults(ctx, catalog.DefaultServices)
	if err != nil {
		return err
	}
	if created == 0 {
		logger.Info("services already exist, skipping catalog seed")
	} else {
		for _, svc := range catalog.DefaultServices[:created] {
			logger.Info("created service",
				"name", svc.Name,
				"duration_min", svc.DurationMin,
				"price_cents", svc.PriceCents,
			)
		}
	}

	if cfg.Seed.AdminEmail == "" {
		return nil
	}

	userSvc := user.NewService(user.NewRepository(db.DB))
	ok, err := userSvc.EnsureAdmin(
		ctx,
		cfg.Seed.AdminEmail,
		cfg.Seed.AdminPassword,
		cfg.Seed.AdminName,
	)
	if err != nil {
		return err
	}
	if ok {
		logger.Info("created admin account", "email", cfg.Seed.AdminEmail)
	} else {
		logger.Info("admin account already exists", "email", cfg.Seed.AdminEmail)
	}

	return nil
}
