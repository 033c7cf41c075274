package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-delivery-service/internal/adapters/cache"
	"food-delivery-service/internal/adapters/repositories"
	"food-delivery-service/internal/api"
	"food-delivery-service/internal/api/handlers"
	"food-delivery-service/internal/config"
	"food-delivery-service/internal/platform/db"
	"food-delivery-service/internal/ports"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// main is the application composition root.
// It wires concrete adapters (SQLite or Postgres, optional Redis) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found (using environment variables)")
	}

	if err := run(); err != nil {
		logrus.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logrus.SetLevel(cfg.Level())
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	conn, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return err
	}
	defer conn.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(conn, cfg); err != nil {
		return err
	}

	distanceCache, closeCache, err := newDistanceCache(conn, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	restaurants := repositories.NewSqliteRestaurantRepository(conn)
	plans := repositories.NewSqlitePlanRepository(conn)
	if cfg.DBDriver == db.DriverPostgres {
		restaurants = repositories.NewPostgresRestaurantRepository(conn)
		plans = repositories.NewPostgresPlanRepository(conn)
	}

	router := api.NewRouter(api.Deps{
		Restaurants: restaurants,
		Plans:       plans,
		Cache:       distanceCache,
		DB:          conn,
		Defaults: handlers.PlanDefaults{
			GridSize:    cfg.DefaultGridSize,
			Riders:      cfg.DefaultRiders,
			Parallelism: cfg.OptimizerParallelism,
		},
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logrus.WithFields(logrus.Fields{"addr": srv.Addr, "db_driver": cfg.DBDriver}).Info("server listening")
		errc <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case sig := <-shutdown:
		logrus.WithField("signal", sig.String()).Info("starting graceful shutdown")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logrus.Info("server stopped")
	return nil
}

func initAndSeed(conn *sql.DB, cfg config.Config) error {
	ctx := context.Background()
	if cfg.DBDriver == db.DriverPostgres {
		if err := repositories.InitPostgresSchema(ctx, conn); err != nil {
			return fmt.Errorf("init and seed: %w", err)
		}
	} else if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if _, err := os.Stat(cfg.SeedPath); err != nil {
		logrus.WithField("seed_path", cfg.SeedPath).Warn("seed file not found, skipping seed")
		return nil
	}

	var err error
	if cfg.DBDriver == db.DriverPostgres {
		err = repositories.SeedPostgresFromJSON(ctx, conn, cfg.SeedPath)
	} else {
		err = repositories.SeedFromJSON(conn, cfg.SeedPath)
	}
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	logrus.WithField("seed_path", cfg.SeedPath).Info("seeded restaurants")
	return nil
}

// newDistanceCache prefers Redis when REDIS_URL is set and falls back to the
// database otherwise.
func newDistanceCache(conn *sql.DB, cfg config.Config) (ports.DistanceCache, func(), error) {
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rc, err := cache.NewRedisDistanceCacheFromURL(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		logrus.Info("distance cache: redis")
		return rc, func() { _ = rc.Close() }, nil
	}

	if cfg.DBDriver == db.DriverPostgres {
		logrus.Info("distance cache: postgres")
		return cache.NewSQLDistanceCache(conn), func() {}, nil
	}
	logrus.Info("distance cache: sqlite")
	return cache.NewSqliteDistanceCache(conn), func() {}, nil
}
