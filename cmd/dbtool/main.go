package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"food-delivery-service/internal/adapters/repositories"
	"food-delivery-service/internal/config"
	"food-delivery-service/internal/platform/db"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Initializes the Postgres schema and loads the restaurant seed file.
func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		logrus.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(db.DriverPostgres, databaseURL)
	if err != nil {
		logrus.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/restaurants.json")
	if err := initAndSeed(context.Background(), conn, seedPath); err != nil {
		logrus.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string) error {
	logrus.Info("initializing database schema...")
	if err := repositories.InitPostgresSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	logrus.Info("schema ready")

	logrus.WithField("seed_path", seedPath).Info("seeding database...")
	if err := repositories.SeedPostgresFromJSON(ctx, conn, seedPath); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	logrus.Info("seeding complete")

	return nil
}
