// Command seed migrates the catalog definition tables and fills them from a
// YAML file (CATALOG_FILE) or the built-in definitions.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"covid_market/internal/feature/catalog/adapters"
	infradb "covid_market/internal/platform/db"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	_ = godotenv.Load()

	db, err := infradb.OpenDB(infradb.LoadConfigFromEnv())
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	if err := infradb.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if path := os.Getenv("CATALOG_FILE"); path != "" {
		defs, err := adapters.LoadYAMLDefinitions(path)
		if err != nil {
			slog.Error("failed to load catalog file", "path", path, "error", err)
			os.Exit(1)
		}
		countries, stocks := defs.All()
		if err := adapters.ImportDefinitions(ctx, db, countries, stocks); err != nil {
			slog.Error("import failed", "error", err)
			os.Exit(1)
		}
		slog.Info("catalog definitions imported", "path", path, "countries", len(countries), "stocks", len(stocks))
		return
	}

	if err := adapters.SeedDefaults(ctx, db); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
	slog.Info("built-in catalog definitions seeded")
}
