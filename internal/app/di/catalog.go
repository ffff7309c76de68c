// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"covid_market/internal/feature/catalog/adapters"
	"covid_market/internal/feature/catalog/generator"
	"covid_market/internal/feature/catalog/usecase"
	"covid_market/internal/platform/db"
)

// Definition sources selectable with CATALOG_SOURCE.
const (
	SourceStatic = "static"
	SourceFile   = "file"
	SourceDB     = "db"
)

// ErrUnknownSource is returned for an unsupported CATALOG_SOURCE value.
var ErrUnknownSource = errors.New("unknown catalog source")

// CatalogConfig selects where catalog definitions come from and how data is seeded.
type CatalogConfig struct {
	Source  string
	File    string
	Seed    uint64
	HasSeed bool
	SeedDB  bool // populate empty definition tables with the built-in catalog
}

// LoadCatalogConfig reads CATALOG_SOURCE, CATALOG_FILE, CATALOG_SEED and CATALOG_SEED_DB.
// A CATALOG_FILE without an explicit source implies the file source.
func LoadCatalogConfig() (CatalogConfig, error) {
	cfg := CatalogConfig{
		Source: strings.ToLower(os.Getenv("CATALOG_SOURCE")),
		File:   os.Getenv("CATALOG_FILE"),
		SeedDB: os.Getenv("CATALOG_SEED_DB") == "true",
	}
	if cfg.Source == "" {
		cfg.Source = SourceStatic
		if cfg.File != "" {
			cfg.Source = SourceFile
		}
	}
	if raw := os.Getenv("CATALOG_SEED"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return CatalogConfig{}, fmt.Errorf("invalid CATALOG_SEED %q: %w", raw, err)
		}
		cfg.Seed, cfg.HasSeed = seed, true
	}
	return cfg, nil
}

// NewDefinitionRepository returns the definition source named by cfg.
// openDB is only called for the db source.
func NewDefinitionRepository(ctx context.Context, cfg CatalogConfig, openDB func() (*gorm.DB, error)) (usecase.DefinitionRepository, error) {
	switch cfg.Source {
	case SourceStatic, "":
		return adapters.NewStaticDefinitions(), nil
	case SourceFile:
		if cfg.File == "" {
			return nil, fmt.Errorf("%w: CATALOG_FILE is required for the file source", ErrUnknownSource)
		}
		repo, err := adapters.LoadYAMLDefinitions(cfg.File)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case SourceDB:
		gdb, err := openDB()
		if err != nil {
			return nil, fmt.Errorf("open catalog database: %w", err)
		}
		if cfg.SeedDB {
			if err := db.Migrate(gdb); err != nil {
				return nil, err
			}
			if err := adapters.SeedDefaults(ctx, gdb); err != nil {
				return nil, fmt.Errorf("seed catalog definitions: %w", err)
			}
		}
		return adapters.NewDefinitionRepository(gdb), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Source)
	}
}

// NewCatalog builds the immutable catalog. Without a configured seed a random
// one is drawn and logged so the run can be reproduced.
func NewCatalog(ctx context.Context, cfg CatalogConfig, repo usecase.DefinitionRepository) (*usecase.Catalog, error) {
	seed := cfg.Seed
	if !cfg.HasSeed {
		var b [8]byte
		if _, err := rand.Read(b[:]); err != nil {
			return nil, fmt.Errorf("draw catalog seed: %w", err)
		}
		seed = binary.LittleEndian.Uint64(b[:])
	}
	slog.Info("generating catalog", "source", cfg.Source, "seed", seed)
	return usecase.BuildCatalog(ctx, repo, generator.NewSeeded(seed))
}
