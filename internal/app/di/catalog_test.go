package di

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestLoadCatalogConfig(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		expected CatalogConfig
		wantErr  bool
	}{
		{
			name:     "defaults to static",
			env:      map[string]string{},
			expected: CatalogConfig{Source: SourceStatic},
		},
		{
			name:     "file implies file source",
			env:      map[string]string{"CATALOG_FILE": "/etc/catalog.yaml"},
			expected: CatalogConfig{Source: SourceFile, File: "/etc/catalog.yaml"},
		},
		{
			name:     "explicit db with seed",
			env:      map[string]string{"CATALOG_SOURCE": "DB", "CATALOG_SEED": "42", "CATALOG_SEED_DB": "true"},
			expected: CatalogConfig{Source: SourceDB, Seed: 42, HasSeed: true, SeedDB: true},
		},
		{
			name:    "invalid seed",
			env:     map[string]string{"CATALOG_SEED": "-1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"CATALOG_SOURCE", "CATALOG_FILE", "CATALOG_SEED", "CATALOG_SEED_DB"} {
				t.Setenv(k, tt.env[k])
			}

			cfg, err := LoadCatalogConfig()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg)
		})
	}
}

func noDB() (*gorm.DB, error) {
	return nil, errors.New("database should not be opened")
}

func TestNewDefinitionRepository_Static(t *testing.T) {
	t.Parallel()

	repo, err := NewDefinitionRepository(context.Background(), CatalogConfig{Source: SourceStatic}, noDB)
	require.NoError(t, err)

	countries, err := repo.ListActiveCountries(context.Background())
	require.NoError(t, err)
	assert.Len(t, countries, 4)
}

func TestNewDefinitionRepository_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := "countries:\n  - key: Brazil\n    index_name: Bovespa\n    covid_scale: 1200\n    case_noise: 900\n    stock_base: 110000\n    stock_volatility: 8000\nstocks: []\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	repo, err := NewDefinitionRepository(context.Background(), CatalogConfig{Source: SourceFile, File: path}, noDB)
	require.NoError(t, err)

	countries, err := repo.ListActiveCountries(context.Background())
	require.NoError(t, err)
	require.Len(t, countries, 1)
	assert.Equal(t, "Brazil", countries[0].Key)

	_, err = NewDefinitionRepository(context.Background(), CatalogConfig{Source: SourceFile}, noDB)
	assert.ErrorIs(t, err, ErrUnknownSource)
}

func TestNewDefinitionRepository_DB(t *testing.T) {
	t.Parallel()

	openDB := func() (*gorm.DB, error) {
		return gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	}

	repo, err := NewDefinitionRepository(context.Background(), CatalogConfig{Source: SourceDB, SeedDB: true}, openDB)
	require.NoError(t, err)

	stocks, err := repo.ListActiveStocks(context.Background())
	require.NoError(t, err)
	require.Len(t, stocks, 3)
	assert.Equal(t, "AAPL", stocks[0].Ticker)

	_, err = NewDefinitionRepository(context.Background(), CatalogConfig{Source: SourceDB}, noDB)
	assert.Error(t, err)
}

func TestNewDefinitionRepository_Unknown(t *testing.T) {
	t.Parallel()

	_, err := NewDefinitionRepository(context.Background(), CatalogConfig{Source: "s3"}, noDB)
	assert.ErrorIs(t, err, ErrUnknownSource)
}

func TestNewCatalog(t *testing.T) {
	t.Parallel()

	repo, err := NewDefinitionRepository(context.Background(), CatalogConfig{}, noDB)
	require.NoError(t, err)

	seeded := CatalogConfig{Source: SourceStatic, Seed: 7, HasSeed: true}
	a, err := NewCatalog(context.Background(), seeded, repo)
	require.NoError(t, err)
	b, err := NewCatalog(context.Background(), seeded, repo)
	require.NoError(t, err)

	dsA, err := a.FetchStockDataset("MSFT")
	require.NoError(t, err)
	dsB, err := b.FetchStockDataset("MSFT")
	require.NoError(t, err)
	assert.Equal(t, dsA, dsB)

	random, err := NewCatalog(context.Background(), CatalogConfig{Source: SourceStatic}, repo)
	require.NoError(t, err)
	assert.Equal(t, []string{"USA", "Germany", "Japan", "India"}, random.ListCountries())
}
