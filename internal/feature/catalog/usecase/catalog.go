package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"covid_market/internal/feature/catalog/domain/entity"
	"covid_market/internal/feature/catalog/generator"
)

// DefinitionRepository は銘柄・国の生成定義を読み込むリポジトリです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type DefinitionRepository interface {
	// ListActiveCountries はsort_key順に有効な国定義を返します。
	ListActiveCountries(ctx context.Context) ([]entity.CountryDefinition, error)
	// ListActiveStocks はsort_key順に有効な銘柄定義を返します。
	ListActiveStocks(ctx context.Context) ([]entity.StockDefinition, error)
}

// DatasetGenerator synthesizes datasets from generator parameters.
type DatasetGenerator interface {
	CountryDataset(p generator.CountryParams) (entity.CountryDataset, error)
	StockDataset(p generator.StockParams) (entity.StockDataset, error)
}

// Catalog holds every dataset generated at startup. It is never mutated
// after BuildCatalog returns, so it is safe for concurrent readers.
type Catalog struct {
	id        string
	builtAt   time.Time
	countries []string
	stocks    []entity.StockListing
	byCountry map[string]entity.CountryDataset
	byTicker  map[string]entity.StockDataset
}

// BuildCatalog reads the active definitions and generates one dataset per
// country and ticker, in definition order.
func BuildCatalog(ctx context.Context, repo DefinitionRepository, gen DatasetGenerator) (*Catalog, error) {
	countryDefs, err := repo.ListActiveCountries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load country definitions: %w", err)
	}
	stockDefs, err := repo.ListActiveStocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stock definitions: %w", err)
	}
	if len(countryDefs) == 0 && len(stockDefs) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		id:        uuid.NewString(),
		builtAt:   time.Now().UTC(),
		countries: make([]string, 0, len(countryDefs)),
		stocks:    make([]entity.StockListing, 0, len(stockDefs)),
		byCountry: make(map[string]entity.CountryDataset, len(countryDefs)),
		byTicker:  make(map[string]entity.StockDataset, len(stockDefs)),
	}

	for _, d := range countryDefs {
		if _, ok := c.byCountry[d.Key]; ok {
			return nil, fmt.Errorf("%w: country %q", ErrDuplicateKey, d.Key)
		}
		ds, err := gen.CountryDataset(generator.CountryParams{
			IndexName:       d.IndexName,
			CovidScale:      d.CovidScale,
			CaseNoise:       d.CaseNoise,
			StockBase:       d.StockBase,
			StockVolatility: d.StockVolatility,
		})
		if err != nil {
			return nil, fmt.Errorf("generate country %q: %w", d.Key, err)
		}
		c.countries = append(c.countries, d.Key)
		c.byCountry[d.Key] = ds
	}

	for _, d := range stockDefs {
		if _, ok := c.byTicker[d.Ticker]; ok {
			return nil, fmt.Errorf("%w: ticker %q", ErrDuplicateKey, d.Ticker)
		}
		ds, err := gen.StockDataset(generator.StockParams{
			Name:       d.Name,
			BasePrice:  d.BasePrice,
			Volatility: d.Volatility,
		})
		if err != nil {
			return nil, fmt.Errorf("generate stock %q: %w", d.Ticker, err)
		}
		c.stocks = append(c.stocks, entity.StockListing{Ticker: d.Ticker, Name: d.Name})
		c.byTicker[d.Ticker] = ds
	}

	slog.Info("catalog built", "catalog_id", c.id, "countries", len(c.countries), "stocks", len(c.stocks))
	return c, nil
}

// ID identifies this catalog build. Datasets differ between builds unless the seed is fixed.
func (c *Catalog) ID() string {
	return c.id
}

// BuiltAt returns when the catalog was generated.
func (c *Catalog) BuiltAt() time.Time {
	return c.builtAt
}

// ListCountries returns the country keys in definition order.
func (c *Catalog) ListCountries() []string {
	return append([]string(nil), c.countries...)
}

// ListStocks returns the tickers and display names in definition order.
func (c *Catalog) ListStocks() []entity.StockListing {
	return append([]entity.StockListing(nil), c.stocks...)
}

// FetchCountryDataset returns a copy of the dataset for a country key.
func (c *Catalog) FetchCountryDataset(key string) (entity.CountryDataset, error) {
	ds, ok := c.byCountry[key]
	if !ok {
		return entity.CountryDataset{}, fmt.Errorf("%w: %q", ErrCountryNotFound, key)
	}
	return ds.Clone(), nil
}

// FetchStockDataset returns a copy of the dataset for a ticker.
func (c *Catalog) FetchStockDataset(ticker string) (entity.StockDataset, error) {
	ds, ok := c.byTicker[ticker]
	if !ok {
		return entity.StockDataset{}, fmt.Errorf("%w: %q", ErrStockNotFound, ticker)
	}
	return ds.Clone(), nil
}
