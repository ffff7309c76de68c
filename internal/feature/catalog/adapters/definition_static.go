// Package adapters はcatalogフィーチャーの定義リポジトリ実装を提供します。
package adapters

import (
	"context"

	"covid_market/internal/feature/catalog/domain/entity"
	"covid_market/internal/feature/catalog/usecase"
)

// DefaultCountries are the built-in country definitions shown by the dashboard.
var DefaultCountries = []entity.CountryDefinition{
	{Key: "USA", IndexName: "S&P 500", CovidScale: 1500, CaseNoise: 1000, StockBase: 4500, StockVolatility: 3000, IsActive: true, SortKey: 1},
	{Key: "Germany", IndexName: "DAX", CovidScale: 800, CaseNoise: 8000, StockBase: 15000, StockVolatility: 12000, IsActive: true, SortKey: 2},
	{Key: "Japan", IndexName: "Nikkei 225", CovidScale: 500, CaseNoise: 7000, StockBase: 30000, StockVolatility: 25000, IsActive: true, SortKey: 3},
	{Key: "India", IndexName: "NIFTY 50", CovidScale: 2000, CaseNoise: 1500, StockBase: 18000, StockVolatility: 4000, IsActive: true, SortKey: 4},
}

// DefaultStocks are the built-in single-stock definitions.
var DefaultStocks = []entity.StockDefinition{
	{Ticker: "AAPL", Name: "Apple Inc.", BasePrice: 150, Volatility: 50, IsActive: true, SortKey: 1},
	{Ticker: "GOOGL", Name: "Alphabet Inc.", BasePrice: 2500, Volatility: 800, IsActive: true, SortKey: 2},
	{Ticker: "MSFT", Name: "Microsoft Corp.", BasePrice: 300, Volatility: 100, IsActive: true, SortKey: 3},
}

// staticDefinitions serves the built-in definitions.
type staticDefinitions struct {
	countries []entity.CountryDefinition
	stocks    []entity.StockDefinition
}

var _ usecase.DefinitionRepository = (*staticDefinitions)(nil)

// NewStaticDefinitions returns the built-in catalog definitions.
func NewStaticDefinitions() *staticDefinitions {
	return &staticDefinitions{countries: DefaultCountries, stocks: DefaultStocks}
}

func (s *staticDefinitions) ListActiveCountries(_ context.Context) ([]entity.CountryDefinition, error) {
	return activeCountries(s.countries), nil
}

func (s *staticDefinitions) ListActiveStocks(_ context.Context) ([]entity.StockDefinition, error) {
	return activeStocks(s.stocks), nil
}
