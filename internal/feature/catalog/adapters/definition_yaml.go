package adapters

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"covid_market/internal/feature/catalog/domain/entity"
	"covid_market/internal/feature/catalog/usecase"
)

// catalogFile is the on-disk layout of a catalog definition file.
//
//	countries:
//	  - key: USA
//	    index_name: S&P 500
//	    covid_scale: 1500
//	    case_noise: 1000
//	    stock_base: 4500
//	    stock_volatility: 3000
//	stocks:
//	  - ticker: AAPL
//	    name: Apple Inc.
//	    base_price: 150
//	    volatility: 50
type catalogFile struct {
	Countries []struct {
		Key             string  `yaml:"key"`
		IndexName       string  `yaml:"index_name"`
		CovidScale      float64 `yaml:"covid_scale"`
		CaseNoise       float64 `yaml:"case_noise"`
		StockBase       float64 `yaml:"stock_base"`
		StockVolatility float64 `yaml:"stock_volatility"`
		Active          *bool   `yaml:"active"`
		SortKey         *int    `yaml:"sort_key"`
	} `yaml:"countries"`
	Stocks []struct {
		Ticker     string  `yaml:"ticker"`
		Name       string  `yaml:"name"`
		BasePrice  float64 `yaml:"base_price"`
		Volatility float64 `yaml:"volatility"`
		Active     *bool   `yaml:"active"`
		SortKey    *int    `yaml:"sort_key"`
	} `yaml:"stocks"`
}

// yamlDefinitions serves definitions parsed from a YAML document.
type yamlDefinitions struct {
	countries []entity.CountryDefinition
	stocks    []entity.StockDefinition
}

var _ usecase.DefinitionRepository = (*yamlDefinitions)(nil)

// LoadYAMLDefinitions reads catalog definitions from a YAML file.
func LoadYAMLDefinitions(path string) (*yamlDefinitions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return ParseYAMLDefinitions(data)
}

// ParseYAMLDefinitions parses catalog definitions. Entries default to active,
// and a missing sort_key keeps the file order.
func ParseYAMLDefinitions(data []byte) (*yamlDefinitions, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}

	out := &yamlDefinitions{}
	for i, c := range f.Countries {
		if c.Key == "" {
			return nil, fmt.Errorf("parse catalog file: countries[%d]: key is required", i)
		}
		out.countries = append(out.countries, entity.CountryDefinition{
			Key:             c.Key,
			IndexName:       c.IndexName,
			CovidScale:      c.CovidScale,
			CaseNoise:       c.CaseNoise,
			StockBase:       c.StockBase,
			StockVolatility: c.StockVolatility,
			IsActive:        c.Active == nil || *c.Active,
			SortKey:         orDefault(c.SortKey, i),
		})
	}
	for i, s := range f.Stocks {
		if s.Ticker == "" {
			return nil, fmt.Errorf("parse catalog file: stocks[%d]: ticker is required", i)
		}
		out.stocks = append(out.stocks, entity.StockDefinition{
			Ticker:     s.Ticker,
			Name:       s.Name,
			BasePrice:  s.BasePrice,
			Volatility: s.Volatility,
			IsActive:   s.Active == nil || *s.Active,
			SortKey:    orDefault(s.SortKey, i),
		})
	}
	return out, nil
}

func (y *yamlDefinitions) ListActiveCountries(_ context.Context) ([]entity.CountryDefinition, error) {
	return activeCountries(y.countries), nil
}

func (y *yamlDefinitions) ListActiveStocks(_ context.Context) ([]entity.StockDefinition, error) {
	return activeStocks(y.stocks), nil
}

// All returns every definition in the file, including inactive ones.
func (y *yamlDefinitions) All() ([]entity.CountryDefinition, []entity.StockDefinition) {
	return append([]entity.CountryDefinition(nil), y.countries...), append([]entity.StockDefinition(nil), y.stocks...)
}

func orDefault(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
