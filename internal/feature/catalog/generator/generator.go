// Package generator synthesizes the daily COVID, market index and stock
// series served by the catalog.
package generator

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"covid_market/internal/feature/catalog/domain/entity"
)

const (
	// DefaultDays is the length of every generated series (two years).
	DefaultDays = 365 * 2
	// MinPrice is the smallest base price or index level accepted.
	MinPrice = 0.01
	// MaxPrice bounds base prices, index levels and volatilities.
	MaxPrice = 1e12
	// MaxCaseScale bounds CovidScale and CaseNoise so daily case counts fit in an int32.
	MaxCaseScale = 1e9

	stockTrend = 0.0005

	dipCenter   = 60.0
	dipWidth    = 40.0
	dipDepth    = 0.4
	recoveryMax = 0.3
)

var (
	// DefaultCountryStart is the first day of every country dataset.
	DefaultCountryStart = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	// DefaultStockStart is the first day of every single-stock dataset.
	DefaultStockStart = time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// ErrInvalidParameter is returned when generator inputs would produce a degenerate series.
var ErrInvalidParameter = errors.New("invalid generator parameter")

// Source supplies uniform random numbers in [0, 1).
// *rand.Rand satisfies it; tests substitute a constant source.
type Source interface {
	Float64() float64
}

// Config controls series length and anchor dates.
type Config struct {
	Days         int
	CountryStart time.Time
	StockStart   time.Time
}

// DefaultConfig returns the two-year configuration used by the dashboard.
func DefaultConfig() Config {
	return Config{
		Days:         DefaultDays,
		CountryStart: DefaultCountryStart,
		StockStart:   DefaultStockStart,
	}
}

// CountryParams are the inputs of a country dataset.
type CountryParams struct {
	IndexName       string
	CovidScale      float64
	CaseNoise       float64
	StockBase       float64
	StockVolatility float64
}

// StockParams are the inputs of a single-stock dataset.
type StockParams struct {
	Name       string
	BasePrice  float64
	Volatility float64
}

// Generator produces synthetic datasets from a random source.
// It is not safe for concurrent use because the source is not.
type Generator struct {
	src Source
	cfg Config
}

// New returns a Generator using the default configuration.
func New(src Source) *Generator {
	return &Generator{src: src, cfg: DefaultConfig()}
}

// NewSeeded returns a Generator backed by a PCG source, so the same seed
// always yields the same datasets.
func NewSeeded(seed uint64) *Generator {
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// NewWithConfig returns a Generator with a custom series length or anchors.
func NewWithConfig(src Source, cfg Config) (*Generator, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: random source is nil", ErrInvalidParameter)
	}
	if cfg.Days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive, got %d", ErrInvalidParameter, cfg.Days)
	}
	if cfg.CountryStart.IsZero() {
		cfg.CountryStart = DefaultCountryStart
	}
	if cfg.StockStart.IsZero() {
		cfg.StockStart = DefaultStockStart
	}
	return &Generator{src: src, cfg: cfg}, nil
}

// Days returns the number of points per series.
func (g *Generator) Days() int {
	return g.cfg.Days
}

// CountryDataset builds aligned COVID and market series: two superimposed
// seasonal waves drive the case count, and a Gaussian dip around day 60
// combined with a linear recovery shapes the market index.
func (g *Generator) CountryDataset(p CountryParams) (entity.CountryDataset, error) {
	if err := p.validate(); err != nil {
		return entity.CountryDataset{}, err
	}

	n := g.cfg.Days
	covid := make([]entity.CovidPoint, 0, n)
	market := make([]entity.TimeSeriesPoint, 0, n)

	var prev float64
	for i := 0; i < n; i++ {
		date := g.cfg.CountryStart.AddDate(0, 0, i).Format(entity.DateLayout)

		wave1 := math.Sin(float64(i)/365*2*math.Pi)*0.5 + 0.5
		wave2 := math.Sin(float64(i)/180*2*math.Pi)*0.3 + 0.3
		cases := max(0, int(math.Floor((wave1+wave2)/2*p.CovidScale+g.uniform(0, p.CaseNoise))))
		deaths := max(0, int(math.Floor(float64(cases)*(0.02+g.uniform(0, 0.01)))))

		envelope := p.StockBase * Dip(i) * Recovery(i, n)
		value := round2(envelope + g.uniform(-p.StockVolatility/2, p.StockVolatility/2))
		if value <= 0 {
			// a non-positive quote is rejected and the previous one carried forward
			value = prev
			if i == 0 {
				value = round2(envelope)
			}
		}
		prev = value

		covid = append(covid, entity.CovidPoint{Date: date, Cases: cases, Deaths: deaths})
		market = append(market, entity.TimeSeriesPoint{Date: date, Value: value})
	}

	return entity.CountryDataset{
		IndexName:    p.IndexName,
		CovidSeries:  covid,
		MarketSeries: market,
	}, nil
}

// StockDataset builds a random walk with a slight upward drift. Steps that
// would produce a non-positive price are dropped and the last price kept.
func (g *Generator) StockDataset(p StockParams) (entity.StockDataset, error) {
	if err := p.validate(); err != nil {
		return entity.StockDataset{}, err
	}

	n := g.cfg.Days
	history := make([]entity.TimeSeriesPoint, 0, n)
	last := p.BasePrice
	for i := 0; i < n; i++ {
		date := g.cfg.StockStart.AddDate(0, 0, i).Format(entity.DateLayout)

		noise := g.uniform(-0.49, 0.51) * p.Volatility / 20
		next := last*(1+stockTrend) + noise
		if round2(next) > 0 {
			last = next
		}

		history = append(history, entity.TimeSeriesPoint{Date: date, Value: round2(last)})
	}

	return entity.StockDataset{Name: p.Name, PriceHistory: history}, nil
}

// Dip is the multiplicative market dip for day i. It bottoms out at 0.6 on
// day 60 and relaxes toward 1 away from it.
func Dip(i int) float64 {
	d := float64(i) - dipCenter
	return 1 - dipDepth*math.Exp(-(d*d)/(2*dipWidth*dipWidth))
}

// Recovery is the linear growth factor for day i of an n-day series.
func Recovery(i, n int) float64 {
	return 1 + float64(i)/float64(n)*recoveryMax
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.src.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (p CountryParams) validate() error {
	if strings.TrimSpace(p.IndexName) == "" {
		return fmt.Errorf("%w: index name is required", ErrInvalidParameter)
	}
	if err := checkRange("covid scale", p.CovidScale, 0, MaxCaseScale); err != nil {
		return err
	}
	if err := checkRange("case noise", p.CaseNoise, 0, MaxCaseScale); err != nil {
		return err
	}
	if err := checkRange("stock base", p.StockBase, MinPrice, MaxPrice); err != nil {
		return err
	}
	return checkRange("stock volatility", p.StockVolatility, 0, MaxPrice)
}

func (p StockParams) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: stock name is required", ErrInvalidParameter)
	}
	if err := checkRange("base price", p.BasePrice, MinPrice, MaxPrice); err != nil {
		return err
	}
	return checkRange("volatility", p.Volatility, 0, MaxPrice)
}

// checkRange rejects NaN, ±Inf and anything outside [lo, hi].
func checkRange(name string, v, lo, hi float64) error {
	if !(v >= lo && v <= hi) {
		return fmt.Errorf("%w: %s must be within [%v, %v], got %v", ErrInvalidParameter, name, lo, hi, v)
	}
	return nil
}
