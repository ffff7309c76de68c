package generator_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covid_market/internal/feature/catalog/domain/entity"
	"covid_market/internal/feature/catalog/generator"
)

// constSource は常に同じ値を返す乱数ソースです。
type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

var sp500 = generator.CountryParams{
	IndexName:       "S&P 500",
	CovidScale:      1500,
	CaseNoise:       1000,
	StockBase:       4500,
	StockVolatility: 3000,
}

var apple = generator.StockParams{Name: "Apple Inc.", BasePrice: 150, Volatility: 50}

// assertConsecutiveDates は日付が開始日から1日ずつ増加していることを検証します。
func assertConsecutiveDates(t *testing.T, start time.Time, dates []string) {
	t.Helper()
	for i, d := range dates {
		want := start.AddDate(0, 0, i).Format(entity.DateLayout)
		if d != want {
			t.Fatalf("date[%d] = %q, want %q", i, d, want)
		}
	}
}

func TestCountryDataset_Scenario(t *testing.T) {
	t.Parallel()

	ds, err := generator.NewSeeded(1).CountryDataset(sp500)
	require.NoError(t, err)

	assert.Equal(t, "S&P 500", ds.IndexName)
	require.Len(t, ds.CovidSeries, 730)
	require.Len(t, ds.MarketSeries, 730)
	assert.Equal(t, "2020-01-01", ds.CovidSeries[0].Date)
	assert.Equal(t, "2021-12-30", ds.CovidSeries[729].Date)
	assert.Equal(t, "2021-12-30", ds.MarketSeries[729].Date)

	dates := make([]string, 0, len(ds.CovidSeries))
	for i, p := range ds.CovidSeries {
		assert.Equal(t, p.Date, ds.MarketSeries[i].Date, "series misaligned at %d", i)
		assert.GreaterOrEqual(t, p.Cases, 0)
		assert.GreaterOrEqual(t, p.Deaths, 0)
		assert.LessOrEqual(t, p.Deaths, p.Cases)
		assert.Greater(t, ds.MarketSeries[i].Value, 0.0)
		dates = append(dates, p.Date)
	}
	assertConsecutiveDates(t, generator.DefaultCountryStart, dates)
}

func TestStockDataset_Scenario(t *testing.T) {
	t.Parallel()

	ds, err := generator.NewSeeded(7).StockDataset(apple)
	require.NoError(t, err)

	assert.Equal(t, "Apple Inc.", ds.Name)
	require.Len(t, ds.PriceHistory, 730)
	assert.Equal(t, "2022-01-01", ds.PriceHistory[0].Date)
	assert.Equal(t, "2023-12-31", ds.PriceHistory[729].Date)

	dates := make([]string, 0, len(ds.PriceHistory))
	for _, p := range ds.PriceHistory {
		assert.Greater(t, p.Value, 0.0)
		dates = append(dates, p.Date)
	}
	assertConsecutiveDates(t, generator.DefaultStockStart, dates)
}

func TestCountryDataset_DipAndRecoveryShape(t *testing.T) {
	t.Parallel()

	// 0.5 makes the market noise exactly zero
	ds, err := generator.New(constSource(0.5)).CountryDataset(sp500)
	require.NoError(t, err)

	for i, p := range ds.MarketSeries {
		want := math.Round(sp500.StockBase*generator.Dip(i)*generator.Recovery(i, 730)*100) / 100
		require.InDelta(t, want, p.Value, 1e-9, "day %d", i)
	}

	day0 := ds.MarketSeries[0].Value
	day60 := ds.MarketSeries[60].Value
	assert.Less(t, day60, day0*generator.Recovery(60, 730))
	assert.Less(t, day60, day0)
	assert.Greater(t, ds.MarketSeries[729].Value, day0)
	assert.Greater(t, ds.MarketSeries[729].Value, ds.MarketSeries[365].Value)
}

func TestCountryDataset_CasesFollowWaves(t *testing.T) {
	t.Parallel()

	// with zero noise cases are the floor of the wave average times the scale
	ds, err := generator.New(constSource(0)).CountryDataset(generator.CountryParams{
		IndexName: "X", CovidScale: 1000, CaseNoise: 500, StockBase: 100, StockVolatility: 0,
	})
	require.NoError(t, err)

	assert.InDelta(t, 400, ds.CovidSeries[0].Cases, 1) // (0.5 + 0.3) / 2 * 1000
	for i, p := range ds.CovidSeries {
		wave1 := math.Sin(float64(i)/365*2*math.Pi)*0.5 + 0.5
		wave2 := math.Sin(float64(i)/180*2*math.Pi)*0.3 + 0.3
		assert.InDelta(t, (wave1+wave2)/2*1000, float64(p.Cases), 1, "day %d", i)
		assert.Equal(t, int(math.Floor(float64(p.Cases)*0.02)), p.Deaths)
	}
}

func TestCountryDataset_RejectsNonPositiveQuotes(t *testing.T) {
	t.Parallel()

	// noise of -vol/2 pushes every quote below zero
	ds, err := generator.New(constSource(0)).CountryDataset(generator.CountryParams{
		IndexName: "Crash", CovidScale: 10, CaseNoise: 0, StockBase: 100, StockVolatility: 1000,
	})
	require.NoError(t, err)

	want := math.Round(100*generator.Dip(0)*100) / 100
	for i, p := range ds.MarketSeries {
		require.Equal(t, want, p.Value, "day %d", i)
	}
}

func TestStockDataset_PriceFloor(t *testing.T) {
	t.Parallel()

	// the lowest noise drags the walk down until every further step is rejected
	ds, err := generator.New(constSource(0)).StockDataset(apple)
	require.NoError(t, err)

	for _, p := range ds.PriceHistory {
		require.Greater(t, p.Value, 0.0)
	}
	assert.Equal(t, ds.PriceHistory[728].Value, ds.PriceHistory[729].Value)
	assert.Less(t, ds.PriceHistory[729].Value, apple.BasePrice)
}

func TestStockDataset_UpwardDrift(t *testing.T) {
	t.Parallel()

	// 0.49 cancels the noise, leaving the 0.05% daily trend
	ds, err := generator.New(constSource(0.49)).StockDataset(apple)
	require.NoError(t, err)

	want := math.Round(apple.BasePrice*math.Pow(1.0005, 730)*100) / 100
	assert.InDelta(t, want, ds.PriceHistory[729].Value, 0.01)
	for i := 1; i < len(ds.PriceHistory); i++ {
		assert.GreaterOrEqual(t, ds.PriceHistory[i].Value, ds.PriceHistory[i-1].Value)
	}
}

func TestNewSeeded_Reproducible(t *testing.T) {
	t.Parallel()

	a, err := generator.NewSeeded(42).CountryDataset(sp500)
	require.NoError(t, err)
	b, err := generator.NewSeeded(42).CountryDataset(sp500)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := generator.NewSeeded(43).CountryDataset(sp500)
	require.NoError(t, err)
	assert.NotEqual(t, a.MarketSeries, c.MarketSeries)
}

func TestNewWithConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     generator.Source
		cfg     generator.Config
		wantErr bool
	}{
		{name: "success: custom length", src: constSource(0.5), cfg: generator.Config{Days: 10}},
		{name: "error: zero days", src: constSource(0.5), cfg: generator.Config{Days: 0}, wantErr: true},
		{name: "error: negative days", src: constSource(0.5), cfg: generator.Config{Days: -5}, wantErr: true},
		{name: "error: nil source", src: nil, cfg: generator.Config{Days: 10}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g, err := generator.NewWithConfig(tt.src, tt.cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, generator.ErrInvalidParameter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cfg.Days, g.Days())

			ds, err := g.StockDataset(apple)
			require.NoError(t, err)
			assert.Len(t, ds.PriceHistory, tt.cfg.Days)
			assert.Equal(t, "2022-01-01", ds.PriceHistory[0].Date)
		})
	}
}

func TestGenerator_Validation(t *testing.T) {
	t.Parallel()

	g := generator.New(constSource(0.5))

	countryCases := []struct {
		name   string
		mutate func(p *generator.CountryParams)
	}{
		{name: "empty index name", mutate: func(p *generator.CountryParams) { p.IndexName = " " }},
		{name: "negative covid scale", mutate: func(p *generator.CountryParams) { p.CovidScale = -1 }},
		{name: "negative case noise", mutate: func(p *generator.CountryParams) { p.CaseNoise = -1 }},
		{name: "zero stock base", mutate: func(p *generator.CountryParams) { p.StockBase = 0 }},
		{name: "NaN stock base", mutate: func(p *generator.CountryParams) { p.StockBase = math.NaN() }},
		{name: "negative volatility", mutate: func(p *generator.CountryParams) { p.StockVolatility = -3 }},
		{name: "+Inf covid scale", mutate: func(p *generator.CountryParams) { p.CovidScale = math.Inf(1) }},
		{name: "huge covid scale", mutate: func(p *generator.CountryParams) { p.CovidScale = math.MaxFloat64 }},
		{name: "+Inf case noise", mutate: func(p *generator.CountryParams) { p.CaseNoise = math.Inf(1) }},
		{name: "case noise above max", mutate: func(p *generator.CountryParams) { p.CaseNoise = generator.MaxCaseScale * 2 }},
		{name: "+Inf stock base", mutate: func(p *generator.CountryParams) { p.StockBase = math.Inf(1) }},
		{name: "-Inf stock base", mutate: func(p *generator.CountryParams) { p.StockBase = math.Inf(-1) }},
		{name: "huge stock base", mutate: func(p *generator.CountryParams) { p.StockBase = math.MaxFloat64 }},
		{name: "+Inf volatility", mutate: func(p *generator.CountryParams) { p.StockVolatility = math.Inf(1) }},
		{name: "NaN volatility", mutate: func(p *generator.CountryParams) { p.StockVolatility = math.NaN() }},
		{name: "huge volatility", mutate: func(p *generator.CountryParams) { p.StockVolatility = math.MaxFloat64 }},
	}
	for _, tc := range countryCases {
		t.Run("country: "+tc.name, func(t *testing.T) {
			p := sp500
			tc.mutate(&p)
			_, err := g.CountryDataset(p)
			if !errors.Is(err, generator.ErrInvalidParameter) {
				t.Fatalf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}

	stockCases := []struct {
		name   string
		mutate func(p *generator.StockParams)
	}{
		{name: "empty name", mutate: func(p *generator.StockParams) { p.Name = "" }},
		{name: "negative base price", mutate: func(p *generator.StockParams) { p.BasePrice = -150 }},
		{name: "base price below minimum", mutate: func(p *generator.StockParams) { p.BasePrice = 0.001 }},
		{name: "negative volatility", mutate: func(p *generator.StockParams) { p.Volatility = -1 }},
		{name: "+Inf base price", mutate: func(p *generator.StockParams) { p.BasePrice = math.Inf(1) }},
		{name: "huge base price", mutate: func(p *generator.StockParams) { p.BasePrice = math.MaxFloat64 }},
		{name: "NaN volatility", mutate: func(p *generator.StockParams) { p.Volatility = math.NaN() }},
		{name: "+Inf volatility", mutate: func(p *generator.StockParams) { p.Volatility = math.Inf(1) }},
		{name: "huge volatility", mutate: func(p *generator.StockParams) { p.Volatility = math.MaxFloat64 }},
	}
	for _, tc := range stockCases {
		t.Run("stock: "+tc.name, func(t *testing.T) {
			p := apple
			tc.mutate(&p)
			_, err := g.StockDataset(p)
			if !errors.Is(err, generator.ErrInvalidParameter) {
				t.Fatalf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestGenerator_UpperBoundsStayFinite(t *testing.T) {
	t.Parallel()

	for _, v := range []float64{0, 0.999} {
		g := generator.New(constSource(v))

		country, err := g.CountryDataset(generator.CountryParams{
			IndexName:       "Max",
			CovidScale:      generator.MaxCaseScale,
			CaseNoise:       generator.MaxCaseScale,
			StockBase:       generator.MaxPrice,
			StockVolatility: generator.MaxPrice,
		})
		require.NoError(t, err)
		for i, c := range country.CovidSeries {
			if c.Cases < 0 || c.Cases > math.MaxInt32 || c.Deaths < 0 {
				t.Fatalf("covid[%d] out of range: %+v", i, c)
			}
		}
		for i, m := range country.MarketSeries {
			if math.IsInf(m.Value, 0) || math.IsNaN(m.Value) || m.Value <= 0 {
				t.Fatalf("market[%d] = %v, want finite positive", i, m.Value)
			}
		}

		stock, err := g.StockDataset(generator.StockParams{
			Name:       "Max",
			BasePrice:  generator.MaxPrice,
			Volatility: generator.MaxPrice,
		})
		require.NoError(t, err)
		for i, p := range stock.PriceHistory {
			if math.IsInf(p.Value, 0) || math.IsNaN(p.Value) || p.Value <= 0 {
				t.Fatalf("price[%d] = %v, want finite positive", i, p.Value)
			}
		}
	}
}
