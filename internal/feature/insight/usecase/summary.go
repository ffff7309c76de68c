package usecase

import (
	"math"

	catalogentity "covid_market/internal/feature/catalog/domain/entity"
	"covid_market/internal/feature/insight/domain/entity"
)

// monthOf returns the YYYY-MM prefix of a YYYY-MM-DD date.
func monthOf(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// SummarizeCountry は国データセットを月単位に集約します。
// 系列は日付順であることを前提とします。
func SummarizeCountry(ds catalogentity.CountryDataset) []entity.MonthSummary {
	n := min(len(ds.CovidSeries), len(ds.MarketSeries))
	var out []entity.MonthSummary
	for i := 0; i < n; i++ {
		m := monthOf(ds.CovidSeries[i].Date)
		if len(out) == 0 || out[len(out)-1].Month != m {
			out = append(out, entity.MonthSummary{Month: m})
		}
		cur := &out[len(out)-1]
		cur.Cases += ds.CovidSeries[i].Cases
		cur.Deaths += ds.CovidSeries[i].Deaths
		cur.MarketClose = ds.MarketSeries[i].Value
	}
	return out
}

// SummarizeStock は価格履歴の統計値と月末終値を計算します。
func SummarizeStock(ds catalogentity.StockDataset) entity.StockSummary {
	if len(ds.PriceHistory) == 0 {
		return entity.StockSummary{}
	}

	s := entity.StockSummary{
		First: ds.PriceHistory[0].Value,
		Last:  ds.PriceHistory[len(ds.PriceHistory)-1].Value,
		Min:   math.Inf(1),
		Max:   math.Inf(-1),
	}
	for _, p := range ds.PriceHistory {
		s.Min = math.Min(s.Min, p.Value)
		s.Max = math.Max(s.Max, p.Value)

		m := monthOf(p.Date)
		if len(s.Monthly) == 0 || s.Monthly[len(s.Monthly)-1].Month != m {
			s.Monthly = append(s.Monthly, entity.MonthClose{Month: m})
		}
		s.Monthly[len(s.Monthly)-1].Close = p.Value
	}
	if s.First != 0 {
		s.ChangePct = (s.Last - s.First) / s.First * 100
	}
	return s
}

// CasesMarketCorrelation returns the Pearson coefficient between daily cases
// and the market value. It is NaN when either series is constant or empty.
func CasesMarketCorrelation(ds catalogentity.CountryDataset) float64 {
	n := min(len(ds.CovidSeries), len(ds.MarketSeries))
	if n < 2 {
		return math.NaN()
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += float64(ds.CovidSeries[i].Cases)
		sumY += ds.MarketSeries[i].Value
	}
	meanX, meanY := sumX/float64(n), sumY/float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := float64(ds.CovidSeries[i].Cases) - meanX
		dy := ds.MarketSeries[i].Value - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(varX*varY)
}
