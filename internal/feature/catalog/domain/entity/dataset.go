// Package entity defines the domain models for the catalog feature.
package entity

// DateLayout is the calendar-day format used by every series point.
const DateLayout = "2006-01-02"

// TimeSeriesPoint is a single daily sample of a market index or stock price.
type TimeSeriesPoint struct {
	Date  string  // YYYY-MM-DD
	Value float64 // rounded to 2 decimals
}

// CovidPoint is a single day of synthetic COVID figures.
type CovidPoint struct {
	Date   string
	Cases  int
	Deaths int
}

// CountryDataset pairs a COVID series with a market index series.
// Point i of both series refers to the same calendar day.
type CountryDataset struct {
	IndexName    string
	CovidSeries  []CovidPoint
	MarketSeries []TimeSeriesPoint
}

// StockDataset is the price history of a single ticker.
type StockDataset struct {
	Name         string
	PriceHistory []TimeSeriesPoint
}

// StockListing is a ticker together with its display name.
type StockListing struct {
	Ticker string
	Name   string
}

// Clone returns a deep copy so callers cannot mutate catalog-owned slices.
func (d CountryDataset) Clone() CountryDataset {
	return CountryDataset{
		IndexName:    d.IndexName,
		CovidSeries:  append([]CovidPoint(nil), d.CovidSeries...),
		MarketSeries: append([]TimeSeriesPoint(nil), d.MarketSeries...),
	}
}

// Clone returns a deep copy so callers cannot mutate catalog-owned slices.
func (d StockDataset) Clone() StockDataset {
	return StockDataset{
		Name:         d.Name,
		PriceHistory: append([]TimeSeriesPoint(nil), d.PriceHistory...),
	}
}
