package usecase

import (
	"fmt"
	"math"
	"strings"

	catalogentity "covid_market/internal/feature/catalog/domain/entity"
)

const (
	correlationInstruction = "You are a financial data analyst. Using the synthetic data below, analyse how the COVID-19 waves relate to the performance of the %s in %s. " +
		"Point out the market dip, the recovery and whether case peaks line up with market weakness. Answer in at most three short paragraphs."

	indexPredictionInstruction = "You are a market strategist. Based on the synthetic history below, give a brief speculative outlook for the %s (%s) over the next 30 days, " +
		"with the main drivers and risks. State clearly that this is not financial advice."

	stockPredictionInstruction = "You are an equity analyst. Based on the synthetic price history below, give a brief speculative forecast for %s (%s) over the next %d days, " +
		"including an expected price range. State clearly that this is not financial advice."

	helpInstruction = "You are the help assistant of a dashboard that shows synthetic COVID-19 and stock market data. " +
		"The dashboard has a correlation view with COVID and index charts plus AI analysis and index prediction, a single-stock predictor with a selectable prediction period, " +
		"and a general chatbot. Answer the user's question about using the dashboard concisely.\n\nQuestion: %s"
)

func buildCorrelationPrompt(country string, ds catalogentity.CountryDataset) string {
	var b strings.Builder
	fmt.Fprintf(&b, correlationInstruction, ds.IndexName, country)
	b.WriteString("\n\n")
	writeCountryData(&b, country, ds)
	return b.String()
}

func buildIndexPredictionPrompt(country string, ds catalogentity.CountryDataset) string {
	var b strings.Builder
	fmt.Fprintf(&b, indexPredictionInstruction, ds.IndexName, country)
	b.WriteString("\n\n")
	writeCountryData(&b, country, ds)
	return b.String()
}

func buildStockPredictionPrompt(ticker string, ds catalogentity.StockDataset, periodDays int) string {
	s := SummarizeStock(ds)

	var b strings.Builder
	fmt.Fprintf(&b, stockPredictionInstruction, ds.Name, ticker, periodDays)
	b.WriteString("\n\n")
	if n := len(ds.PriceHistory); n > 0 {
		fmt.Fprintf(&b, "Period: %s to %s\n", ds.PriceHistory[0].Date, ds.PriceHistory[n-1].Date)
	}
	fmt.Fprintf(&b, "First: %.2f, Last: %.2f, Min: %.2f, Max: %.2f, Change: %+.1f%%\n", s.First, s.Last, s.Min, s.Max, s.ChangePct)
	b.WriteString("Month,Close\n")
	for _, m := range s.Monthly {
		fmt.Fprintf(&b, "%s,%.2f\n", m.Month, m.Close)
	}
	return b.String()
}

func buildHelpPrompt(query string) string {
	return fmt.Sprintf(helpInstruction, query)
}

func writeCountryData(b *strings.Builder, country string, ds catalogentity.CountryDataset) {
	if n := len(ds.CovidSeries); n > 0 {
		fmt.Fprintf(b, "Country: %s, index: %s, period: %s to %s\n", country, ds.IndexName, ds.CovidSeries[0].Date, ds.CovidSeries[n-1].Date)
	}
	if r := CasesMarketCorrelation(ds); !math.IsNaN(r) {
		fmt.Fprintf(b, "Pearson correlation of daily cases and index level: %.3f\n", r)
	}
	b.WriteString("Month,Cases,Deaths,IndexClose\n")
	for _, m := range SummarizeCountry(ds) {
		fmt.Fprintf(b, "%s,%d,%d,%.2f\n", m.Month, m.Cases, m.Deaths, m.MarketClose)
	}
}
