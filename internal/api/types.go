// Package api defines the JSON request and response bodies shared by the HTTP handlers.
package api

// ErrorResponse is returned for every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status    string `json:"status"`
	CatalogID string `json:"catalog_id"`
	BuiltAt   string `json:"built_at"`
	Countries int    `json:"countries"`
	Stocks    int    `json:"stocks"`
}

// SeriesPoint is one dated market value.
type SeriesPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// CovidPoint is one dated COVID sample.
type CovidPoint struct {
	Date   string `json:"date"`
	Cases  int    `json:"cases"`
	Deaths int    `json:"deaths"`
}

// CountryDatasetResponse is the body of GET /v1/countries/:key.
type CountryDatasetResponse struct {
	Country      string        `json:"country"`
	IndexName    string        `json:"index_name"`
	CovidSeries  []CovidPoint  `json:"covid_series"`
	MarketSeries []SeriesPoint `json:"market_series"`
}

// StockItem is an entry of GET /v1/stocks.
type StockItem struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

// StockDatasetResponse is the body of GET /v1/stocks/:ticker.
type StockDatasetResponse struct {
	Ticker       string        `json:"ticker"`
	Name         string        `json:"name"`
	PriceHistory []SeriesPoint `json:"price_history"`
}

// InsightResponse carries AI-generated text about a country or ticker.
type InsightResponse struct {
	Subject    string `json:"subject"`
	Kind       string `json:"kind"`
	PeriodDays int    `json:"period_days,omitempty"`
	Text       string `json:"text"`
}

// HelpRequest is the body of POST /v1/help.
type HelpRequest struct {
	Query string `json:"query" binding:"required"`
}

// HelpResponse is the answer of the help assistant.
type HelpResponse struct {
	Answer string `json:"answer"`
}

// ChatMessage is a single chat turn.
type ChatMessage struct {
	Role string `json:"role" binding:"required,oneof=user model"`
	Text string `json:"text"`
}

// ChatRequest is the body of POST /v1/chat. History holds the previous turns.
type ChatRequest struct {
	Message string        `json:"message" binding:"required"`
	History []ChatMessage `json:"history" binding:"omitempty,dive"`
}

// ChatResponse is the model reply to a chat message.
type ChatResponse struct {
	Reply ChatMessage `json:"reply"`
}
