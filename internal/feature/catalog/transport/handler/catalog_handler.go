// Package handler はcatalogフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"covid_market/internal/api"
	"covid_market/internal/feature/catalog/domain/entity"
	"covid_market/internal/feature/catalog/usecase"
)

// CatalogReader はデータセットカタログの読み取りインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type CatalogReader interface {
	ListCountries() []string
	ListStocks() []entity.StockListing
	FetchCountryDataset(key string) (entity.CountryDataset, error)
	FetchStockDataset(ticker string) (entity.StockDataset, error)
}

// CatalogHandler はカタログ参照のHTTPリクエストを処理します。
type CatalogHandler struct {
	catalog CatalogReader
}

// NewCatalogHandler は新しい CatalogHandler を作成します。
func NewCatalogHandler(catalog CatalogReader) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListCountries は国キーの一覧を返します。
//
// エンドポイント: GET /v1/countries
func (h *CatalogHandler) ListCountries(c *gin.Context) {
	countries := h.catalog.ListCountries()
	if countries == nil {
		countries = []string{}
	}
	c.JSON(http.StatusOK, countries)
}

// ListStocks は銘柄コードと表示名の一覧を返します。
//
// エンドポイント: GET /v1/stocks
func (h *CatalogHandler) ListStocks(c *gin.Context) {
	stocks := h.catalog.ListStocks()
	out := make([]api.StockItem, 0, len(stocks))
	for _, s := range stocks {
		out = append(out, api.StockItem{Ticker: s.Ticker, Name: s.Name})
	}
	c.JSON(http.StatusOK, out)
}

// GetCountry は国のCOVID系列と株価指数系列を返します。
//
// エンドポイント: GET /v1/countries/:key
func (h *CatalogHandler) GetCountry(c *gin.Context) {
	key := c.Param("key")
	ds, err := h.catalog.FetchCountryDataset(key)
	if err != nil {
		if errors.Is(err, usecase.ErrCountryNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "country not found"})
			return
		}
		slog.Error("failed to fetch country dataset", "country", key, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}

	resp := api.CountryDatasetResponse{
		Country:      key,
		IndexName:    ds.IndexName,
		CovidSeries:  make([]api.CovidPoint, 0, len(ds.CovidSeries)),
		MarketSeries: toSeries(ds.MarketSeries),
	}
	for _, p := range ds.CovidSeries {
		resp.CovidSeries = append(resp.CovidSeries, api.CovidPoint{Date: p.Date, Cases: p.Cases, Deaths: p.Deaths})
	}
	c.JSON(http.StatusOK, resp)
}

// GetStock は銘柄の価格履歴を返します。
//
// エンドポイント: GET /v1/stocks/:ticker
func (h *CatalogHandler) GetStock(c *gin.Context) {
	ticker := c.Param("ticker")
	ds, err := h.catalog.FetchStockDataset(ticker)
	if err != nil {
		if errors.Is(err, usecase.ErrStockNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "stock not found"})
			return
		}
		slog.Error("failed to fetch stock dataset", "ticker", ticker, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, api.StockDatasetResponse{
		Ticker:       ticker,
		Name:         ds.Name,
		PriceHistory: toSeries(ds.PriceHistory),
	})
}

func toSeries(points []entity.TimeSeriesPoint) []api.SeriesPoint {
	out := make([]api.SeriesPoint, 0, len(points))
	for _, p := range points {
		out = append(out, api.SeriesPoint{Date: p.Date, Value: p.Value})
	}
	return out
}
