// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"covid_market/internal/api"
	"covid_market/internal/feature/catalog/domain/entity"
)

// CatalogInfo はヘルスチェックで報告するカタログ情報です。
type CatalogInfo interface {
	ID() string
	BuiltAt() time.Time
	ListCountries() []string
	ListStocks() []entity.StockListing
}

// HealthHandler はサービスヘルスチェックを処理します。
type HealthHandler struct {
	catalog CatalogInfo
}

// NewHealthHandler はHealthHandlerを生成します。
func NewHealthHandler(catalog CatalogInfo) *HealthHandler {
	return &HealthHandler{catalog: catalog}
}

// Health はサービスヘルスチェック用の /healthz エンドポイントを処理します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
func (h *HealthHandler) Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, api.HealthResponse{
			Status:    "ok",
			CatalogID: h.catalog.ID(),
			BuiltAt:   h.catalog.BuiltAt().UTC().Format(time.RFC3339),
			Countries: len(h.catalog.ListCountries()),
			Stocks:    len(h.catalog.ListStocks()),
		})
	}
}
