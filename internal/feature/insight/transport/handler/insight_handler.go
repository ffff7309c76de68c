// Package handler はinsightフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"covid_market/internal/api"
	"covid_market/internal/feature/insight/domain/entity"
	"covid_market/internal/feature/insight/usecase"
)

// InsightUsecase はAI分析のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type InsightUsecase interface {
	AnalyzeCorrelation(ctx context.Context, country string) (*entity.Insight, error)
	PredictIndex(ctx context.Context, country string) (*entity.Insight, error)
	PredictStock(ctx context.Context, ticker string, periodDays int) (*entity.Insight, error)
	Help(ctx context.Context, query string) (string, error)
}

// InsightHandler はAI分析のHTTPリクエストを処理します。
type InsightHandler struct {
	uc InsightUsecase
}

// NewInsightHandler はInsightHandlerの新しいインスタンスを生成します。
func NewInsightHandler(uc InsightUsecase) *InsightHandler {
	return &InsightHandler{uc: uc}
}

// AnalyzeCorrelation はCOVIDと株価指数の相関分析を返します。
//
// エンドポイント: POST /v1/insights/countries/:key/analysis
func (h *InsightHandler) AnalyzeCorrelation(c *gin.Context) {
	key := c.Param("key")
	insight, err := h.uc.AnalyzeCorrelation(c.Request.Context(), key)
	if err != nil {
		writeError(c, err, "correlation analysis failed", "country", key)
		return
	}
	c.JSON(http.StatusOK, toResponse(insight))
}

// PredictIndex は株価指数の見通しを返します。
//
// エンドポイント: POST /v1/insights/countries/:key/prediction
func (h *InsightHandler) PredictIndex(c *gin.Context) {
	key := c.Param("key")
	insight, err := h.uc.PredictIndex(c.Request.Context(), key)
	if err != nil {
		writeError(c, err, "index prediction failed", "country", key)
		return
	}
	c.JSON(http.StatusOK, toResponse(insight))
}

// PredictStock は銘柄の価格予測を返します。
//
// エンドポイント: POST /v1/insights/stocks/:ticker/prediction?period=30
func (h *InsightHandler) PredictStock(c *gin.Context) {
	ticker := c.Param("ticker")

	var period int
	if err := runtime.BindQueryParameter("form", true, false, "period", c.Request.URL.Query(), &period); err != nil {
		slog.Warn("invalid period parameter", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "period must be an integer"})
		return
	}

	insight, err := h.uc.PredictStock(c.Request.Context(), ticker, period)
	if err != nil {
		writeError(c, err, "stock prediction failed", "ticker", ticker)
		return
	}
	c.JSON(http.StatusOK, toResponse(insight))
}

// Help はダッシュボードのヘルプ質問に回答します。
//
// エンドポイント: POST /v1/help
func (h *InsightHandler) Help(c *gin.Context) {
	var req api.HelpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("help request validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "query is required"})
		return
	}

	answer, err := h.uc.Help(c.Request.Context(), req.Query)
	if err != nil {
		writeError(c, err, "help request failed")
		return
	}
	c.JSON(http.StatusOK, api.HelpResponse{Answer: answer})
}

// writeError はユースケースのエラーをHTTPステータスに変換します。
func writeError(c *gin.Context, err error, msg string, attrs ...any) {
	attrs = append(attrs, "error", err)
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		slog.Warn(msg, attrs...)
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "not found"})
	case errors.Is(err, usecase.ErrInvalidInput):
		slog.Warn(msg, attrs...)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		slog.Error(msg, attrs...)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "AI analysis failed"})
	}
}

func toResponse(in *entity.Insight) api.InsightResponse {
	return api.InsightResponse{
		Subject:    in.Subject,
		Kind:       string(in.Kind),
		PeriodDays: in.PeriodDays,
		Text:       in.Text,
	}
}
