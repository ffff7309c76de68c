// Package usecase はinsightフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	catalogentity "covid_market/internal/feature/catalog/domain/entity"
	catalogusecase "covid_market/internal/feature/catalog/usecase"
	"covid_market/internal/feature/insight/domain/entity"
)

const (
	// DefaultPeriodDays は銘柄予測のデフォルト期間です。
	DefaultPeriodDays = 30
	// MaxPeriodDays は銘柄予測の最大期間です。
	MaxPeriodDays = 365
	// MaxHelpQueryLength はヘルプ質問の最大文字数（rune数）です。
	MaxHelpQueryLength = 1000
)

var (
	// ErrNotFound is returned when the requested country or ticker is not in the catalog.
	ErrNotFound = errors.New("subject not found")

	// ErrInvalidInput is returned when a request fails validation.
	ErrInvalidInput = errors.New("invalid input")
)

// DatasetSource はカタログからデータセットを取得するインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type DatasetSource interface {
	FetchCountryDataset(key string) (catalogentity.CountryDataset, error)
	FetchStockDataset(ticker string) (catalogentity.StockDataset, error)
}

// Analyzer はプロンプトから文章を生成するインターフェースです。
type Analyzer interface {
	// Analyze はプロンプトから分析テキストを生成します。
	Analyze(ctx context.Context, prompt string) (string, error)
}

// InsightUsecase はデータセットに対するAI分析を提供します。
type InsightUsecase struct {
	datasets DatasetSource
	analyzer Analyzer
}

// NewInsightUsecase はInsightUsecaseの新しいインスタンスを生成します。
func NewInsightUsecase(datasets DatasetSource, analyzer Analyzer) *InsightUsecase {
	return &InsightUsecase{datasets: datasets, analyzer: analyzer}
}

// AnalyzeCorrelation はCOVID系列と株価指数の相関分析を生成します。
func (u *InsightUsecase) AnalyzeCorrelation(ctx context.Context, country string) (*entity.Insight, error) {
	ds, err := u.country(country)
	if err != nil {
		return nil, err
	}
	text, err := u.analyze(ctx, buildCorrelationPrompt(country, ds))
	if err != nil {
		return nil, fmt.Errorf("correlation analysis for %q: %w", country, err)
	}
	return &entity.Insight{Subject: country, Kind: entity.KindCorrelation, Text: text}, nil
}

// PredictIndex は国の株価指数の短期見通しを生成します。
func (u *InsightUsecase) PredictIndex(ctx context.Context, country string) (*entity.Insight, error) {
	ds, err := u.country(country)
	if err != nil {
		return nil, err
	}
	text, err := u.analyze(ctx, buildIndexPredictionPrompt(country, ds))
	if err != nil {
		return nil, fmt.Errorf("index prediction for %q: %w", country, err)
	}
	return &entity.Insight{Subject: country, Kind: entity.KindIndexPrediction, Text: text}, nil
}

// PredictStock は銘柄の価格予測を生成します。periodDaysが0の場合はデフォルト期間を使用します。
func (u *InsightUsecase) PredictStock(ctx context.Context, ticker string, periodDays int) (*entity.Insight, error) {
	if periodDays == 0 {
		periodDays = DefaultPeriodDays
	}
	if periodDays < 1 || periodDays > MaxPeriodDays {
		return nil, fmt.Errorf("%w: period must be between 1 and %d days", ErrInvalidInput, MaxPeriodDays)
	}

	ds, err := u.datasets.FetchStockDataset(ticker)
	if err != nil {
		if errors.Is(err, catalogusecase.ErrStockNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, err
	}
	text, err := u.analyze(ctx, buildStockPredictionPrompt(ticker, ds, periodDays))
	if err != nil {
		return nil, fmt.Errorf("stock prediction for %q: %w", ticker, err)
	}
	return &entity.Insight{Subject: ticker, Kind: entity.KindStockPrediction, PeriodDays: periodDays, Text: text}, nil
}

// Help はダッシュボードの使い方に関する質問に回答します。
func (u *InsightUsecase) Help(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("%w: query is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(query) > MaxHelpQueryLength {
		return "", fmt.Errorf("%w: query exceeds maximum length of %d characters", ErrInvalidInput, MaxHelpQueryLength)
	}
	answer, err := u.analyze(ctx, buildHelpPrompt(query))
	if err != nil {
		return "", fmt.Errorf("help assistant: %w", err)
	}
	return answer, nil
}

func (u *InsightUsecase) country(key string) (catalogentity.CountryDataset, error) {
	ds, err := u.datasets.FetchCountryDataset(key)
	if err != nil {
		if errors.Is(err, catalogusecase.ErrCountryNotFound) {
			return catalogentity.CountryDataset{}, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return catalogentity.CountryDataset{}, err
	}
	return ds, nil
}

func (u *InsightUsecase) analyze(ctx context.Context, prompt string) (string, error) {
	text, err := u.analyzer.Analyze(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
