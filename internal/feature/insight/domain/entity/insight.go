// Package entity はinsightフィーチャーのドメインモデルを定義します。
package entity

// Kind identifies what an insight was generated for.
type Kind string

const (
	KindCorrelation     Kind = "correlation"
	KindIndexPrediction Kind = "index_prediction"
	KindStockPrediction Kind = "stock_prediction"
)

// Insight is AI-generated text about a country or a ticker.
type Insight struct {
	Subject    string // 国キーまたは銘柄コード
	Kind       Kind
	PeriodDays int    // 予測期間（銘柄予測のみ）
	Text       string // AI生成の本文
}
