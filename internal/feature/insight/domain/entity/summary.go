package entity

// MonthSummary aggregates one calendar month of a country dataset.
type MonthSummary struct {
	Month       string  // YYYY-MM
	Cases       int     // 月間感染者数合計
	Deaths      int     // 月間死亡者数合計
	MarketClose float64 // 月末の指数値
}

// MonthClose is the last price of a calendar month.
type MonthClose struct {
	Month string
	Close float64
}

// StockSummary condenses a price history for prompting.
type StockSummary struct {
	First     float64
	Last      float64
	Min       float64
	Max       float64
	ChangePct float64
	Monthly   []MonthClose
}
