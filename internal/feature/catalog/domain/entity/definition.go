package entity

import "time"

// CountryDefinition describes how a country dataset is synthesized.
// Rows may come from built-in defaults, a YAML file or the catalog database.
type CountryDefinition struct {
	ID              uint      `gorm:"primaryKey"`
	Key             string    `gorm:"size:64;not null;uniqueIndex"`
	IndexName       string    `gorm:"size:128;not null"`
	CovidScale      float64   `gorm:"not null"`
	CaseNoise       float64   `gorm:"not null"`
	StockBase       float64   `gorm:"not null"`
	StockVolatility float64   `gorm:"not null"`
	IsActive        bool      `gorm:"not null;default:true"`
	SortKey         int       `gorm:"not null;default:0"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

// StockDefinition describes how a single-stock dataset is synthesized.
type StockDefinition struct {
	ID         uint      `gorm:"primaryKey"`
	Ticker     string    `gorm:"size:20;not null;uniqueIndex"`
	Name       string    `gorm:"size:255;not null"`
	BasePrice  float64   `gorm:"not null"`
	Volatility float64   `gorm:"not null"`
	IsActive   bool      `gorm:"not null;default:true"`
	SortKey    int       `gorm:"not null;default:0"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}
