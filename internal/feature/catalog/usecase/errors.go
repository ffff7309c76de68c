// Package usecase builds the immutable dataset catalog and answers lookups against it.
package usecase

import "errors"

var (
	// ErrCountryNotFound is returned when no dataset exists for a country key.
	ErrCountryNotFound = errors.New("country not found")

	// ErrStockNotFound is returned when no dataset exists for a ticker.
	ErrStockNotFound = errors.New("stock not found")

	// ErrDuplicateKey is returned when two definitions share a country key or ticker.
	ErrDuplicateKey = errors.New("duplicate catalog key")

	// ErrEmptyCatalog is returned when the definition source yields nothing to generate.
	ErrEmptyCatalog = errors.New("catalog has no active definitions")
)
