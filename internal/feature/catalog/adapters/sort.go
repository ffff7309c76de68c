package adapters

import (
	"cmp"
	"slices"

	"covid_market/internal/feature/catalog/domain/entity"
)

// activeCountries は有効な国定義をsort_key順（同値は元の順序）で返します。
func activeCountries(in []entity.CountryDefinition) []entity.CountryDefinition {
	out := make([]entity.CountryDefinition, 0, len(in))
	for _, d := range in {
		if d.IsActive {
			out = append(out, d)
		}
	}
	slices.SortStableFunc(out, func(a, b entity.CountryDefinition) int { return cmp.Compare(a.SortKey, b.SortKey) })
	return out
}

// activeStocks は有効な銘柄定義をsort_key順（同値は元の順序）で返します。
func activeStocks(in []entity.StockDefinition) []entity.StockDefinition {
	out := make([]entity.StockDefinition, 0, len(in))
	for _, d := range in {
		if d.IsActive {
			out = append(out, d)
		}
	}
	slices.SortStableFunc(out, func(a, b entity.StockDefinition) int { return cmp.Compare(a.SortKey, b.SortKey) })
	return out
}
