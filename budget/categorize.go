// Package budget derives the weekly 50/30/20 budget view from raw transactions.
package budget

import "github.com/finmate/finmate/core"

// CategoryOther is the bucket for merchants missing from the category map.
const CategoryOther = "other"

// needsCategories is the single authoritative needs/wants partition.
// Everything not listed here (including fitness and entertainment) is a want.
var needsCategories = map[string]bool{
	"food":           true,
	"utilities":      true,
	"transportation": true,
	"health":         true,
	"education":      true,
}

// CategoryType is either "needs" or "wants".
type CategoryType string

const (
	TypeNeeds CategoryType = "needs"
	TypeWants CategoryType = "wants"
)

// ClassifyCategory maps a category name to needs or wants.
// Unrecognized categories default to wants.
func ClassifyCategory(category string) CategoryType {
	if needsCategories[category] {
		return TypeNeeds
	}
	return TypeWants
}

// Categorize resolves each transaction's merchant through the category map and
// sums amounts per category. Unresolved merchants land in "other". Pure and
// order-independent.
func Categorize(transactions []core.Transaction, categoryMap map[string]string) core.CategoryTotals {
	totals := make(core.CategoryTotals)
	for _, tx := range transactions {
		cat, ok := categoryMap[tx.Merchant]
		if !ok {
			cat = CategoryOther
		}
		totals[cat] += tx.Amount
	}
	return totals
}

// Summary is the 50/30/20 split of an aggregate spend figure. It sizes the
// dashboard donut; the weekly Split is the authoritative plan.
type Summary struct {
	Needs   float64 `json:"needs"`
	Wants   float64 `json:"wants"`
	Savings float64 `json:"savings"`
}

// ComputeSummary splits total spend 50/30/20.
func ComputeSummary(totals core.CategoryTotals) Summary {
	total := totals.TotalSpent()
	return Summary{
		Needs:   total * 0.5,
		Wants:   total * 0.3,
		Savings: total * 0.2,
	}
}
