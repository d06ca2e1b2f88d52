// Package insights derives alerts and next-best-action suggestions from
// categorized spending.
package insights

import (
	"fmt"

	"github.com/finmate/finmate/budget"
	"github.com/finmate/finmate/core"
)

// FoodAlertThreshold is the spend level above which the food alert fires.
const FoodAlertThreshold = 100

// FoodAlertID is stable so regenerating under the same condition never yields
// duplicate-but-distinguishable entries.
const FoodAlertID = "food-alert"

// subscriptionMinCount is the strict lower bound on merchant repeats before a
// subscription alert fires. A merchant seen exactly this many times is ignored.
const subscriptionMinCount = 3

// GenerateAlerts evaluates every alert rule independently; all matching rules
// fire. The food alert (if any) comes first, then one subscription alert per
// qualifying merchant in order of first appearance. Each call fully replaces
// the previous alert list.
func GenerateAlerts(transactions []core.Transaction, categoryTotals core.CategoryTotals, budgets budget.Summary) []core.Alert {
	var alerts []core.Alert

	if categoryTotals["food"] > FoodAlertThreshold {
		alerts = append(alerts, core.Alert{
			ID:      FoodAlertID,
			Message: "Food spending is trending high this week.",
		})
	}

	// Repeated-merchant subscription heuristic. Case-sensitive exact match;
	// order of first appearance decides output order.
	counts := make(map[string]int)
	var order []string
	for _, tx := range transactions {
		if counts[tx.Merchant] == 0 {
			order = append(order, tx.Merchant)
		}
		counts[tx.Merchant]++
	}
	for _, merchant := range order {
		if counts[merchant] > subscriptionMinCount {
			alerts = append(alerts, core.Alert{
				ID:      "sub-" + merchant,
				Message: fmt.Sprintf("Possible subscription detected: %s", merchant),
			})
		}
	}

	return alerts
}
