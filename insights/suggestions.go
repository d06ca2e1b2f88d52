// Suggestion generator - next-best-action text from spending plus local resources
package insights

import (
	"fmt"

	"github.com/finmate/finmate/budget"
	"github.com/finmate/finmate/core"
)

// Well-known resource keys. Missing entries silently skip their suggestion.
const (
	ResourceFoodPantry    = "food_pantry"
	ResourceCreditUnion   = "credit_union"
	ResourceTransportPass = "transport_pass"
)

// GenerateSuggestions branches on whether food spend is high and emits a fixed
// ordered list of tips, interpolating local resources where they exist.
func GenerateSuggestions(categoryTotals core.CategoryTotals, budgets budget.Summary, resources map[string]core.Resource) []string {
	var suggestions []string

	if categoryTotals["food"] > FoodAlertThreshold {
		if pantry, ok := resources[ResourceFoodPantry]; ok {
			suggestions = append(suggestions,
				fmt.Sprintf("Consider visiting %s. %s", pantry.Name, pantry.Details))
		}
		suggestions = append(suggestions, "Try meal prepping to reduce food spending.")
		if cu, ok := resources[ResourceCreditUnion]; ok {
			suggestions = append(suggestions,
				fmt.Sprintf("Turn on round-up savings to build your emergency fund, then deposit it into a high yield account at %s.", cu.Name))
		}
		return suggestions
	}

	suggestions = append(suggestions, "Great job staying within budget.")
	if pass, ok := resources[ResourceTransportPass]; ok {
		suggestions = append(suggestions,
			fmt.Sprintf("Use the %s to save on commuting costs. %s", pass.Name, pass.Details))
	}
	if cu, ok := resources[ResourceCreditUnion]; ok {
		suggestions = append(suggestions,
			fmt.Sprintf("Consider opening a High Yield Savings Account with %s for better returns on your savings.", cu.Name))
	}
	return suggestions
}
