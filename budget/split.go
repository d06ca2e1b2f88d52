// Weekly 50/30/20 split computation and reconciliation
package budget

import (
	"math"

	"github.com/finmate/finmate/core"
)

// DefaultWeeklyPlan is used when the profile has no weekly plan set.
// An explicit zero plan is honored as-is.
const DefaultWeeklyPlan = 500

// Bucket is one slice of the weekly plan compared against actual spend.
type Bucket struct {
	Plan  float64 `json:"plan"`
	Spent float64 `json:"spent"`
	Left  float64 `json:"left"`
	Over  float64 `json:"over"`
	Pct   float64 `json:"pct"`
}

// SavingsBucket compares goal contributions against the savings target.
// Over here is a surplus past the target, which is a win rather than a warning.
type SavingsBucket struct {
	Plan   float64 `json:"plan"`
	Actual float64 `json:"actual"`
	Over   float64 `json:"over"`
	Pct    float64 `json:"pct"`
}

// Reconciliation reports the drift between the week-scoped needs/wants sums
// and the same classification applied to the all-time category totals. The
// deltas are advisory; nothing is corrected automatically.
type Reconciliation struct {
	NeedsCategoriesSum float64 `json:"needs_categories_sum"`
	WantsCategoriesSum float64 `json:"wants_categories_sum"`
	NeedsDelta         float64 `json:"needs_delta"`
	WantsDelta         float64 `json:"wants_delta"`
}

// Split is the full derived weekly budget view. It is recomputed on demand,
// never stored.
type Split struct {
	TotalWeeklyMoney float64        `json:"total_weekly_money"`
	SpendingPlan     float64        `json:"spending_plan"`
	SavingsTarget    float64        `json:"savings_target"`
	Needs            Bucket         `json:"needs"`
	Wants            Bucket         `json:"wants"`
	Savings          SavingsBucket  `json:"savings"`
	Reconciliation   Reconciliation `json:"reconciliation"`
}

// pct returns spent/plan as a rounded percentage, 0 when the plan is zero.
func pct(spent, plan float64) float64 {
	if plan <= 0 {
		return 0
	}
	return math.Round(spent / plan * 100)
}

// ComputeWeeklySplit derives the 50/30/20 plan from the profile's weekly plan
// and compares it against the week's classified spend and goal contributions.
//
// The three plan figures are each rounded to cents independently, so their sum
// can drift from the weekly total by a cent or two. The drift is deliberate:
// it is surfaced rather than redistributed.
func ComputeWeeklySplit(
	profile core.Profile,
	weekTransactions []core.Transaction,
	categoryMap map[string]string,
	categoryTotals core.CategoryTotals,
	goalContributions float64,
) Split {
	totalWeeklyMoney := float64(DefaultWeeklyPlan)
	if profile.WeeklyPlan != nil {
		totalWeeklyMoney = *profile.WeeklyPlan
	}

	needsPlan := core.Round2(totalWeeklyMoney * 0.5)
	wantsPlan := core.Round2(totalWeeklyMoney * 0.3)
	savingsTarget := core.Round2(totalWeeklyMoney * 0.2)
	spendingPlan := needsPlan + wantsPlan

	// Classify this week's transactions into needs/wants. Unknown merchants
	// fall into "other", which classifies as wants.
	var needsSpent, wantsSpent float64
	for _, tx := range weekTransactions {
		cat, ok := categoryMap[tx.Merchant]
		if !ok {
			cat = CategoryOther
		}
		if ClassifyCategory(cat) == TypeNeeds {
			needsSpent += tx.Amount
		} else {
			wantsSpent += tx.Amount
		}
	}
	needsSpent = core.Round2(needsSpent)
	wantsSpent = core.Round2(wantsSpent)

	// Independently classify the category totals, which may span a different
	// time window than the week filter.
	var needsCategoriesSum, wantsCategoriesSum float64
	for cat, amount := range categoryTotals {
		if ClassifyCategory(cat) == TypeNeeds {
			needsCategoriesSum += amount
		} else {
			wantsCategoriesSum += amount
		}
	}
	needsCategoriesSum = core.Round2(needsCategoriesSum)
	wantsCategoriesSum = core.Round2(wantsCategoriesSum)

	return Split{
		TotalWeeklyMoney: totalWeeklyMoney,
		SpendingPlan:     spendingPlan,
		SavingsTarget:    savingsTarget,
		Needs: Bucket{
			Plan:  needsPlan,
			Spent: needsSpent,
			Left:  math.Max(0, needsPlan-needsSpent),
			Over:  math.Max(0, needsSpent-needsPlan),
			Pct:   pct(needsSpent, needsPlan),
		},
		Wants: Bucket{
			Plan:  wantsPlan,
			Spent: wantsSpent,
			Left:  math.Max(0, wantsPlan-wantsSpent),
			Over:  math.Max(0, wantsSpent-wantsPlan),
			Pct:   pct(wantsSpent, wantsPlan),
		},
		Savings: SavingsBucket{
			Plan:   savingsTarget,
			Actual: goalContributions,
			Over:   math.Max(0, goalContributions-savingsTarget),
			Pct:    pct(goalContributions, savingsTarget),
		},
		Reconciliation: Reconciliation{
			NeedsCategoriesSum: needsCategoriesSum,
			WantsCategoriesSum: wantsCategoriesSum,
			NeedsDelta:         math.Abs(needsSpent - needsCategoriesSum),
			WantsDelta:         math.Abs(wantsSpent - wantsCategoriesSum),
		},
	}
}

// GoalContributions sums the accumulated amounts across all goals.
func GoalContributions(goals []core.Goal) float64 {
	var sum float64
	for _, g := range goals {
		sum += g.Current
	}
	return sum
}
