// Rule-based fallback summary for questions outside the demo phrase table
package coach

import (
	"fmt"
	"sort"
	"strings"

	"github.com/finmate/finmate/budget"
	"github.com/finmate/finmate/core"
	"github.com/finmate/finmate/state"
)

// RuleFallback builds a deterministic prose summary from the current state:
// total spend, the top three categories, and the goal with the largest
// remaining gap. It never fails, even with no data loaded.
func RuleFallback(snap state.Snapshot) string {
	totalSpent := snap.CategoryTotals.TotalSpent()

	top := topCategories(snap, 3)
	parts := make([]string, 0, len(top))
	for _, cat := range top {
		parts = append(parts, fmt.Sprintf("**%s** (%s)", cat, core.FormatUSD(snap.CategoryTotals[cat])))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on your current spending, you've spent %s this period.", core.FormatUSD(totalSpent))
	if len(parts) > 0 {
		fmt.Fprintf(&b, " Top categories are %s.", strings.Join(parts, ", "))
	}
	if goal, ok := biggestGoal(snap.Goals); ok {
		fmt.Fprintf(&b, " Your biggest savings goal is **%s** — you need %s more to reach it!",
			goal.Name, core.FormatUSD(goal.RemainingGap()))
	}
	return b.String()
}

// topCategories returns up to n category names sorted by spend descending.
// Ties keep the order categories were first encountered in the transaction
// list; categories absent from the transactions sort after those, by name.
func topCategories(snap state.Snapshot, n int) []string {
	if len(snap.CategoryTotals) == 0 {
		return nil
	}

	encounter := make(map[string]int)
	next := 0
	for _, tx := range snap.Transactions {
		cat, ok := snap.CategoryMap[tx.Merchant]
		if !ok {
			cat = budget.CategoryOther
		}
		if _, seen := encounter[cat]; !seen {
			encounter[cat] = next
			next++
		}
	}

	cats := make([]string, 0, len(snap.CategoryTotals))
	for cat := range snap.CategoryTotals {
		cats = append(cats, cat)
	}
	sort.SliceStable(cats, func(i, j int) bool {
		a, b := cats[i], cats[j]
		if snap.CategoryTotals[a] != snap.CategoryTotals[b] {
			return snap.CategoryTotals[a] > snap.CategoryTotals[b]
		}
		ai, aok := encounter[a]
		bi, bok := encounter[b]
		switch {
		case aok && bok:
			return ai < bi
		case aok:
			return true
		case bok:
			return false
		default:
			return a < b
		}
	})

	if len(cats) > n {
		cats = cats[:n]
	}
	return cats
}

// biggestGoal finds the goal with the largest remaining gap. False when the
// goals list is empty.
func biggestGoal(goals []core.Goal) (core.Goal, bool) {
	if len(goals) == 0 {
		return core.Goal{}, false
	}
	best := goals[0]
	for _, g := range goals[1:] {
		if g.RemainingGap() > best.RemainingGap() {
			best = g
		}
	}
	return best, true
}
