package coach

import (
	"strings"
	"testing"
	"time"

	"github.com/finmate/finmate/core"
	"github.com/finmate/finmate/state"
)

func seededStore(t *testing.T, txs []core.Transaction, categoryMap map[string]string, goals []core.Goal) *state.Store {
	t.Helper()
	s := state.New()
	s.LoadSeeds(state.SeedData{
		Transactions: txs,
		CategoryMap:  categoryMap,
		Goals:        goals,
	})
	return s
}

func tx(merchant string, amount float64) core.Transaction {
	return core.Transaction{
		Merchant: merchant,
		Amount:   amount,
		Date:     time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC),
	}
}

func TestRuleFallback(t *testing.T) {
	s := seededStore(t,
		[]core.Transaction{
			tx("Cafe", 50),
			tx("Cinema", 30),
			tx("Unknown Shop", 20),
		},
		map[string]string{"Cafe": "food", "Cinema": "entertainment"},
		[]core.Goal{
			{ID: "g1", Name: "Emergency Fund", Target: 500, Current: 120},
			{ID: "g2", Name: "New Laptop", Target: 1200, Current: 350},
		},
	)

	got := RuleFallback(s.Snapshot())
	want := "Based on your current spending, you've spent $100.00 this period. " +
		"Top categories are **food** ($50.00), **entertainment** ($30.00), **other** ($20.00). " +
		"Your biggest savings goal is **New Laptop** — you need $850.00 more to reach it!"
	if got != want {
		t.Errorf("RuleFallback =\n%q\nwant\n%q", got, want)
	}
}

func TestRuleFallbackTieBreaksByFirstEncounter(t *testing.T) {
	s := seededStore(t,
		[]core.Transaction{
			tx("Gym", 25),    // fitness first
			tx("Cinema", 25), // entertainment second, same total
			tx("Cafe", 10),
		},
		map[string]string{"Gym": "fitness", "Cinema": "entertainment", "Cafe": "food"},
		nil,
	)

	got := RuleFallback(s.Snapshot())
	fitnessIdx := strings.Index(got, "**fitness**")
	entertainmentIdx := strings.Index(got, "**entertainment**")
	if fitnessIdx == -1 || entertainmentIdx == -1 {
		t.Fatalf("expected both tied categories in output: %q", got)
	}
	if fitnessIdx > entertainmentIdx {
		t.Errorf("tie should keep first-encountered order, got %q", got)
	}
}

func TestRuleFallbackEmptyState(t *testing.T) {
	// No goals and no transactions must still produce a summary: total $0
	// and no goal sentence, without panicking on the empty goals list.
	got := RuleFallback(state.New().Snapshot())
	want := "Based on your current spending, you've spent $0.00 this period."
	if got != want {
		t.Errorf("RuleFallback on empty state = %q, want %q", got, want)
	}
}

func TestRuleFallbackLimitsToThreeCategories(t *testing.T) {
	s := seededStore(t,
		[]core.Transaction{
			tx("A", 40), tx("B", 30), tx("C", 20), tx("D", 10),
		},
		map[string]string{"A": "food", "B": "utilities", "C": "fitness", "D": "education"},
		nil,
	)

	got := RuleFallback(s.Snapshot())
	if strings.Contains(got, "education") {
		t.Errorf("fourth category should be cut: %q", got)
	}
	for _, cat := range []string{"food", "utilities", "fitness"} {
		if !strings.Contains(got, "**"+cat+"**") {
			t.Errorf("missing top category %s in %q", cat, got)
		}
	}
}
