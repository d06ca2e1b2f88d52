package seed

import (
	"math"
	"testing"
	"time"

	"github.com/finmate/finmate/budget"
	"github.com/finmate/finmate/core"
)

func TestLoad(t *testing.T) {
	now := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC) // a Wednesday

	data, err := Load(now)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(data.Transactions) != 15 {
		t.Errorf("got %d transactions, want 15", len(data.Transactions))
	}
	if len(data.Goals) != 3 {
		t.Errorf("got %d goals, want 3", len(data.Goals))
	}
	if len(data.CategoryMap) == 0 || len(data.Resources) == 0 || len(data.Tips) == 0 || len(data.Lessons) == 0 {
		t.Error("a seed dataset came back empty")
	}

	// Every merchant in the transactions resolves through the category map.
	for _, tx := range data.Transactions {
		if _, ok := data.CategoryMap[tx.Merchant]; !ok {
			t.Errorf("merchant %q missing from category map", tx.Merchant)
		}
	}

	// All dates land inside the week containing now.
	start := budget.WeekStart(now)
	end := start.AddDate(0, 0, 7)
	for _, tx := range data.Transactions {
		if tx.Date.Before(start) || !tx.Date.Before(end) {
			t.Errorf("transaction %s dated %v outside week [%v, %v)", tx.ID, tx.Date, start, end)
		}
	}

	var total float64
	for _, tx := range data.Transactions {
		total += tx.Amount
	}
	if math.Abs(total-329.00) > 1e-9 {
		t.Errorf("seed week total = %v, want 329.00", total)
	}
}

func TestLoadScenarioSplit(t *testing.T) {
	// The seeds reproduce the canonical demo week: needs $259.70 against a
	// $250 plan, wants $69.30.
	now := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)
	data, err := Load(now)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	plan := 500.0
	profile := core.Profile{WeeklyPlan: &plan}
	totals := budget.Categorize(data.Transactions, data.CategoryMap)
	split := budget.ComputeWeeklySplit(profile, budget.WeekTransactions(data.Transactions, now), data.CategoryMap, totals, 0)

	if math.Abs(split.Needs.Spent-259.70) > 1e-9 {
		t.Errorf("Needs.Spent = %v, want 259.70", split.Needs.Spent)
	}
	if math.Abs(split.Wants.Spent-69.30) > 1e-9 {
		t.Errorf("Wants.Spent = %v, want 69.30", split.Wants.Spent)
	}
	if split.Needs.Pct != 104 {
		t.Errorf("Needs.Pct = %v, want 104", split.Needs.Pct)
	}
}

func TestLoadSubscriptionSeed(t *testing.T) {
	// Streaming Co appears four times so the demo fires exactly one
	// subscription alert out of the box.
	data, err := Load(time.Now())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	count := 0
	for _, tx := range data.Transactions {
		if tx.Merchant == "Streaming Co" {
			count++
		}
	}
	if count != 4 {
		t.Errorf("Streaming Co appears %d times, want 4", count)
	}
}
