package state

import (
	"testing"
	"time"

	"github.com/finmate/finmate/budget"
	"github.com/finmate/finmate/core"
)

func testSeedData() SeedData {
	return SeedData{
		Transactions: []core.Transaction{
			{ID: "t1", Merchant: "Cafe", Amount: 120.50, Date: time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)},
			{ID: "t2", Merchant: "Cinema", Amount: 18, Date: time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)},
		},
		CategoryMap: map[string]string{"Cafe": "food", "Cinema": "entertainment"},
		Goals: []core.Goal{
			{ID: "g1", Name: "Emergency Fund", Target: 500, Current: 120},
		},
		Resources: map[string]core.Resource{
			"credit_union": {Name: "CU", Details: "details"},
		},
		Tips:    []core.Tip{{ID: "tip-1", Tag: "savings", Text: "save"}},
		Lessons: []core.Lesson{{ID: "l1", Title: "t", Content: "c"}},
	}
}

func TestLoadSeedsDerivesEverything(t *testing.T) {
	s := New()
	s.LoadSeeds(testSeedData())

	snap := s.Snapshot()
	if got := snap.CategoryTotals["food"]; got != 120.50 {
		t.Errorf("food total = %v, want 120.50", got)
	}
	if got := snap.Budgets.Needs; got != 138.50*0.5 {
		t.Errorf("needs budget = %v, want %v", got, 138.50*0.5)
	}
	// Food over 100 fires the alert during derivation.
	if len(snap.Alerts) != 1 || snap.Alerts[0].ID != "food-alert" {
		t.Errorf("alerts = %v, want the food alert", snap.Alerts)
	}
	if len(snap.Suggestions) == 0 {
		t.Error("suggestions not derived")
	}
	if !s.HasData() {
		t.Error("HasData should be true after seeding")
	}
}

func TestResetAllPreservesUIAndProfile(t *testing.T) {
	s := New()
	s.LoadSeeds(testSeedData())
	s.SetDarkMode(true)
	s.DismissNeedsAlert("2026-W35")
	name := "Sam"
	s.SetProfile(ProfileUpdate{Name: &name})

	s.ResetAll()

	snap := s.Snapshot()
	if s.HasData() {
		t.Error("data should be gone after reset")
	}
	if !snap.UI.DarkMode || snap.UI.NeedsAlertDismissed != "2026-W35" {
		t.Errorf("UI prefs not preserved: %+v", snap.UI)
	}
	if snap.Profile.Name != "Sam" {
		t.Errorf("profile not preserved: %+v", snap.Profile)
	}
	if len(snap.Coach.Messages) != 0 {
		t.Errorf("coach messages should be cleared: %v", snap.Coach.Messages)
	}
}

func TestAddContribution(t *testing.T) {
	s := New()
	s.LoadSeeds(testSeedData())

	goal, err := s.AddContribution("g1", 30)
	if err != nil {
		t.Fatalf("AddContribution failed: %v", err)
	}
	if goal.Current != 150 {
		t.Errorf("goal current = %v, want 150", goal.Current)
	}

	if _, err := s.AddContribution("g1", -5); err == nil {
		t.Error("negative contribution should be rejected")
	}
	if _, err := s.AddContribution("g1", 0); err == nil {
		t.Error("zero contribution should be rejected")
	}
	if _, err := s.AddContribution("missing", 5); err == nil {
		t.Error("unknown goal should be rejected")
	}

	// Rejections must not have touched the goal.
	snap := s.Snapshot()
	if snap.Goals[0].Current != 150 {
		t.Errorf("goal mutated by rejected contribution: %v", snap.Goals[0].Current)
	}
}

func TestSetProfileWeeklyPlan(t *testing.T) {
	s := New()

	zero := 0.0
	ptr := &zero
	s.SetProfile(ProfileUpdate{WeeklyPlan: &ptr})
	snap := s.Snapshot()
	if snap.Profile.WeeklyPlan == nil || *snap.Profile.WeeklyPlan != 0 {
		t.Errorf("explicit zero plan lost: %v", snap.Profile.WeeklyPlan)
	}

	var cleared *float64
	s.SetProfile(ProfileUpdate{WeeklyPlan: &cleared})
	if snap = s.Snapshot(); snap.Profile.WeeklyPlan != nil {
		t.Errorf("cleared plan should be nil: %v", *snap.Profile.WeeklyPlan)
	}

	// Unset plan falls back to the default in the split.
	split := s.WeeklySplit(time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC))
	if split.TotalWeeklyMoney != budget.DefaultWeeklyPlan {
		t.Errorf("TotalWeeklyMoney = %v, want default", split.TotalWeeklyMoney)
	}
}

func TestCoachMessageMutations(t *testing.T) {
	s := New()

	user := s.AppendUserMessage("hello")
	if user.Role != core.RoleUser || user.Text != "hello" || user.ID == "" {
		t.Errorf("unexpected user message: %+v", user)
	}

	if _, ok := s.LastUserMessage(); !ok {
		t.Fatal("LastUserMessage should find the user message")
	}

	msg := s.AppendCoachMessage()
	if msg.Text != "" {
		t.Errorf("new coach message should start empty: %q", msg.Text)
	}

	s.AppendToCoachMessage(msg.ID, "H")
	s.AppendToCoachMessage(msg.ID, "i")
	s.AppendToCoachMessage("not-a-real-id", "!")

	snap := s.Snapshot()
	last := snap.Coach.Messages[len(snap.Coach.Messages)-1]
	if last.Text != "Hi" {
		t.Errorf("streamed text = %q, want %q", last.Text, "Hi")
	}

	// The user message is still the latest user message even after coach
	// messages arrive.
	latest, ok := s.LastUserMessage()
	if !ok || latest.ID != user.ID {
		t.Errorf("LastUserMessage = %+v, want the original user message", latest)
	}
}

func TestRestoreClearsTransientFlags(t *testing.T) {
	s := New()
	s.LoadSeeds(testSeedData())
	s.AppendUserMessage("hi")
	s.SetThinking(true)
	s.SetTyping(true)

	snap := s.Snapshot()
	restored := New()
	restored.Restore(snap)

	got := restored.Snapshot()
	if got.Coach.IsThinking || got.Coach.IsTyping {
		t.Errorf("transient flags survived restore: %+v", got.Coach)
	}
	if len(got.Coach.Messages) != 1 {
		t.Errorf("messages lost in restore: %v", got.Coach.Messages)
	}
	if got.CategoryTotals["food"] != 120.50 {
		t.Errorf("totals lost in restore: %v", got.CategoryTotals)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s := New()
	s.LoadSeeds(testSeedData())

	snap := s.Snapshot()
	snap.Goals[0].Current = 9999
	snap.CategoryTotals["food"] = 0
	*snap.Profile.WeeklyPlan = 1

	fresh := s.Snapshot()
	if fresh.Goals[0].Current == 9999 || fresh.CategoryTotals["food"] == 0 || *fresh.Profile.WeeklyPlan == 1 {
		t.Error("mutating a snapshot leaked into the store")
	}
}

func TestWeeklySplitCacheInvalidation(t *testing.T) {
	s := New()
	s.LoadSeeds(testSeedData())
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	before := s.WeeklySplit(now)
	if before.Needs.Spent != 120.50 {
		t.Fatalf("Needs.Spent = %v, want 120.50", before.Needs.Spent)
	}

	// A mutation bumps the revision, so the next call recomputes.
	if _, err := s.AddContribution("g1", 80); err != nil {
		t.Fatal(err)
	}
	after := s.WeeklySplit(now)
	if after.Savings.Actual != 200 {
		t.Errorf("Savings.Actual = %v, want 200 after contribution", after.Savings.Actual)
	}
}
