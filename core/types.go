// Package core holds the shared domain types for the FinMate demo app.
package core

import "time"

// Transaction is a single seeded spend record. Immutable once loaded.
type Transaction struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Merchant string    `json:"merchant"`
	Amount   float64   `json:"amount"` // non-negative, USD
}

// Goal is a savings goal. Current only ever grows via contributions.
type Goal struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Target  float64 `json:"target"`
	Current float64 `json:"current"`
}

// RemainingGap is how much is still needed to reach the goal.
func (g Goal) RemainingGap() float64 {
	return g.Target - g.Current
}

// Profile is the user's settings. WeeklyPlan is a pointer so an explicit
// zero plan is distinguishable from "unset" (which falls back to the default).
type Profile struct {
	Name            string   `json:"name"`
	Campus          string   `json:"campus"`
	IncomeCycle     string   `json:"income_cycle"` // "weekly", "biweekly", "monthly"
	WeeklyPlan      *float64 `json:"weekly_plan"`
	Currency        string   `json:"currency"`
	RoundUpsEnabled bool     `json:"round_ups_enabled"`
}

// Role identifies who authored a chat message.
type Role string

const (
	RoleUser  Role = "user"
	RoleCoach Role = "coach"
)

// ChatMessage is one entry in the coach conversation. Coach messages grow
// character by character while the engine is typing, then never change again.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"ts"`
}

// Alert is an ephemeral notification, regenerated wholesale on each data load.
type Alert struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Resource is an optional local-resource record (campus pantry, credit union,
// transit pass). Absence of an entry silently skips the related suggestion.
type Resource struct {
	Name    string `json:"name"`
	Details string `json:"details"`
}

// Tip is a short seeded money tip shown on the dashboard.
type Tip struct {
	ID   string `json:"id"`
	Tag  string `json:"tag"`
	Text string `json:"text"`
}

// Lesson is a seeded learn-tab article.
type Lesson struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CategoryTotals maps category name to summed spend.
type CategoryTotals map[string]float64

// TotalSpent sums all category totals.
func (ct CategoryTotals) TotalSpent() float64 {
	var total float64
	for _, amt := range ct {
		total += amt
	}
	return total
}
