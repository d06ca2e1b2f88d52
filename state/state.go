// Package state holds the single application state container. All mutation
// goes through Store methods under one lock, so readers always observe a
// consistent snapshot between steps.
package state

import (
	"fmt"
	"time"

	"sync"

	"github.com/google/uuid"

	"github.com/finmate/finmate/budget"
	"github.com/finmate/finmate/core"
	"github.com/finmate/finmate/insights"
)

// UIPrefs are display preferences, persisted across resets.
type UIPrefs struct {
	LargeText bool `json:"large_text"`
	DarkMode  bool `json:"dark_mode"`
	// NeedsAlertDismissed holds the week key the alert was dismissed for,
	// empty when not dismissed. A new week yields a new key, so the alert
	// reappears.
	NeedsAlertDismissed string `json:"needs_alert_dismissed"`
}

// CoachState is the chat sub-state the interface renders.
type CoachState struct {
	Messages   []core.ChatMessage `json:"messages"`
	IsThinking bool               `json:"is_thinking"`
	IsTyping   bool               `json:"is_typing"`
}

// Snapshot is one consistent view of the whole application state.
type Snapshot struct {
	Transactions   []core.Transaction       `json:"transactions"`
	CategoryMap    map[string]string        `json:"category_map"`
	CategoryTotals core.CategoryTotals      `json:"category_totals"`
	Budgets        budget.Summary           `json:"budgets"`
	Goals          []core.Goal              `json:"goals"`
	Alerts         []core.Alert             `json:"alerts"`
	Suggestions    []string                 `json:"suggestions"`
	Tips           []core.Tip               `json:"tips"`
	Lessons        []core.Lesson            `json:"lessons"`
	Resources      map[string]core.Resource `json:"resources"`
	UI             UIPrefs                  `json:"ui"`
	Profile        core.Profile             `json:"profile"`
	Coach          CoachState               `json:"coach"`
	Revision       uint64                   `json:"revision"`
}

// Store is the application state container.
type Store struct {
	mu    sync.RWMutex
	snap  Snapshot
	cache *splitCache
}

// DefaultProfile is the seeded demo profile.
func DefaultProfile() core.Profile {
	plan := float64(budget.DefaultWeeklyPlan)
	return core.Profile{
		Name:        "Krishna",
		Campus:      "Tempe",
		IncomeCycle: "weekly",
		WeeklyPlan:  &plan,
		Currency:    "USD",
	}
}

// New creates an empty store with the default profile.
func New() *Store {
	return &Store{
		snap: Snapshot{
			CategoryMap:    map[string]string{},
			CategoryTotals: core.CategoryTotals{},
			Resources:      map[string]core.Resource{},
			Profile:        DefaultProfile(),
		},
		cache: newSplitCache(),
	}
}

// SeedData is everything LoadSeeds needs from the seed datasets.
type SeedData struct {
	Transactions []core.Transaction
	Goals        []core.Goal
	CategoryMap  map[string]string
	Resources    map[string]core.Resource
	Tips         []core.Tip
	Lessons      []core.Lesson
}

// LoadSeeds replaces the data portion of the state with the seed datasets and
// recomputes every derived view (totals, budgets, alerts, suggestions).
func (s *Store) LoadSeeds(data SeedData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := budget.Categorize(data.Transactions, data.CategoryMap)
	budgets := budget.ComputeSummary(totals)

	s.snap.Transactions = data.Transactions
	s.snap.CategoryMap = data.CategoryMap
	s.snap.CategoryTotals = totals
	s.snap.Budgets = budgets
	s.snap.Goals = data.Goals
	s.snap.Alerts = insights.GenerateAlerts(data.Transactions, totals, budgets)
	s.snap.Suggestions = insights.GenerateSuggestions(totals, budgets, data.Resources)
	s.snap.Tips = data.Tips
	s.snap.Lessons = data.Lessons
	s.snap.Resources = data.Resources
	s.snap.Revision++
}

// ResetAll clears everything except UI preferences and the profile.
func (s *Store) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ui := s.snap.UI
	profile := s.snap.Profile
	rev := s.snap.Revision
	s.snap = Snapshot{
		CategoryMap:    map[string]string{},
		CategoryTotals: core.CategoryTotals{},
		Resources:      map[string]core.Resource{},
		UI:             ui,
		Profile:        profile,
		Revision:       rev + 1,
	}
}

// Restore replaces the whole state from a persisted snapshot. Transient coach
// flags never survive a restart.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap.Coach.IsThinking = false
	snap.Coach.IsTyping = false
	if snap.CategoryMap == nil {
		snap.CategoryMap = map[string]string{}
	}
	if snap.CategoryTotals == nil {
		snap.CategoryTotals = core.CategoryTotals{}
	}
	if snap.Resources == nil {
		snap.Resources = map[string]core.Resource{}
	}
	snap.Revision = s.snap.Revision + 1
	s.snap = snap
}

// HasData reports whether any seed data is loaded.
func (s *Store) HasData() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snap.Transactions) > 0 || len(s.snap.Goals) > 0
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSnapshot(s.snap)
}

// ProfileUpdate carries partial profile changes; nil fields are left alone.
type ProfileUpdate struct {
	Name        *string
	Campus      *string
	IncomeCycle *string
	WeeklyPlan  **float64
	Currency    *string
	RoundUps    *bool
}

// SetProfile applies a partial profile update.
func (s *Store) SetProfile(u ProfileUpdate) core.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &s.snap.Profile
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Campus != nil {
		p.Campus = *u.Campus
	}
	if u.IncomeCycle != nil {
		p.IncomeCycle = *u.IncomeCycle
	}
	if u.WeeklyPlan != nil {
		p.WeeklyPlan = *u.WeeklyPlan
	}
	if u.Currency != nil {
		p.Currency = *u.Currency
	}
	if u.RoundUps != nil {
		p.RoundUpsEnabled = *u.RoundUps
	}
	s.snap.Revision++
	return s.snap.Profile
}

// SetLargeText updates the large-text preference.
func (s *Store) SetLargeText(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.UI.LargeText = v
	s.snap.Revision++
}

// SetDarkMode updates the dark-mode preference.
func (s *Store) SetDarkMode(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.UI.DarkMode = v
	s.snap.Revision++
}

// DismissNeedsAlert records the week key the needs alert was dismissed for.
func (s *Store) DismissNeedsAlert(weekKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.UI.NeedsAlertDismissed = weekKey
	s.snap.Revision++
}

// AddContribution adds a positive amount to a goal's accumulated total.
func (s *Store) AddContribution(goalID string, amount float64) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount <= 0 {
		return core.Goal{}, fmt.Errorf("contribution must be positive, got %v", amount)
	}
	for i := range s.snap.Goals {
		if s.snap.Goals[i].ID == goalID {
			s.snap.Goals[i].Current = core.Round2(s.snap.Goals[i].Current + amount)
			s.snap.Revision++
			return s.snap.Goals[i], nil
		}
	}
	return core.Goal{}, fmt.Errorf("goal %s not found", goalID)
}

// AppendUserMessage records a user chat message and returns it.
func (s *Store) AppendUserMessage(text string) core.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := core.ChatMessage{
		ID:        uuid.New().String(),
		Role:      core.RoleUser,
		Text:      text,
		Timestamp: time.Now(),
	}
	s.snap.Coach.Messages = append(s.snap.Coach.Messages, msg)
	s.snap.Revision++
	return msg
}

// AppendCoachMessage appends an empty coach message that the engine will fill
// in while typing.
func (s *Store) AppendCoachMessage() core.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := core.ChatMessage{
		ID:        uuid.New().String(),
		Role:      core.RoleCoach,
		Timestamp: time.Now(),
	}
	s.snap.Coach.Messages = append(s.snap.Coach.Messages, msg)
	s.snap.Revision++
	return msg
}

// AppendToCoachMessage grows a streaming coach message by one chunk. The
// message is addressed by id so a cancelled flow can never write into a
// newer message. A no-op when the id is unknown.
func (s *Store) AppendToCoachMessage(id, chunk string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.snap.Coach.Messages) - 1; i >= 0; i-- {
		m := &s.snap.Coach.Messages[i]
		if m.ID == id && m.Role == core.RoleCoach {
			m.Text += chunk
			s.snap.Revision++
			return
		}
	}
}

// LastUserMessage returns the most recent user message, if any.
func (s *Store) LastUserMessage() (core.ChatMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.snap.Coach.Messages) - 1; i >= 0; i-- {
		if s.snap.Coach.Messages[i].Role == core.RoleUser {
			return s.snap.Coach.Messages[i], true
		}
	}
	return core.ChatMessage{}, false
}

// SetThinking flips the thinking flag.
func (s *Store) SetThinking(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Coach.IsThinking = v
	s.snap.Revision++
}

// SetTyping flips the typing flag.
func (s *Store) SetTyping(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Coach.IsTyping = v
	s.snap.Revision++
}

func cloneSnapshot(in Snapshot) Snapshot {
	out := in
	out.Transactions = append([]core.Transaction(nil), in.Transactions...)
	out.Goals = append([]core.Goal(nil), in.Goals...)
	out.Alerts = append([]core.Alert(nil), in.Alerts...)
	out.Suggestions = append([]string(nil), in.Suggestions...)
	out.Tips = append([]core.Tip(nil), in.Tips...)
	out.Lessons = append([]core.Lesson(nil), in.Lessons...)
	out.Coach.Messages = append([]core.ChatMessage(nil), in.Coach.Messages...)

	out.CategoryMap = make(map[string]string, len(in.CategoryMap))
	for k, v := range in.CategoryMap {
		out.CategoryMap[k] = v
	}
	out.CategoryTotals = make(core.CategoryTotals, len(in.CategoryTotals))
	for k, v := range in.CategoryTotals {
		out.CategoryTotals[k] = v
	}
	out.Resources = make(map[string]core.Resource, len(in.Resources))
	for k, v := range in.Resources {
		out.Resources[k] = v
	}
	if in.Profile.WeeklyPlan != nil {
		plan := *in.Profile.WeeklyPlan
		out.Profile.WeeklyPlan = &plan
	}
	return out
}
