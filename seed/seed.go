// Package seed loads the embedded demo datasets. Transaction dates are stored
// as weekday offsets and materialized against the current week so the demo
// always has a full week of activity, no matter when it is launched.
package seed

import (
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/finmate/finmate/budget"
	"github.com/finmate/finmate/core"
	"github.com/finmate/finmate/state"
)

//go:embed data/*.json
var dataFS embed.FS

// seedTransaction is the on-disk transaction shape. Day is the offset from
// the Monday week start, 0..6.
type seedTransaction struct {
	ID       string  `json:"id"`
	Merchant string  `json:"merchant"`
	Amount   float64 `json:"amount"`
	Day      int     `json:"day"`
}

// Load parses every embedded dataset and materializes transaction dates
// within the week containing now.
func Load(now time.Time) (state.SeedData, error) {
	var data state.SeedData

	var seedTxs []seedTransaction
	if err := readJSON("data/transactions.json", &seedTxs); err != nil {
		return data, err
	}
	weekStart := budget.WeekStart(now)
	for _, st := range seedTxs {
		data.Transactions = append(data.Transactions, core.Transaction{
			ID:       st.ID,
			Merchant: st.Merchant,
			Amount:   st.Amount,
			// Noon keeps the date inside the week window regardless of
			// timezone shifts.
			Date: weekStart.AddDate(0, 0, st.Day).Add(12 * time.Hour),
		})
	}

	if err := readJSON("data/categories.json", &data.CategoryMap); err != nil {
		return data, err
	}
	if err := readJSON("data/goals.json", &data.Goals); err != nil {
		return data, err
	}
	if err := readJSON("data/local_resources.json", &data.Resources); err != nil {
		return data, err
	}
	if err := readJSON("data/tips.json", &data.Tips); err != nil {
		return data, err
	}
	if err := readJSON("data/lessons.json", &data.Lessons); err != nil {
		return data, err
	}
	return data, nil
}

func readJSON(path string, v interface{}) error {
	raw, err := dataFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return nil
}
