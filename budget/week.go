// Week windowing - Monday-start weeks for the weekly budget cycle
package budget

import (
	"fmt"
	"time"

	"github.com/finmate/finmate/core"
)

// WeekStart returns midnight on the Monday of the given date's week.
// Sunday counts as the last day of the previous Monday-start week.
func WeekStart(date time.Time) time.Time {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	switch d.Weekday() {
	case time.Sunday:
		return d.AddDate(0, 0, -6)
	default:
		return d.AddDate(0, 0, -int(d.Weekday()-time.Monday))
	}
}

// WeekEnd returns the exclusive end of the week containing date.
func WeekEnd(date time.Time) time.Time {
	return WeekStart(date).AddDate(0, 0, 7)
}

// WeekTransactions filters transactions to [WeekStart, WeekStart+7d).
func WeekTransactions(transactions []core.Transaction, date time.Time) []core.Transaction {
	start := WeekStart(date)
	end := start.AddDate(0, 0, 7)

	var out []core.Transaction
	for _, tx := range transactions {
		if !tx.Date.Before(start) && tx.Date.Before(end) {
			out = append(out, tx)
		}
	}
	return out
}

// WeeklySpent sums the amounts of the week's transactions.
func WeeklySpent(transactions []core.Transaction, date time.Time) float64 {
	var sum float64
	for _, tx := range WeekTransactions(transactions, date) {
		sum += tx.Amount
	}
	return sum
}

// DaysRemaining counts the days left in the Monday..Sunday week, today
// inclusive. Sunday is the last day, so it returns 1.
func DaysRemaining(date time.Time) int {
	if date.Weekday() == time.Sunday {
		return 1
	}
	return 8 - int(date.Weekday())
}

// WeekKey returns a stable identifier for the week containing date, used to
// track per-week alert dismissals. ISO week numbering changes exactly once per
// Monday boundary and never collides within a year.
func WeekKey(date time.Time) string {
	year, week := WeekStart(date).ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
