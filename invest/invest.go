// Package invest computes the weekly-contribution compounding projection
// shown on the invest tab.
package invest

import "github.com/finmate/finmate/core"

// Point is one year of the projection series.
type Point struct {
	Year    int     `json:"year"`
	Balance float64 `json:"balance"`
}

// Project grows a fixed weekly contribution at the given annual rate,
// compounded weekly, and returns the year-end balances. Year 0 is the
// starting point.
func Project(weekly, annualRate float64, years int) []Point {
	if years < 0 {
		years = 0
	}
	weeklyRate := annualRate / 52

	points := []Point{{Year: 0, Balance: 0}}
	balance := 0.0
	for year := 1; year <= years; year++ {
		for week := 0; week < 52; week++ {
			balance = balance*(1+weeklyRate) + weekly
		}
		points = append(points, Point{Year: year, Balance: core.Round2(balance)})
	}
	return points
}
