package core

import (
	"math"

	"github.com/dustin/go-humanize"
)

// Round2 rounds to whole cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatUSD renders an amount as a dollar string, e.g. "$1,234.56".
func FormatUSD(v float64) string {
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}
