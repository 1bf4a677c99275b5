package impact

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// MonthLabels are the chart labels for the twelve month buckets.
var MonthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Years outside this range are treated as malformed input.
const (
	minYear = 1
	maxYear = 9999
)

// SelectYear parses the year query parameter. Absent, non-integer or
// out-of-range values fall back to now's calendar year.
func SelectYear(raw string, now time.Time) int {
	y, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || y < minYear || y > maxYear {
		return now.Year()
	}
	return y
}

// YearWindow returns the half-open UTC range [Jan 1 year, Jan 1 year+1).
func YearWindow(year int) (start, end time.Time) {
	start = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}

// MonthSeries holds the per-month chart data for one year.
// Index 0 is January and index 11 is December.
type MonthSeries struct {
	Trees     [12]int64
	Donations [12]float64
}

// FillMonths places per-month values into a fixed twelve-slot array.
// Months with no entry stay zero; keys outside January..December are ignored.
func FillMonths[T int64 | float64](byMonth map[time.Month]T) [12]T {
	var out [12]T
	for m, v := range byMonth {
		if m < time.January || m > time.December {
			continue
		}
		out[m-1] += v
	}
	return out
}

// MergeYears returns the distinct years found in any of the inputs,
// newest first.
func MergeYears(lists ...[]int) []int {
	seen := make(map[int]struct{})
	out := []int{}
	for _, l := range lists {
		for _, y := range l {
			if _, dup := seen[y]; dup {
				continue
			}
			seen[y] = struct{}{}
			out = append(out, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
