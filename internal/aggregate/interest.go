// Package aggregate holds the pure transformations from raw upstream tables
// to the fixed response shapes. Nothing here does I/O; "now" is a parameter
// wherever day arithmetic applies, so every function is deterministic under
// test.
package aggregate

import (
	"math"
	"time"

	"github.com/crazedo/trendpulse/internal/models"
	"github.com/crazedo/trendpulse/trends"
)

// dayLabels is the fixed weekday cycle used for the rolling window,
// anchored at Mon=0.
var dayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// InterestOverTime collapses raw sub-daily samples into the 7-entry series
// aligned to the rolling week ending on now's weekday. Samples sharing a
// weekday label are averaged; a day with no samples emits 0. An empty input
// yields an empty series tagged "empty" rather than a zeroed week.
func InterestOverTime(points []trends.TimePoint, now time.Time) ([]models.InterestPoint, string) {
	if len(points) == 0 {
		return []models.InterestPoint{}, models.SourceEmpty
	}

	sums := make(map[string]int, 7)
	counts := make(map[string]int, 7)
	for _, p := range points {
		label := dayLabels[weekdayIndex(p.Time)]
		sums[label] += p.Value
		counts[label]++
	}

	today := weekdayIndex(now)
	out := make([]models.InterestPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		label := dayLabels[((today-i)%7+7)%7]
		v := 0
		if c := counts[label]; c > 0 {
			v = int(math.Round(float64(sums[label]) / float64(c)))
		}
		out = append(out, models.InterestPoint{Date: label, Value: v})
	}
	return out, models.SourceLive
}

// weekdayIndex maps time.Weekday (Sunday=0) onto the Mon=0..Sun=6 cycle.
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
