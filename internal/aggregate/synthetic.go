package aggregate

import "github.com/crazedo/trendpulse/internal/models"

// SyntheticSeries builds a placeholder 7-day series from a cheap keyword
// hash, so repeated requests for the same keyword chart identically. It
// stands in when the interest fetch fails or comes back empty: the worker
// can still classify a trending keyword, and the consolidated endpoint stays
// renderable. Values rise across the week from a keyword-dependent base and
// never drop below 20.
func SyntheticSeries(keyword string) []models.InterestPoint {
	hash := 0
	for _, r := range keyword {
		hash += int(r)
	}
	base := 40 + (hash%100)%40

	out := make([]models.InterestPoint, 0, 7)
	for i, label := range dayLabels {
		v := base - 15 + i*8
		if v < 20 {
			v = 20
		}
		out = append(out, models.InterestPoint{Date: label, Value: v})
	}
	return out
}
