package aggregate

import (
	"math"

	"github.com/crazedo/trendpulse/internal/models"
)

// Classify labels a series by comparing the mean of the last 3 points
// against the mean of the first 3. Thresholds: +50% Exploding, +15% Rising,
// -15% Declining, otherwise Stable.
func Classify(series []models.InterestPoint) string {
	if len(series) < 2 {
		return models.StatusStable
	}

	recent := meanTail(series, 3)
	older := meanHead(series, 3)
	change := (recent - older) / math.Max(older, 1) * 100

	switch {
	case change > 50:
		return models.StatusExploding
	case change > 15:
		return models.StatusRising
	case change < -15:
		return models.StatusDeclining
	}
	return models.StatusStable
}

func meanHead(series []models.InterestPoint, n int) float64 {
	if n > len(series) {
		n = len(series)
	}
	sum := 0
	for _, p := range series[:n] {
		sum += p.Value
	}
	return float64(sum) / float64(n)
}

func meanTail(series []models.InterestPoint, n int) float64 {
	if n > len(series) {
		n = len(series)
	}
	sum := 0
	for _, p := range series[len(series)-n:] {
		sum += p.Value
	}
	return float64(sum) / float64(n)
}
