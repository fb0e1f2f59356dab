package aggregate

import (
	"math"
	"sort"
	"strings"

	"github.com/crazedo/trendpulse/internal/models"
	"github.com/crazedo/trendpulse/trends"
)

const topRegions = 10

// InterestByRegion sorts the country breakdown descending by value and keeps
// the top 10. A row without a usable numeric value is kept with value 0; a
// row without a region name is dropped. Neither fails the rest of the list.
func InterestByRegion(rows []trends.RegionRow) ([]models.RegionInterest, string) {
	out := make([]models.RegionInterest, 0, len(rows))
	for _, r := range rows {
		if strings.TrimSpace(r.Name) == "" {
			continue
		}
		v := 0
		if len(r.Values) > 0 && !math.IsNaN(r.Values[0]) && !math.IsInf(r.Values[0], 0) {
			v = int(math.Round(r.Values[0]))
		}
		out = append(out, models.RegionInterest{Region: r.Name, Value: v})
	}
	if len(out) == 0 {
		return []models.RegionInterest{}, models.SourceEmpty
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	if len(out) > topRegions {
		out = out[:topRegions]
	}
	return out, models.SourceLive
}
