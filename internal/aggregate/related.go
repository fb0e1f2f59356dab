package aggregate

import (
	"strings"

	"github.com/crazedo/trendpulse/internal/models"
	"github.com/crazedo/trendpulse/trends"
)

const (
	maxRelated = 8

	// liveThreshold: upstream sometimes returns a real but very short list;
	// anything at or below this length is labeled "fallback" so the client
	// does not over-trust it.
	liveThreshold = 4
)

// RelatedQueries takes up to the first 8 query strings in upstream rank
// order. An empty or missing ranking substitutes the deterministic fallback
// list for the keyword.
func RelatedQueries(ranked []trends.RankedQuery, keyword string) ([]string, string) {
	queries := make([]string, 0, maxRelated)
	for _, r := range ranked {
		if strings.TrimSpace(r.Query) == "" {
			continue
		}
		queries = append(queries, r.Query)
		if len(queries) == maxRelated {
			break
		}
	}

	if len(queries) == 0 {
		return FallbackQueries(keyword), models.SourceFallback
	}
	if len(queries) > liveThreshold {
		return queries, models.SourceLive
	}
	return queries, models.SourceFallback
}

// FallbackQueries is the synthetic related-query list served when upstream
// has nothing for a keyword. It is exactly 4 entries and never empty.
func FallbackQueries(keyword string) []string {
	return []string{
		keyword + " news",
		"what is " + keyword,
		keyword + " 2025",
		"best " + keyword,
	}
}
