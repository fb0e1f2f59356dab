// Package models defines the JSON envelopes served by the API and the
// records persisted by the trend store.
package models

// Source tags describe how the data in an envelope was obtained, so the
// client can decide how much to trust it.
const (
	SourceLive     = "live"
	SourceEmpty    = "empty"
	SourceFallback = "fallback"
	SourceError    = "error"
)

// Trend status labels, derived from the shape of the interest series.
const (
	StatusExploding = "Exploding"
	StatusRising    = "Rising"
	StatusStable    = "Stable"
	StatusDeclining = "Declining"
)

// InterestPoint is one day in the 7-day interest series.
type InterestPoint struct {
	Date  string `json:"date"` // weekday abbreviation, Mon..Sun
	Value int    `json:"value"`
}

// RegionInterest is one entry in the top-regions breakdown.
type RegionInterest struct {
	Region string `json:"region"`
	Value  int    `json:"value"`
}

// InterestEnvelope is the response of /api/pytrends/interest.
type InterestEnvelope struct {
	Keyword          string          `json:"keyword"`
	InterestOverTime []InterestPoint `json:"interest_over_time"`
	Error            *string         `json:"error"`
	Source           string          `json:"source"`
}

// RelatedEnvelope is the response of /api/pytrends/related.
type RelatedEnvelope struct {
	Keyword        string   `json:"keyword"`
	RelatedQueries []string `json:"related_queries"`
	Error          *string  `json:"error"`
	Source         string   `json:"source"`
}

// RegionsEnvelope is the response of /api/pytrends/regions.
type RegionsEnvelope struct {
	Keyword          string           `json:"keyword"`
	InterestByRegion []RegionInterest `json:"interest_by_region"`
	Error            *string          `json:"error"`
	Source           string           `json:"source"`
}

// TrendEnvelope is the consolidated response of /api/trend. Cached is set on
// a copy of the stored envelope, never on the cached value itself.
type TrendEnvelope struct {
	Keyword          string           `json:"keyword"`
	InterestOverTime []InterestPoint  `json:"interest_over_time"`
	RelatedQueries   []string         `json:"related_queries"`
	InterestByRegion []RegionInterest `json:"interest_by_region"`
	Error            *string          `json:"error"`
	Source           string           `json:"source"`
	Cached           bool             `json:"cached"`
	CacheDuration    int              `json:"cache_duration"`
}

// TrendingSearch is a row in the trending_searches table, refreshed
// periodically by the worker.
type TrendingSearch struct {
	ID           int64  `json:"id"`
	Keyword      string `json:"keyword"`
	TrendLabel   string `json:"trend_label"`
	SearchVolume int    `json:"search_volume"`
	Date         string `json:"date"`
	AISummary    string `json:"ai_summary,omitempty"`
}

// SavedTrend is a row in the user_saved_trends table.
type SavedTrend struct {
	ID           int64  `json:"id"`
	UserID       string `json:"user_id"`
	Keyword      string `json:"keyword"`
	TrendLabel   string `json:"trend_label"`
	SearchVolume int    `json:"search_volume"`
	Date         string `json:"date"`
	AISummary    string `json:"ai_summary,omitempty"`
}
