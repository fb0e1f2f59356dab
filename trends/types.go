package trends

import "time"

// TimePoint is one raw sample from the interest-over-time widget, at
// whatever sub-daily granularity upstream chose for the window.
type TimePoint struct {
	Time  time.Time
	Value int
}

// RankedQuery is one entry of the related-queries ranking, in upstream rank
// order.
type RankedQuery struct {
	Query string
	Value int
}

// RegionRow is one country row from the geo widget. Values mirrors the
// upstream value array; it may be empty for low-volume regions.
type RegionRow struct {
	Name   string
	Values []float64
}

// DailyTrend is one entry of the daily trending-searches feed.
type DailyTrend struct {
	Query   string
	Traffic string // formatted, e.g. "200K+"
}

// Wire shapes for the widget API. Responses carry an XSSI prefix that is
// stripped before decoding.

type exploreResponse struct {
	Widgets []widget `json:"widgets"`
}

type widget struct {
	ID      string         `json:"id"`
	Token   string         `json:"token"`
	Request map[string]any `json:"request"`
}

type multilineResponse struct {
	Default struct {
		TimelineData []struct {
			Time  string `json:"time"` // unix seconds, as a string
			Value []int  `json:"value"`
		} `json:"timelineData"`
	} `json:"default"`
}

type comparedGeoResponse struct {
	Default struct {
		GeoMapData []struct {
			GeoName string    `json:"geoName"`
			Value   []float64 `json:"value"`
		} `json:"geoMapData"`
	} `json:"default"`
}

type relatedSearchesResponse struct {
	Default struct {
		RankedList []struct {
			RankedKeyword []struct {
				Query string `json:"query"`
				Value int    `json:"value"`
			} `json:"rankedKeyword"`
		} `json:"rankedList"`
	} `json:"default"`
}

type dailyTrendsResponse struct {
	Default struct {
		TrendingSearchesDays []struct {
			TrendingSearches []struct {
				Title struct {
					Query string `json:"query"`
				} `json:"title"`
				FormattedTraffic string `json:"formattedTraffic"`
			} `json:"trendingSearches"`
		} `json:"trendingSearchesDays"`
	} `json:"default"`
}
