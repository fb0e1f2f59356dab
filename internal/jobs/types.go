package jobs

const TaskRefreshTrending = "trends:refresh_trending"

type RefreshTrendingPayload struct {
	Geo string `json:"geo"`
}
