// Package routes wires the HTTP surface: cache-fronted trend queries, the
// persistence endpoints, health, and metrics.
package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/crazedo/trendpulse/internal/cache"
	"github.com/crazedo/trendpulse/internal/models"
	"github.com/crazedo/trendpulse/trends"
)

// TrendsFetcher is the upstream adapter surface the handlers need. Both
// trends.Client and trends.Breaker satisfy it.
type TrendsFetcher interface {
	FetchTimeSeries(ctx context.Context, keyword string) ([]trends.TimePoint, error)
	FetchRelated(ctx context.Context, keyword string) ([]trends.RankedQuery, error)
	FetchByRegion(ctx context.Context, keyword string) ([]trends.RegionRow, error)
}

// TrendStore is the persistence surface behind the trending and saved-trend
// endpoints.
type TrendStore interface {
	ListTrending(ctx context.Context) ([]models.TrendingSearch, error)
	SaveTrend(ctx context.Context, st models.SavedTrend) (models.SavedTrend, error)
	ListSavedTrends(ctx context.Context, userID string) ([]models.SavedTrend, error)
	DeleteSavedTrend(ctx context.Context, id int64) error
}

type Server struct {
	Router *chi.Mux
	Trends TrendsFetcher
	Store  TrendStore
	Cache  *cache.Store[any]
	Logger zerolog.Logger

	now func() time.Time
}

type ServerOptions struct {
	Trends TrendsFetcher
	Store  TrendStore
	Cache  *cache.Store[any]
	Logger zerolog.Logger

	// Now overrides the clock used for day-of-week alignment. Tests set it;
	// production leaves it nil.
	Now func() time.Time
}

func New(opts ServerOptions) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	}))

	s := &Server{
		Router: r,
		Trends: opts.Trends,
		Store:  opts.Store,
		Cache:  opts.Cache,
		Logger: opts.Logger,
		now:    opts.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}

	r.Get("/api/trend", s.handleTrend)
	r.Get("/api/pytrends/interest", s.handleInterest)
	r.Get("/api/pytrends/related", s.handleRelated)
	r.Get("/api/pytrends/regions", s.handleRegions)
	r.Get("/api/pytrends/health", s.handleHealth)

	r.Get("/api/trending", s.handleListTrending)
	r.Get("/api/trends/saved", s.handleListSaved)
	r.Post("/api/trends/saved", s.handleSaveTrend)
	r.Delete("/api/trends/saved/{id}", s.handleDeleteSaved)

	r.Handle("/metrics", promhttp.Handler())

	return s
}

// keywordParam extracts and normalizes the required q parameter. A missing
// or blank keyword is rejected before the cache or upstream is touched.
func (s *Server) keywordParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	keyword := cache.Normalize(r.URL.Query().Get("q"))
	if keyword == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing 'q' parameter"})
		return "", false
	}
	return keyword, true
}

// fetchCtx is the context upstream fetches run on. It is deliberately
// detached from the request: a coalesced fetch may have several waiters and
// must not die with the first one to disconnect.
func (s *Server) fetchCtx() context.Context {
	return context.Background()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error().Err(err).Msg("encode response")
	}
}

func errString(err error) *string {
	msg := err.Error()
	return &msg
}
