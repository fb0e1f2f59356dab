package routes

import (
	"net/http"
	"sync"

	"github.com/crazedo/trendpulse/internal/aggregate"
	"github.com/crazedo/trendpulse/internal/cache"
	"github.com/crazedo/trendpulse/internal/metrics"
	"github.com/crazedo/trendpulse/internal/models"
	"github.com/crazedo/trendpulse/trends"
)

func (s *Server) countCache(kind string, hit bool) {
	if hit {
		metrics.CacheHits.WithLabelValues(kind).Inc()
	} else {
		metrics.CacheMisses.WithLabelValues(kind).Inc()
	}
}

// handleInterest serves the 7-day interest series for a keyword. Upstream
// failure degrades to a 200 with an empty series and error set; failures are
// never cached, so the next request retries.
func (s *Server) handleInterest(w http.ResponseWriter, r *http.Request) {
	keyword, ok := s.keywordParam(w, r)
	if !ok {
		return
	}

	key := cache.Key("interest", keyword)
	v, hit, err := s.Cache.Fetch(key, func() (any, error) {
		points, err := s.Trends.FetchTimeSeries(s.fetchCtx(), keyword)
		if err != nil {
			return nil, err
		}
		series, source := aggregate.InterestOverTime(points, s.now())
		return models.InterestEnvelope{
			Keyword:          keyword,
			InterestOverTime: series,
			Source:           source,
		}, nil
	})
	s.countCache("interest", hit)

	if err != nil {
		s.Logger.Error().Err(err).Str("keyword", keyword).Msg("interest fetch failed")
		s.writeJSON(w, http.StatusOK, models.InterestEnvelope{
			Keyword:          keyword,
			InterestOverTime: []models.InterestPoint{},
			Error:            errString(err),
			Source:           models.SourceError,
		})
		return
	}
	s.writeJSON(w, http.StatusOK, v.(models.InterestEnvelope))
}

// handleRelated serves related queries. Upstream failure degrades to a 200
// carrying the deterministic fallback list.
func (s *Server) handleRelated(w http.ResponseWriter, r *http.Request) {
	keyword, ok := s.keywordParam(w, r)
	if !ok {
		return
	}

	key := cache.Key("related", keyword)
	v, hit, err := s.Cache.Fetch(key, func() (any, error) {
		ranked, err := s.Trends.FetchRelated(s.fetchCtx(), keyword)
		if err != nil {
			return nil, err
		}
		queries, source := aggregate.RelatedQueries(ranked, keyword)
		return models.RelatedEnvelope{
			Keyword:        keyword,
			RelatedQueries: queries,
			Source:         source,
		}, nil
	})
	s.countCache("related", hit)

	if err != nil {
		s.Logger.Error().Err(err).Str("keyword", keyword).Msg("related fetch failed")
		s.writeJSON(w, http.StatusOK, models.RelatedEnvelope{
			Keyword:        keyword,
			RelatedQueries: aggregate.FallbackQueries(keyword),
			Error:          errString(err),
			Source:         models.SourceFallback,
		})
		return
	}
	s.writeJSON(w, http.StatusOK, v.(models.RelatedEnvelope))
}

// handleRegions serves the top-10 country breakdown. Upstream failure
// degrades to a 200 with an empty list.
func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	keyword, ok := s.keywordParam(w, r)
	if !ok {
		return
	}

	key := cache.Key("regions", keyword)
	v, hit, err := s.Cache.Fetch(key, func() (any, error) {
		rows, err := s.Trends.FetchByRegion(s.fetchCtx(), keyword)
		if err != nil {
			return nil, err
		}
		regions, source := aggregate.InterestByRegion(rows)
		return models.RegionsEnvelope{
			Keyword:          keyword,
			InterestByRegion: regions,
			Source:           source,
		}, nil
	})
	s.countCache("regions", hit)

	if err != nil {
		s.Logger.Error().Err(err).Str("keyword", keyword).Msg("regions fetch failed")
		s.writeJSON(w, http.StatusOK, models.RegionsEnvelope{
			Keyword:          keyword,
			InterestByRegion: []models.RegionInterest{},
			Error:            errString(err),
			Source:           models.SourceError,
		})
		return
	}
	s.writeJSON(w, http.StatusOK, v.(models.RegionsEnvelope))
}

// handleTrend serves the consolidated envelope. The three facets are fetched
// concurrently; a failed time-series fetch fails the whole request with 502
// (unlike the single-facet endpoints, which stay 200 when degraded), while
// related/regions failures degrade to fallback/empty inside a success
// envelope. Only full successes are cached.
func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	keyword, ok := s.keywordParam(w, r)
	if !ok {
		return
	}

	ttlSecs := int(s.Cache.TTL().Seconds())
	key := cache.Key("trend", keyword)

	v, hit, err := s.Cache.Fetch(key, func() (any, error) {
		ctx := s.fetchCtx()

		var (
			wg        sync.WaitGroup
			tsPoints  []trends.TimePoint
			ranked    []trends.RankedQuery
			regionRaw []trends.RegionRow
			tsErr     error
			relErr    error
			regErr    error
		)
		wg.Add(3)
		go func() {
			defer wg.Done()
			tsPoints, tsErr = s.Trends.FetchTimeSeries(ctx, keyword)
		}()
		go func() {
			defer wg.Done()
			ranked, relErr = s.Trends.FetchRelated(ctx, keyword)
		}()
		go func() {
			defer wg.Done()
			regionRaw, regErr = s.Trends.FetchByRegion(ctx, keyword)
		}()
		wg.Wait()

		if tsErr != nil {
			return nil, tsErr
		}
		if relErr != nil {
			s.Logger.Warn().Err(relErr).Str("keyword", keyword).Msg("related facet degraded")
			ranked = nil
		}
		if regErr != nil {
			s.Logger.Warn().Err(regErr).Str("keyword", keyword).Msg("regions facet degraded")
			regionRaw = nil
		}

		series, seriesSource := aggregate.InterestOverTime(tsPoints, s.now())
		if seriesSource == models.SourceEmpty {
			// No data for the keyword at all; a deterministic synthetic
			// series keeps the consolidated payload renderable.
			series = aggregate.SyntheticSeries(keyword)
			seriesSource = models.SourceFallback
		}
		queries, _ := aggregate.RelatedQueries(ranked, keyword)
		regions, _ := aggregate.InterestByRegion(regionRaw)

		// The series facet decides the envelope's source; a fallback related
		// list alone does not downgrade live data.
		source := seriesSource

		return models.TrendEnvelope{
			Keyword:          keyword,
			InterestOverTime: series,
			RelatedQueries:   queries,
			InterestByRegion: regions,
			Source:           source,
			CacheDuration:    ttlSecs,
		}, nil
	})
	s.countCache("trend", hit)

	if err != nil {
		s.Logger.Error().Err(err).Str("keyword", keyword).Msg("trend fetch failed")
		s.writeJSON(w, http.StatusBadGateway, models.TrendEnvelope{
			Keyword:          keyword,
			InterestOverTime: []models.InterestPoint{},
			RelatedQueries:   aggregate.FallbackQueries(keyword),
			InterestByRegion: []models.RegionInterest{},
			Error:            errString(err),
			Source:           models.SourceError,
			CacheDuration:    ttlSecs,
		})
		return
	}

	env := v.(models.TrendEnvelope)
	// Cached is set on this copy only; the stored envelope stays untouched.
	env.Cached = hit
	s.writeJSON(w, http.StatusOK, env)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":                 "ok",
		"service":                "trendpulse",
		"cache_size":             s.Cache.Len(),
		"cache_duration_seconds": int(s.Cache.TTL().Seconds()),
	})
}
