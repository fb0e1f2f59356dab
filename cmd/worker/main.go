package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/crazedo/trendpulse/internal/aggregate"
	"github.com/crazedo/trendpulse/internal/config"
	"github.com/crazedo/trendpulse/internal/db"
	"github.com/crazedo/trendpulse/internal/jobs"
	"github.com/crazedo/trendpulse/internal/models"
	"github.com/crazedo/trendpulse/trends"
)

// maxTrending caps the refreshed snapshot; every keyword costs an upstream
// interest fetch.
const maxTrending = 10

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config error")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("config error")
	}

	database, err := db.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("db error")
	}
	defer database.Close()
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		logger.Fatal().Err(err).Msg("migrations error")
	}

	client := trends.New(trends.WithBaseURL(cfg.TrendsBaseURL))
	fetcher := trends.NewBreaker(client, logger)

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, asynq.Config{
		Concurrency: 4,
		Queues: map[string]int{
			"trending": 10, // higher priority
			"default":  5,  // default priority
		},
	})
	mux := asynq.NewServeMux()

	mux.HandleFunc(jobs.TaskRefreshTrending, func(ctx context.Context, t *asynq.Task) error {
		var p jobs.RefreshTrendingPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			logger.Error().Err(err).Msg("bad refresh payload")
			return err
		}
		start := time.Now()
		err := refreshTrending(ctx, logger, database, fetcher, p.Geo)
		duration := time.Since(start)

		if err != nil {
			if isRetryableError(err) {
				logger.Warn().Err(err).Str("geo", p.Geo).Dur("duration", duration).Msg("refresh failed, will retry")
				return err
			}
			logger.Error().Err(err).Str("geo", p.Geo).Dur("duration", duration).Msg("refresh failed permanently, dropping job")
			return nil
		}
		logger.Info().Str("geo", p.Geo).Dur("duration", duration).Msg("refresh done")
		return nil
	})

	scheduler := asynq.NewScheduler(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, nil)
	payload, err := json.Marshal(jobs.RefreshTrendingPayload{Geo: cfg.TrendsGeo})
	if err != nil {
		logger.Fatal().Err(err).Msg("marshal refresh payload")
	}
	spec := fmt.Sprintf("@every %s", cfg.RefreshInterval)
	if _, err := scheduler.Register(spec, asynq.NewTask(jobs.TaskRefreshTrending, payload), asynq.Queue("trending")); err != nil {
		logger.Fatal().Err(err).Msg("register refresh schedule")
	}
	if err := scheduler.Start(); err != nil {
		logger.Fatal().Err(err).Msg("start scheduler")
	}
	defer scheduler.Shutdown()

	logger.Info().Str("interval", cfg.RefreshInterval.String()).Msg("worker running")
	if err := srv.Run(mux); err != nil {
		logger.Fatal().Err(err).Msg("worker exited")
	}
}

// refreshTrending rebuilds the trending_searches snapshot for a geography:
// pull the daily feed, classify each keyword from its interest series, and
// swap the table in one transaction.
func refreshTrending(ctx context.Context, logger zerolog.Logger, database *db.DB, fetcher *trends.Breaker, geo string) error {
	daily, err := fetcher.FetchDailyTrends(ctx, geo)
	if err != nil {
		return fmt.Errorf("daily trends: %w", err)
	}
	if len(daily) == 0 {
		// Keep the previous snapshot rather than publishing an empty list.
		logger.Warn().Str("geo", geo).Msg("daily feed empty, keeping previous snapshot")
		return nil
	}
	if len(daily) > maxTrending {
		daily = daily[:maxTrending]
	}

	today := time.Now().UTC().Format("2006-01-02")
	rows := make([]models.TrendingSearch, 0, len(daily))
	for _, d := range daily {
		series := seriesFor(ctx, logger, fetcher, d.Query)
		rows = append(rows, models.TrendingSearch{
			Keyword:      d.Query,
			TrendLabel:   aggregate.Classify(series),
			SearchVolume: parseTraffic(d.Traffic),
			Date:         today,
		})
	}

	if err := database.ReplaceTrending(ctx, rows); err != nil {
		return fmt.Errorf("replace trending: %w", err)
	}
	logger.Info().Int("count", len(rows)).Str("geo", geo).Msg("trending snapshot replaced")
	return nil
}

// seriesFor aggregates the interest series for one trending keyword. When
// the fetch fails or comes back empty the synthetic series stands in, so
// every trending row still gets a label.
func seriesFor(ctx context.Context, logger zerolog.Logger, fetcher *trends.Breaker, keyword string) []models.InterestPoint {
	points, err := fetcher.FetchTimeSeries(ctx, keyword)
	if err != nil {
		logger.Warn().Err(err).Str("keyword", keyword).Msg("interest fetch failed, using synthetic series")
		return aggregate.SyntheticSeries(keyword)
	}
	series, source := aggregate.InterestOverTime(points, time.Now())
	if source == models.SourceEmpty {
		return aggregate.SyntheticSeries(keyword)
	}
	return series
}

// parseTraffic converts the feed's formatted traffic ("200K+", "1.5M+")
// into an absolute count. Unparseable input yields 0.
func parseTraffic(s string) int {
	s = strings.TrimSpace(strings.Trim(s, "+"))
	if s == "" {
		return 0
	}
	mult := 1.0
	switch s[len(s)-1] {
	case 'K', 'k':
		mult = 1_000
		s = s[:len(s)-1]
	case 'M', 'm':
		mult = 1_000_000
		s = s[:len(s)-1]
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return int(f * mult)
}

// isRetryableError decides whether a failed refresh should be retried
func isRetryableError(err error) bool {
	// Circuit open means upstream is down right now; retry later.
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return true
	}

	errStr := strings.ToLower(err.Error())

	// Network/connectivity issues - should retry
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection") ||
		strings.Contains(errStr, "network") {
		return true
	}

	// Upstream throttling - should retry later
	if strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") {
		return true
	}

	// Temporary server errors - should retry
	if strings.Contains(errStr, "status 5") {
		return true
	}

	// Everything else (malformed data, bad geo, etc.) - don't retry
	return false
}
