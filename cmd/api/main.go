package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/crazedo/trendpulse/internal/cache"
	"github.com/crazedo/trendpulse/internal/config"
	"github.com/crazedo/trendpulse/internal/db"
	"github.com/crazedo/trendpulse/internal/http/routes"
	"github.com/crazedo/trendpulse/trends"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config error")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("config error")
	}

	// DB
	database, err := db.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("db error")
	}
	defer database.Close()
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		logger.Fatal().Err(err).Msg("migrations error")
	}

	// Upstream adapter behind its circuit breaker
	client := trends.New(trends.WithBaseURL(cfg.TrendsBaseURL))
	fetcher := trends.NewBreaker(client, logger)

	// Process-wide response cache
	responses := cache.New[any](cfg.CacheTTL)

	s := routes.New(routes.ServerOptions{
		Trends: fetcher,
		Store:  database,
		Cache:  responses,
		Logger: logger,
	})

	var h http.Handler = s.Router
	h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("duration", duration).
			Msg("request")
	})(h)
	h = hlog.NewHandler(logger)(h)

	logger.Info().Str("port", cfg.Port).Dur("cache_ttl", cfg.CacheTTL).Msg("starting api")
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: h}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
