package trends

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/crazedo/trendpulse/internal/metrics"
)

// Breaker wraps a Client with a circuit breaker so a throttled or dead
// upstream stops eating request latency: once the circuit opens, calls fail
// immediately and handlers fall straight through to their degraded path.
// One breaker covers all widget kinds; the upstream throttles per client
// address, not per endpoint.
type Breaker struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[any]
}

func NewBreaker(client *Client, logger zerolog.Logger) *Breaker {
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "google-trends",
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("upstream circuit state change")
			metrics.BreakerState.Set(stateValue(to))
		},
	})
	return &Breaker{client: client, cb: cb}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func (b *Breaker) execute(kind string, fn func() (any, error)) (any, error) {
	v, err := b.cb.Execute(fn)
	switch {
	case err == nil:
		metrics.UpstreamRequests.WithLabelValues(kind, "ok").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.UpstreamRequests.WithLabelValues(kind, "rejected").Inc()
	default:
		metrics.UpstreamRequests.WithLabelValues(kind, "error").Inc()
	}
	return v, err
}

func (b *Breaker) FetchTimeSeries(ctx context.Context, keyword string) ([]TimePoint, error) {
	v, err := b.execute("interest", func() (any, error) {
		return b.client.FetchTimeSeries(ctx, keyword)
	})
	if err != nil {
		return nil, err
	}
	return v.([]TimePoint), nil
}

func (b *Breaker) FetchRelated(ctx context.Context, keyword string) ([]RankedQuery, error) {
	v, err := b.execute("related", func() (any, error) {
		return b.client.FetchRelated(ctx, keyword)
	})
	if err != nil {
		return nil, err
	}
	return v.([]RankedQuery), nil
}

func (b *Breaker) FetchByRegion(ctx context.Context, keyword string) ([]RegionRow, error) {
	v, err := b.execute("regions", func() (any, error) {
		return b.client.FetchByRegion(ctx, keyword)
	})
	if err != nil {
		return nil, err
	}
	return v.([]RegionRow), nil
}

func (b *Breaker) FetchDailyTrends(ctx context.Context, geo string) ([]DailyTrend, error) {
	v, err := b.execute("dailytrends", func() (any, error) {
		return b.client.FetchDailyTrends(ctx, geo)
	})
	if err != nil {
		return nil, err
	}
	return v.([]DailyTrend), nil
}
