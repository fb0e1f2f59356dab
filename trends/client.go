// Package trends wraps the Google Trends widget API for one keyword at a
// time. Every fetch runs the two-step widget dance: an explore call hands
// out per-widget tokens, then each widget endpoint is queried with its
// token. Retry with backoff lives here; callers treat the client as a black
// box that either returns tabular data, an empty table, or an error.
package trends

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	retry "github.com/avast/retry-go"
)

const DefaultBaseURL = "https://trends.google.com"

// Widget ids handed out by the explore endpoint.
const (
	widgetTimeSeries = "TIMESERIES"
	widgetGeoMap     = "GEO_MAP"
	widgetRelated    = "RELATED_QUERIES"
)

// timeframe matches the 7-day window the aggregation layer expects.
const timeframe = "now 7-d"

type Client struct {
	http    *http.Client
	baseURL *url.URL
	hl      string
	tz      int

	attempts uint
	delay    time.Duration
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if u, err := url.Parse(raw); err == nil {
			c.baseURL = u
		}
	}
}

func WithLanguage(hl string) Option {
	return func(c *Client) { c.hl = hl }
}

// WithAttempts overrides the retry budget. Tests use 1 to fail fast.
func WithAttempts(n uint) Option {
	return func(c *Client) { c.attempts = n }
}

func New(opts ...Option) *Client {
	u, _ := url.Parse(DefaultBaseURL)
	c := &Client{
		http:     &http.Client{Timeout: 25 * time.Second},
		baseURL:  u,
		hl:       "en-US",
		tz:       360,
		attempts: 3,
		delay:    500 * time.Millisecond,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// statusError carries a non-2xx upstream status so RetryIf can distinguish
// throttling from permanent failures.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("trends upstream status %d: %s", e.code, e.body)
}

func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	// Transport errors (timeouts, resets) are worth another try.
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// doJSON fetches a widget API path, strips the XSSI prefix, and decodes the
// body into out, retrying throttles and transient transport failures.
func (c *Client) doJSON(ctx context.Context, p string, q url.Values, out any) error {
	u := *c.baseURL
	u.Path = path.Join(u.Path, p)
	u.RawQuery = q.Encode()

	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
			if err != nil {
				return err
			}
			req.Header.Set("Accept", "application/json")

			resp, err := c.http.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			if resp.StatusCode != http.StatusOK {
				return &statusError{code: resp.StatusCode, body: string(body)}
			}
			return json.Unmarshal(stripPrefix(body), out)
		},
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(retryable),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
}

// stripPrefix drops the anti-XSSI junk (")]}'," and a newline) the widget
// API prepends to every JSON body.
func stripPrefix(b []byte) []byte {
	if i := bytes.IndexByte(b, '{'); i > 0 {
		return b[i:]
	}
	return b
}

func (c *Client) baseQuery() url.Values {
	q := url.Values{}
	q.Set("hl", c.hl)
	q.Set("tz", strconv.Itoa(c.tz))
	return q
}

// explore requests widget tokens for a keyword and returns the widget with
// the given id.
func (c *Client) explore(ctx context.Context, keyword, id string) (*widget, error) {
	req := map[string]any{
		"comparisonItem": []map[string]any{
			{"keyword": keyword, "geo": "", "time": timeframe},
		},
		"category": 0,
		"property": "",
	}
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	q := c.baseQuery()
	q.Set("req", string(reqJSON))

	var resp exploreResponse
	if err := c.doJSON(ctx, "/trends/api/explore", q, &resp); err != nil {
		return nil, fmt.Errorf("explore %q: %w", keyword, err)
	}
	for i := range resp.Widgets {
		if resp.Widgets[i].ID == id {
			return &resp.Widgets[i], nil
		}
	}
	return nil, fmt.Errorf("explore %q: no %s widget in response", keyword, id)
}

// widgetQuery builds the query for a widgetdata endpoint from the widget's
// echoed request plus its token.
func (c *Client) widgetQuery(w *widget) (url.Values, error) {
	reqJSON, err := json.Marshal(w.Request)
	if err != nil {
		return nil, err
	}
	q := c.baseQuery()
	q.Set("req", string(reqJSON))
	q.Set("token", w.Token)
	return q, nil
}

// FetchTimeSeries returns the raw interest samples for the 7-day window, or
// a nil slice when upstream has no data for the keyword.
func (c *Client) FetchTimeSeries(ctx context.Context, keyword string) ([]TimePoint, error) {
	w, err := c.explore(ctx, keyword, widgetTimeSeries)
	if err != nil {
		return nil, err
	}
	q, err := c.widgetQuery(w)
	if err != nil {
		return nil, err
	}

	var resp multilineResponse
	if err := c.doJSON(ctx, "/trends/api/widgetdata/multiline", q, &resp); err != nil {
		return nil, fmt.Errorf("multiline %q: %w", keyword, err)
	}

	var points []TimePoint
	for _, p := range resp.Default.TimelineData {
		secs, err := strconv.ParseInt(p.Time, 10, 64)
		if err != nil {
			continue
		}
		v := 0
		if len(p.Value) > 0 {
			v = p.Value[0]
		}
		points = append(points, TimePoint{Time: time.Unix(secs, 0).UTC(), Value: v})
	}
	return points, nil
}

// FetchRelated returns upstream's top related queries for the keyword in
// rank order, or a nil slice when there are none.
func (c *Client) FetchRelated(ctx context.Context, keyword string) ([]RankedQuery, error) {
	w, err := c.explore(ctx, keyword, widgetRelated)
	if err != nil {
		return nil, err
	}
	q, err := c.widgetQuery(w)
	if err != nil {
		return nil, err
	}

	var resp relatedSearchesResponse
	if err := c.doJSON(ctx, "/trends/api/widgetdata/relatedsearches", q, &resp); err != nil {
		return nil, fmt.Errorf("relatedsearches %q: %w", keyword, err)
	}

	if len(resp.Default.RankedList) == 0 {
		return nil, nil
	}
	var ranked []RankedQuery
	for _, r := range resp.Default.RankedList[0].RankedKeyword {
		ranked = append(ranked, RankedQuery{Query: r.Query, Value: r.Value})
	}
	return ranked, nil
}

// FetchByRegion returns the country breakdown for the keyword, unsorted, or
// a nil slice when upstream has no data.
func (c *Client) FetchByRegion(ctx context.Context, keyword string) ([]RegionRow, error) {
	w, err := c.explore(ctx, keyword, widgetGeoMap)
	if err != nil {
		return nil, err
	}
	q, err := c.widgetQuery(w)
	if err != nil {
		return nil, err
	}

	var resp comparedGeoResponse
	if err := c.doJSON(ctx, "/trends/api/widgetdata/comparedgeo", q, &resp); err != nil {
		return nil, fmt.Errorf("comparedgeo %q: %w", keyword, err)
	}

	var rows []RegionRow
	for _, g := range resp.Default.GeoMapData {
		rows = append(rows, RegionRow{Name: g.GeoName, Values: g.Value})
	}
	return rows, nil
}

// FetchDailyTrends returns the trending-searches feed for a geography. The
// worker uses it to refresh the trending table.
func (c *Client) FetchDailyTrends(ctx context.Context, geo string) ([]DailyTrend, error) {
	q := c.baseQuery()
	q.Set("geo", geo)

	var resp dailyTrendsResponse
	if err := c.doJSON(ctx, "/trends/api/dailytrends", q, &resp); err != nil {
		return nil, fmt.Errorf("dailytrends %q: %w", geo, err)
	}

	var out []DailyTrend
	for _, day := range resp.Default.TrendingSearchesDays {
		for _, t := range day.TrendingSearches {
			if t.Title.Query == "" {
				continue
			}
			out = append(out, DailyTrend{Query: t.Title.Query, Traffic: t.FormattedTraffic})
		}
		if len(out) > 0 {
			break // only the most recent day
		}
	}
	return out, nil
}
