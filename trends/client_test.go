package trends

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const exploreBody = `)]}'
{"widgets":[
  {"id":"TIMESERIES","token":"ts-token","request":{"time":"now 7-d"}},
  {"id":"GEO_MAP","token":"geo-token","request":{"resolution":"COUNTRY"}},
  {"id":"RELATED_QUERIES","token":"rq-token","request":{}}
]}`

func widgetServer(t *testing.T, paths map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/trends/api/explore" {
			fmt.Fprint(w, exploreBody)
			return
		}
		body, ok := paths[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}))
}

func TestFetchTimeSeries(t *testing.T) {
	srv := widgetServer(t, map[string]string{
		"/trends/api/widgetdata/multiline": `)]}',
{"default":{"timelineData":[
  {"time":"1756684800","value":[42]},
  {"time":"1756771200","value":[58]},
  {"time":"not-a-number","value":[99]}
]}}`,
	})
	defer srv.Close()

	c := New(WithBaseURL(srv.URL), WithAttempts(1))
	points, err := c.FetchTimeSeries(context.Background(), "go")
	if err != nil {
		t.Fatalf("FetchTimeSeries: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("len = %d, want 2 (bad timestamp skipped)", len(points))
	}
	if points[0].Value != 42 || !points[0].Time.Equal(time.Unix(1756684800, 0).UTC()) {
		t.Errorf("points[0] = %+v", points[0])
	}
	if points[1].Value != 58 {
		t.Errorf("points[1] = %+v", points[1])
	}
}

func TestFetchTimeSeriesEmpty(t *testing.T) {
	srv := widgetServer(t, map[string]string{
		"/trends/api/widgetdata/multiline": `)]}',
{"default":{"timelineData":[]}}`,
	})
	defer srv.Close()

	c := New(WithBaseURL(srv.URL), WithAttempts(1))
	points, err := c.FetchTimeSeries(context.Background(), "obscure keyword")
	if err != nil {
		t.Fatalf("empty data must not be an error: %v", err)
	}
	if len(points) != 0 {
		t.Fatalf("len = %d, want 0", len(points))
	}
}

func TestFetchRelated(t *testing.T) {
	srv := widgetServer(t, map[string]string{
		"/trends/api/widgetdata/relatedsearches": `)]}',
{"default":{"rankedList":[{"rankedKeyword":[
  {"query":"go tutorial","value":100},
  {"query":"go install","value":80}
]}]}}`,
	})
	defer srv.Close()

	c := New(WithBaseURL(srv.URL), WithAttempts(1))
	ranked, err := c.FetchRelated(context.Background(), "go")
	if err != nil {
		t.Fatalf("FetchRelated: %v", err)
	}
	if len(ranked) != 2 || ranked[0].Query != "go tutorial" || ranked[1].Query != "go install" {
		t.Errorf("ranked = %+v", ranked)
	}
}

func TestFetchByRegion(t *testing.T) {
	srv := widgetServer(t, map[string]string{
		"/trends/api/widgetdata/comparedgeo": `)]}',
{"default":{"geoMapData":[
  {"geoName":"United States","value":[100]},
  {"geoName":"Ireland","value":[]}
]}}`,
	})
	defer srv.Close()

	c := New(WithBaseURL(srv.URL), WithAttempts(1))
	rows, err := c.FetchByRegion(context.Background(), "go")
	if err != nil {
		t.Fatalf("FetchByRegion: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}
	if rows[0].Name != "United States" || len(rows[0].Values) != 1 {
		t.Errorf("rows[0] = %+v", rows[0])
	}
	if len(rows[1].Values) != 0 {
		t.Errorf("rows[1] should carry its empty value array: %+v", rows[1])
	}
}

func TestFetchDailyTrends(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trends/api/dailytrends" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("geo") != "US" {
			t.Errorf("geo = %q", r.URL.Query().Get("geo"))
		}
		fmt.Fprint(w, `)]}',
{"default":{"trendingSearchesDays":[{"trendingSearches":[
  {"title":{"query":"solar eclipse"},"formattedTraffic":"2M+"},
  {"title":{"query":"nfl scores"},"formattedTraffic":"500K+"}
]}]}}`)
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL), WithAttempts(1))
	daily, err := c.FetchDailyTrends(context.Background(), "US")
	if err != nil {
		t.Fatalf("FetchDailyTrends: %v", err)
	}
	if len(daily) != 2 || daily[0].Query != "solar eclipse" || daily[0].Traffic != "2M+" {
		t.Errorf("daily = %+v", daily)
	}
}

func TestUpstreamFailureSurfacesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL), WithAttempts(1))
	if _, err := c.FetchTimeSeries(context.Background(), "go"); err == nil {
		t.Fatal("expected error from throttled upstream")
	}
}

func TestRetriesThrottledRequests(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/trends/api/explore" {
			if hits.Add(1) == 1 {
				http.Error(w, "slow down", http.StatusTooManyRequests)
				return
			}
			fmt.Fprint(w, exploreBody)
			return
		}
		fmt.Fprint(w, `)]}',
{"default":{"timelineData":[{"time":"1756684800","value":[10]}]}}`)
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL), WithAttempts(2))
	points, err := c.FetchTimeSeries(context.Background(), "go")
	if err != nil {
		t.Fatalf("expected retry to recover: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("len = %d, want 1", len(points))
	}
	if hits.Load() != 2 {
		t.Errorf("explore hit %d times, want 2", hits.Load())
	}
}

func TestStripPrefix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{")]}'\n{\"a\":1}", `{"a":1}`},
		{")]}',\n{\"a\":1}", `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
	}
	for _, tt := range tests {
		if got := string(stripPrefix([]byte(tt.in))); got != tt.want {
			t.Errorf("stripPrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
