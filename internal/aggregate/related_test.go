package aggregate

import (
	"reflect"
	"testing"

	"github.com/crazedo/trendpulse/internal/models"
	"github.com/crazedo/trendpulse/trends"
)

func rankedList(queries ...string) []trends.RankedQuery {
	out := make([]trends.RankedQuery, 0, len(queries))
	for i, q := range queries {
		out = append(out, trends.RankedQuery{Query: q, Value: 100 - i})
	}
	return out
}

func TestRelatedQueriesFallbackOnEmpty(t *testing.T) {
	queries, source := RelatedQueries(nil, "foo")
	want := []string{"foo news", "what is foo", "foo 2025", "best foo"}
	if !reflect.DeepEqual(queries, want) {
		t.Errorf("fallback list = %v, want %v", queries, want)
	}
	if source != models.SourceFallback {
		t.Errorf("source = %q, want fallback", source)
	}
}

func TestRelatedQueriesTruncatesToEight(t *testing.T) {
	queries, source := RelatedQueries(rankedList("a", "b", "c", "d", "e", "f", "g", "h", "i", "j"), "kw")
	if len(queries) != 8 {
		t.Fatalf("len = %d, want 8", len(queries))
	}
	want := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	if !reflect.DeepEqual(queries, want) {
		t.Errorf("rank order not preserved: %v", queries)
	}
	if source != models.SourceLive {
		t.Errorf("source = %q, want live", source)
	}
}

func TestRelatedQueriesShortListTaggedFallback(t *testing.T) {
	// A short real list is served but labeled fallback so clients do not
	// over-trust it.
	queries, source := RelatedQueries(rankedList("a", "b", "c"), "kw")
	if !reflect.DeepEqual(queries, []string{"a", "b", "c"}) {
		t.Errorf("short list mangled: %v", queries)
	}
	if source != models.SourceFallback {
		t.Errorf("source = %q, want fallback for short list", source)
	}
}

func TestRelatedQueriesSkipsBlankEntries(t *testing.T) {
	ranked := []trends.RankedQuery{
		{Query: "a"}, {Query: "   "}, {Query: "b"},
	}
	queries, _ := RelatedQueries(ranked, "kw")
	if !reflect.DeepEqual(queries, []string{"a", "b"}) {
		t.Errorf("blank entries not skipped: %v", queries)
	}
}
