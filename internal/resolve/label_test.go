package resolve

import (
	"testing"

	"github.com/ewhall/lnr/internal/api"
	"github.com/ewhall/lnr/internal/cache"
	"github.com/ewhall/lnr/internal/exitcode"
	"github.com/ewhall/lnr/internal/testutil"
)

func setupLabelCache(t *testing.T, labels []CachedLabel) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	_ = cache.Set(LabelCacheKey(), labels)
}

func testLabelEntries() []CachedLabel {
	return []CachedLabel{
		{ID: "lbl1", Name: "bug", Color: "#eb5757"},
		{ID: "lbl2", Name: "Feature", Color: "#bb87fc"},
		{ID: "lbl3", Name: "tech debt", Color: "#95a2b3"},
	}
}

func emptyLabelsResponse() map[string]any {
	return map[string]any{
		"data": map[string]any{
			"issueLabels": map[string]any{
				"pageInfo": map[string]any{"hasNextPage": false, "endCursor": ""},
				"nodes":    []any{},
			},
		},
	}
}

func TestLabelResolveByName(t *testing.T) {
	setupLabelCache(t, testLabelEntries())

	result, err := Label(nil, "bug")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ID != "lbl1" {
		t.Errorf("got ID=%s, want lbl1", result.ID)
	}
}

func TestLabelResolveCaseInsensitive(t *testing.T) {
	setupLabelCache(t, testLabelEntries())

	result, err := Label(nil, "feature")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ID != "lbl2" {
		t.Errorf("got ID=%s, want lbl2", result.ID)
	}
}

func TestLabelNotFound(t *testing.T) {
	setupLabelCache(t, testLabelEntries())

	ms := testutil.NewMockServer(t)
	ms.HandleQuery("ListLabels", emptyLabelsResponse())
	client := api.New("key", api.WithEndpoint(ms.URL()))

	_, err := Label(client, "nonexistent")
	if err == nil {
		t.Fatal("expected not-found error")
	}
	if exitcode.ExitCode(err) != exitcode.NotFound {
		t.Errorf("exit code = %d, want %d", exitcode.ExitCode(err), exitcode.NotFound)
	}
}

func TestLabelsResolvesMultiple(t *testing.T) {
	setupLabelCache(t, testLabelEntries())

	results, notFound, err := Labels(nil, []string{"bug", "tech debt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notFound) != 0 {
		t.Errorf("unexpected misses: %v", notFound)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].ID != "lbl1" || results[1].ID != "lbl3" {
		t.Errorf("got IDs %s, %s; want lbl1, lbl3", results[0].ID, results[1].ID)
	}
}

func TestLabelsDeduplicates(t *testing.T) {
	setupLabelCache(t, testLabelEntries())

	results, _, err := Labels(nil, []string{"bug", "BUG", "bug"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1 after dedup", len(results))
	}
}

func TestLabelsReportsMissing(t *testing.T) {
	setupLabelCache(t, testLabelEntries())

	ms := testutil.NewMockServer(t)
	ms.HandleQuery("ListLabels", map[string]any{
		"data": map[string]any{
			"issueLabels": map[string]any{
				"pageInfo": map[string]any{"hasNextPage": false, "endCursor": ""},
				"nodes": []any{
					map[string]any{"id": "lbl1", "name": "bug", "color": "#eb5757"},
				},
			},
		},
	})
	client := api.New("key", api.WithEndpoint(ms.URL()))

	results, notFound, err := Labels(client, []string{"bug", "ghost"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].ID != "lbl1" {
		t.Errorf("got results %v, want just lbl1", results)
	}
	if len(notFound) != 1 || notFound[0] != "ghost" {
		t.Errorf("got notFound %v, want [ghost]", notFound)
	}
}

func TestLabelsRefreshFindsNewLabel(t *testing.T) {
	setupLabelCache(t, testLabelEntries())

	ms := testutil.NewMockServer(t)
	ms.HandleQuery("ListLabels", map[string]any{
		"data": map[string]any{
			"issueLabels": map[string]any{
				"pageInfo": map[string]any{"hasNextPage": false, "endCursor": ""},
				"nodes": []any{
					map[string]any{"id": "lbl9", "name": "urgent", "color": "#f2994a"},
				},
			},
		},
	})
	client := api.New("key", api.WithEndpoint(ms.URL()))

	results, notFound, err := Labels(client, []string{"urgent"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notFound) != 0 {
		t.Errorf("unexpected misses after refresh: %v", notFound)
	}
	if len(results) != 1 || results[0].ID != "lbl9" {
		t.Errorf("got %v, want lbl9 from refreshed cache", results)
	}
}
