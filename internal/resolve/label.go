package resolve

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ewhall/lnr/internal/api"
	"github.com/ewhall/lnr/internal/cache"
	"github.com/ewhall/lnr/internal/exitcode"
)

// CachedLabel is the shape stored in the label cache.
type CachedLabel struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// LabelResult is the resolved label returned to callers.
type LabelResult struct {
	ID   string
	Name string
}

const listLabelsQuery = `query ListLabels($first: Int!, $after: String) {
  issueLabels(first: $first, after: $after) {
    pageInfo {
      hasNextPage
      endCursor
    }
    nodes {
      id
      name
      color
    }
  }
}`

// LabelCacheKey returns the cache key for label data.
func LabelCacheKey() cache.Key {
	return cache.NewKey("labels")
}

// FetchLabels fetches all issue labels and updates the cache.
func FetchLabels(client *api.Client) ([]CachedLabel, error) {
	var allLabels []CachedLabel
	var cursor *string

	for {
		vars := map[string]any{"first": 100}
		if cursor != nil {
			vars["after"] = *cursor
		}

		data, err := client.Execute(listLabelsQuery, vars)
		if err != nil {
			return nil, exitcode.General("fetching labels", err)
		}

		var resp struct {
			IssueLabels struct {
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
				Nodes []CachedLabel `json:"nodes"`
			} `json:"issueLabels"`
		}
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, exitcode.General("parsing labels response", err)
		}

		allLabels = append(allLabels, resp.IssueLabels.Nodes...)

		if !resp.IssueLabels.PageInfo.HasNextPage {
			break
		}
		c := resp.IssueLabels.PageInfo.EndCursor
		cursor = &c
	}

	_ = cache.Set(LabelCacheKey(), allLabels)
	return allLabels, nil
}

// Label resolves a single label name to a LabelResult with
// invalidate-on-miss caching.
func Label(client *api.Client, identifier string) (*LabelResult, error) {
	if LooksLikeID(identifier) {
		return &LabelResult{ID: identifier}, nil
	}

	key := LabelCacheKey()

	if entries, ok := cache.Get[[]CachedLabel](key); ok {
		if l, found := matchLabel(entries, identifier); found {
			return l, nil
		}
	}

	entries, err := FetchLabels(client)
	if err != nil {
		return nil, err
	}

	if l, found := matchLabel(entries, identifier); found {
		return l, nil
	}

	return nil, exitcode.NotFoundError(fmt.Sprintf("label %q not found — run 'lnr label list' to see available labels", identifier))
}

// Labels resolves multiple label names. Names that cannot be resolved are
// returned in the second slice rather than failing the call — callers decide
// whether a miss is a warning or an error. Duplicate names resolve to a
// single entry.
func Labels(client *api.Client, names []string) ([]*LabelResult, []string, error) {
	key := LabelCacheKey()

	entries, ok := cache.Get[[]CachedLabel](key)
	if !ok {
		var err error
		entries, err = FetchLabels(client)
		if err != nil {
			return nil, nil, err
		}
	}

	resolve := func(entries []CachedLabel, names []string) (found []*LabelResult, missing []string) {
		for _, name := range names {
			if l, ok := matchLabel(entries, name); ok {
				found = append(found, l)
			} else {
				missing = append(missing, name)
			}
		}
		return found, missing
	}

	results, notFound := resolve(entries, names)

	if len(notFound) > 0 {
		// Try refreshing cache and retry not-found ones
		var err error
		entries, err = FetchLabels(client)
		if err != nil {
			return nil, nil, err
		}
		refreshed, stillMissing := resolve(entries, notFound)
		results = append(results, refreshed...)
		notFound = stillMissing
	}

	// Deduplicate by ID, preserving order.
	seen := make(map[string]bool)
	deduped := results[:0]
	for _, l := range results {
		if !seen[l.ID] {
			seen[l.ID] = true
			deduped = append(deduped, l)
		}
	}

	return deduped, notFound, nil
}

// matchLabel looks up a label by exact name (case-insensitive).
func matchLabel(entries []CachedLabel, identifier string) (*LabelResult, bool) {
	identLower := strings.ToLower(identifier)
	for _, l := range entries {
		if strings.ToLower(l.Name) == identLower {
			return &LabelResult{ID: l.ID, Name: l.Name}, true
		}
	}
	return nil, false
}
