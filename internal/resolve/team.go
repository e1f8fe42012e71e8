package resolve

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ewhall/lnr/internal/api"
	"github.com/ewhall/lnr/internal/cache"
	"github.com/ewhall/lnr/internal/exitcode"
)

// CachedTeam is the shape stored in the team cache.
type CachedTeam struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// TeamResult is the resolved team returned to callers.
type TeamResult struct {
	ID   string
	Key  string
	Name string
}

const listTeamsQuery = `query ListTeams($first: Int!, $after: String) {
  teams(first: $first, after: $after) {
    pageInfo {
      hasNextPage
      endCursor
    }
    nodes {
      id
      key
      name
    }
  }
}`

// TeamCacheKey returns the cache key for team data.
func TeamCacheKey() cache.Key {
	return cache.NewKey("teams")
}

// FetchTeams fetches all teams from the API and updates the cache.
func FetchTeams(client *api.Client) ([]CachedTeam, error) {
	var allTeams []CachedTeam
	var cursor *string

	for {
		vars := map[string]any{"first": 100}
		if cursor != nil {
			vars["after"] = *cursor
		}

		data, err := client.Execute(listTeamsQuery, vars)
		if err != nil {
			return nil, exitcode.General("fetching teams", err)
		}

		var resp struct {
			Teams struct {
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
				Nodes []CachedTeam `json:"nodes"`
			} `json:"teams"`
		}
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, exitcode.General("parsing teams response", err)
		}

		allTeams = append(allTeams, resp.Teams.Nodes...)

		if !resp.Teams.PageInfo.HasNextPage {
			break
		}
		c := resp.Teams.PageInfo.EndCursor
		cursor = &c
	}

	_ = cache.Set(TeamCacheKey(), allTeams)
	return allTeams, nil
}

// Team resolves a team identifier (opaque ID, key, or name) to a TeamResult,
// using the cache with invalidate-on-miss. Aliases map alias → team name and
// are checked first.
func Team(client *api.Client, identifier string, aliases map[string]string) (*TeamResult, error) {
	if aliases != nil {
		if target, ok := aliases[identifier]; ok {
			identifier = target
		}
	}

	// Opaque ID fast path — no lookup.
	if LooksLikeID(identifier) {
		return &TeamResult{ID: identifier}, nil
	}

	key := TeamCacheKey()

	if entries, ok := cache.Get[[]CachedTeam](key); ok {
		if t, found := matchTeam(entries, identifier); found {
			return t, nil
		}
	}

	entries, err := FetchTeams(client)
	if err != nil {
		return nil, err
	}

	if t, found := matchTeam(entries, identifier); found {
		return t, nil
	}

	return nil, exitcode.NotFoundError(fmt.Sprintf("team %q not found — run 'lnr team list' to see available teams", identifier))
}

// matchTeam looks up a team by key or name, both case-insensitive.
func matchTeam(entries []CachedTeam, identifier string) (*TeamResult, bool) {
	identLower := strings.ToLower(identifier)

	// Key match (case-insensitive)
	for _, t := range entries {
		if strings.ToLower(t.Key) == identLower {
			return &TeamResult{ID: t.ID, Key: t.Key, Name: t.Name}, true
		}
	}

	// Name match (case-insensitive)
	for _, t := range entries {
		if strings.ToLower(t.Name) == identLower {
			return &TeamResult{ID: t.ID, Key: t.Key, Name: t.Name}, true
		}
	}

	return nil, false
}
