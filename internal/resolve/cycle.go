package resolve

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ewhall/lnr/internal/api"
	"github.com/ewhall/lnr/internal/cache"
	"github.com/ewhall/lnr/internal/exitcode"
)

// CachedCycle is the shape stored in the cycle cache.
type CachedCycle struct {
	ID       string  `json:"id"`
	Number   int     `json:"number"`
	Name     string  `json:"name"`
	StartsAt string  `json:"startsAt"`
	EndsAt   string  `json:"endsAt"`
	Progress float64 `json:"progress"`
}

// DisplayName returns the cycle's display name: the custom name if set,
// otherwise "Cycle {number}".
func (c *CachedCycle) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("Cycle %d", c.Number)
}

// CycleResult is the resolved cycle returned to callers.
type CycleResult struct {
	ID     string
	Number int
	Name   string // display name (custom or generated)
}

const listCyclesQuery = `query ListCycles($filter: CycleFilter) {
  cycles(filter: $filter, first: 250) {
    nodes {
      id
      number
      name
      startsAt
      endsAt
      progress
    }
  }
}`

// CycleCacheKey returns the cache key for cycle data scoped to a team.
// An empty team ID keys the unscoped, all-teams cycle list.
func CycleCacheKey(teamID string) cache.Key {
	if teamID == "" {
		return cache.NewKey("cycles")
	}
	return cache.NewScopedKey("cycles", teamID)
}

// FetchCycles fetches cycles from the API and updates the cache. When teamID
// is non-empty the fetch is filtered to that team's cycles.
func FetchCycles(client *api.Client, teamID string) ([]CachedCycle, error) {
	vars := map[string]any{}
	if teamID != "" {
		vars["filter"] = map[string]any{
			"team": map[string]any{"id": map[string]any{"eq": teamID}},
		}
	}

	data, err := client.Execute(listCyclesQuery, vars)
	if err != nil {
		return nil, exitcode.General("fetching cycles", err)
	}

	var resp struct {
		Cycles struct {
			Nodes []CachedCycle `json:"nodes"`
		} `json:"cycles"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, exitcode.General("parsing cycles response", err)
	}

	cycles := resp.Cycles.Nodes
	_ = cache.Set(CycleCacheKey(teamID), cycles)
	return cycles, nil
}

// Cycle resolves a cycle identifier (opaque ID, custom name, or cycle
// number) to a CycleResult, scoped to a team when teamID is non-empty.
// Uses the cache with invalidate-on-miss.
func Cycle(client *api.Client, teamID, identifier string) (*CycleResult, error) {
	if LooksLikeID(identifier) {
		return &CycleResult{ID: identifier}, nil
	}

	key := CycleCacheKey(teamID)

	if entries, ok := cache.Get[[]CachedCycle](key); ok {
		if c, found := matchCycle(entries, identifier); found {
			return c, nil
		}
	}

	entries, err := FetchCycles(client, teamID)
	if err != nil {
		return nil, err
	}

	if c, found := matchCycle(entries, identifier); found {
		return c, nil
	}

	return nil, exitcode.NotFoundError(fmt.Sprintf("cycle %q not found — run 'lnr cycle list' to see available cycles", identifier))
}

// matchCycle looks up a cycle by number, then by custom name
// (case-insensitive).
func matchCycle(entries []CachedCycle, identifier string) (*CycleResult, bool) {
	if num, err := strconv.Atoi(identifier); err == nil {
		for _, c := range entries {
			if c.Number == num {
				return &CycleResult{ID: c.ID, Number: c.Number, Name: c.DisplayName()}, true
			}
		}
		return nil, false
	}

	identLower := strings.ToLower(identifier)
	for _, c := range entries {
		if c.Name != "" && strings.ToLower(c.Name) == identLower {
			return &CycleResult{ID: c.ID, Number: c.Number, Name: c.DisplayName()}, true
		}
	}

	return nil, false
}
