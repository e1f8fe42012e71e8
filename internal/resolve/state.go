package resolve

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ewhall/lnr/internal/api"
	"github.com/ewhall/lnr/internal/cache"
	"github.com/ewhall/lnr/internal/exitcode"
)

// CachedState is the shape stored in the workflow state cache.
type CachedState struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"` // triage, backlog, unstarted, started, completed, canceled
}

// StateResult is the resolved workflow state returned to callers.
type StateResult struct {
	ID   string
	Name string
	Type string
}

const listStatesQuery = `query ListStates($filter: WorkflowStateFilter) {
  workflowStates(filter: $filter, first: 250) {
    nodes {
      id
      name
      type
    }
  }
}`

// StateCacheKey returns the cache key for workflow state data scoped to a
// team. An empty team ID keys the unscoped, all-teams state list.
func StateCacheKey(teamID string) cache.Key {
	if teamID == "" {
		return cache.NewKey("states")
	}
	return cache.NewScopedKey("states", teamID)
}

// FetchStates fetches workflow states from the API and updates the cache.
// When teamID is non-empty the fetch is filtered to that team's workflow.
func FetchStates(client *api.Client, teamID string) ([]CachedState, error) {
	vars := map[string]any{}
	if teamID != "" {
		vars["filter"] = map[string]any{
			"team": map[string]any{"id": map[string]any{"eq": teamID}},
		}
	}

	data, err := client.Execute(listStatesQuery, vars)
	if err != nil {
		return nil, exitcode.General("fetching workflow states", err)
	}

	var resp struct {
		WorkflowStates struct {
			Nodes []CachedState `json:"nodes"`
		} `json:"workflowStates"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, exitcode.General("parsing workflow states response", err)
	}

	states := resp.WorkflowStates.Nodes
	_ = cache.Set(StateCacheKey(teamID), states)
	return states, nil
}

// State resolves a workflow state identifier to a StateResult, scoped to a
// team when teamID is non-empty. Aliases map alias → state name and are
// checked first. Uses the cache with invalidate-on-miss.
func State(client *api.Client, teamID, identifier string, aliases map[string]string) (*StateResult, error) {
	if aliases != nil {
		if target, ok := aliases[identifier]; ok {
			identifier = target
		}
	}

	if LooksLikeID(identifier) {
		return &StateResult{ID: identifier}, nil
	}

	key := StateCacheKey(teamID)

	if entries, ok := cache.Get[[]CachedState](key); ok {
		if s, found := matchState(entries, identifier); found {
			return s, nil
		}
	}

	entries, err := FetchStates(client, teamID)
	if err != nil {
		return nil, err
	}

	if s, found := matchState(entries, identifier); found {
		return s, nil
	}

	scope := ""
	if teamID != "" {
		scope = " in team"
	}
	return nil, exitcode.NotFoundError(fmt.Sprintf("state %q not found%s — run 'lnr state list' to see available states", identifier, scope))
}

// TerminalState finds the state a duplicate issue should land in: a state
// named "duplicate" (case-insensitive) if the team's workflow has one,
// otherwise the first state of type "canceled".
func TerminalState(client *api.Client, teamID string) (*StateResult, error) {
	key := StateCacheKey(teamID)

	entries, ok := cache.Get[[]CachedState](key)
	if !ok {
		var err error
		entries, err = FetchStates(client, teamID)
		if err != nil {
			return nil, err
		}
	}

	for _, s := range entries {
		if strings.EqualFold(s.Name, "duplicate") {
			return &StateResult{ID: s.ID, Name: s.Name, Type: s.Type}, nil
		}
	}
	for _, s := range entries {
		if s.Type == "canceled" {
			return &StateResult{ID: s.ID, Name: s.Name, Type: s.Type}, nil
		}
	}

	return nil, exitcode.NotFoundError("no duplicate or canceled state in team workflow")
}

// matchState looks up a state by exact name (case-insensitive).
func matchState(entries []CachedState, identifier string) (*StateResult, bool) {
	identLower := strings.ToLower(identifier)
	for _, s := range entries {
		if strings.ToLower(s.Name) == identLower {
			return &StateResult{ID: s.ID, Name: s.Name, Type: s.Type}, true
		}
	}
	return nil, false
}
