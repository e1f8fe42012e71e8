package resolve

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ewhall/lnr/internal/api"
	"github.com/ewhall/lnr/internal/cache"
	"github.com/ewhall/lnr/internal/exitcode"
)

// CachedProject is the shape stored in the project cache.
type CachedProject struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	State   string   `json:"state"` // planned, started, paused, completed, canceled
	TeamIDs []string `json:"teamIds"`
}

// ProjectResult is the resolved project returned to callers.
type ProjectResult struct {
	ID   string
	Name string
}

const listProjectsQuery = `query ListProjects($first: Int!, $after: String) {
  projects(first: $first, after: $after) {
    pageInfo {
      hasNextPage
      endCursor
    }
    nodes {
      id
      name
      state
      teams(first: 50) {
        nodes {
          id
        }
      }
    }
  }
}`

// ProjectCacheKey returns the cache key for project data.
func ProjectCacheKey() cache.Key {
	return cache.NewKey("projects")
}

// FetchProjects fetches all projects and updates the cache.
func FetchProjects(client *api.Client) ([]CachedProject, error) {
	var allProjects []CachedProject
	var cursor *string

	for {
		vars := map[string]any{"first": 100}
		if cursor != nil {
			vars["after"] = *cursor
		}

		data, err := client.Execute(listProjectsQuery, vars)
		if err != nil {
			return nil, exitcode.General("fetching projects", err)
		}

		var resp struct {
			Projects struct {
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
				Nodes []struct {
					ID    string `json:"id"`
					Name  string `json:"name"`
					State string `json:"state"`
					Teams struct {
						Nodes []struct {
							ID string `json:"id"`
						} `json:"nodes"`
					} `json:"teams"`
				} `json:"nodes"`
			} `json:"projects"`
		}
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, exitcode.General("parsing projects response", err)
		}

		for _, n := range resp.Projects.Nodes {
			p := CachedProject{ID: n.ID, Name: n.Name, State: n.State}
			for _, t := range n.Teams.Nodes {
				p.TeamIDs = append(p.TeamIDs, t.ID)
			}
			allProjects = append(allProjects, p)
		}

		if !resp.Projects.PageInfo.HasNextPage {
			break
		}
		c := resp.Projects.PageInfo.EndCursor
		cursor = &c
	}

	_ = cache.Set(ProjectCacheKey(), allProjects)
	return allProjects, nil
}

// ProjectOptions configures project resolution.
type ProjectOptions struct {
	// TeamID, when set, restricts matches to projects that include the team.
	TeamID string
}

// Project resolves a project identifier (opaque ID or name) to a
// ProjectResult with invalidate-on-miss caching.
func Project(client *api.Client, identifier string, opts *ProjectOptions) (*ProjectResult, error) {
	if opts == nil {
		opts = &ProjectOptions{}
	}

	if LooksLikeID(identifier) {
		return &ProjectResult{ID: identifier}, nil
	}

	key := ProjectCacheKey()

	if entries, ok := cache.Get[[]CachedProject](key); ok {
		if p, found := matchProject(entries, identifier, opts.TeamID); found {
			return p, nil
		}
	}

	entries, err := FetchProjects(client)
	if err != nil {
		return nil, err
	}

	if p, found := matchProject(entries, identifier, opts.TeamID); found {
		return p, nil
	}

	if opts.TeamID != "" {
		return nil, exitcode.NotFoundError(fmt.Sprintf("project %q not found for team — run 'lnr project list' to see available projects", identifier))
	}
	return nil, exitcode.NotFoundError(fmt.Sprintf("project %q not found — run 'lnr project list' to see available projects", identifier))
}

// matchProject looks up a project by exact name (case-insensitive),
// optionally requiring membership of the given team.
func matchProject(entries []CachedProject, identifier, teamID string) (*ProjectResult, bool) {
	identLower := strings.ToLower(identifier)
	for _, p := range entries {
		if strings.ToLower(p.Name) != identLower {
			continue
		}
		if teamID != "" && !containsString(p.TeamIDs, teamID) {
			continue
		}
		return &ProjectResult{ID: p.ID, Name: p.Name}, true
	}
	return nil, false
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
