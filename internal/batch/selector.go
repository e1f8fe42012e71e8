package batch

import (
	"encoding/json"

	"github.com/ewhall/lnr/internal/api"
	"github.com/ewhall/lnr/internal/exitcode"
	"github.com/ewhall/lnr/internal/query"
	"github.com/ewhall/lnr/internal/resolve"
)

// MaxPageSize is the largest page the search API serves per call.
const MaxPageSize = 250

// SelectOptions supplies resolution context for query-based selection.
type SelectOptions struct {
	TeamAliases  map[string]string
	StateAliases map[string]string
}

// ClampLimit normalizes a requested working-set limit. Non-positive values
// mean "as many as one page allows"; values above the page size are clamped
// down, never rejected.
func ClampLimit(limit int) int {
	if limit <= 0 || limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// SelectWorkingSet resolves the issues a batch will mutate. Exactly one of
// ids or a non-empty filter must be supplied. Explicit identifiers are
// fetched in parallel and any miss fails the whole selection; a filter is
// translated into a single search call after resolving each named value to
// its ID. A filter matching zero issues is an error — a batch with nothing
// to do is almost always a typo in the query.
func SelectWorkingSet(client *api.Client, ids []string, filter query.Filter, limit int, opts *SelectOptions) ([]*resolve.IssueResult, error) {
	if opts == nil {
		opts = &SelectOptions{}
	}

	hasIDs := len(ids) > 0
	hasQuery := !filter.IsEmpty()

	switch {
	case hasIDs && hasQuery:
		return nil, exitcode.Usage("provide either issue identifiers or --query, not both")
	case !hasIDs && !hasQuery:
		return nil, exitcode.Usage("provide issue identifiers or --query to select issues")
	}

	if hasIDs {
		return resolve.Issues(client, ids)
	}

	issues, err := Search(client, filter, limit, opts)
	if err != nil {
		return nil, err
	}
	if len(issues) == 0 {
		return nil, exitcode.NotFoundError("no issues found matching query")
	}
	return issues, nil
}

const searchIssuesQuery = `query SearchIssues($filter: IssueFilter, $first: Int!) {
  issues(filter: $filter, first: $first) {
    nodes {
      id
      identifier
      title
      priority
      dueDate
      team {
        id
        key
      }
      state {
        name
        type
      }
      assignee {
        name
      }
      cycle {
        number
        name
      }
      project {
        name
      }
      labels(first: 50) {
        nodes {
          id
          name
        }
      }
    }
  }
}`

// Search runs one filtered issue search, resolving named filter values to
// IDs first. Unlike SelectWorkingSet, an empty result is not an error —
// plain listings use this directly.
func Search(client *api.Client, filter query.Filter, limit int, opts *SelectOptions) ([]*resolve.IssueResult, error) {
	if opts == nil {
		opts = &SelectOptions{}
	}

	apiFilter, err := buildIssueFilter(client, filter, opts)
	if err != nil {
		return nil, err
	}

	data, err := client.Execute(searchIssuesQuery, map[string]any{
		"filter": apiFilter,
		"first":  ClampLimit(limit),
	})
	if err != nil {
		return nil, exitcode.General("searching issues", err)
	}

	var resp struct {
		Issues struct {
			Nodes []json.RawMessage `json:"nodes"`
		} `json:"issues"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, exitcode.General("parsing search response", err)
	}

	issues := make([]*resolve.IssueResult, 0, len(resp.Issues.Nodes))
	for _, raw := range resp.Issues.Nodes {
		issue, err := resolve.ParseIssueNode(raw)
		if err != nil {
			return nil, exitcode.General("parsing search response", err)
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

// buildIssueFilter resolves each filter value to its ID and assembles the
// IssueFilter input. An unresolvable value aborts with a not-found error
// naming it, before any mutation can start.
func buildIssueFilter(client *api.Client, filter query.Filter, opts *SelectOptions) (map[string]any, error) {
	apiFilter := map[string]any{}

	teamID := ""
	if filter.Team != "" {
		team, err := resolve.Team(client, filter.Team, opts.TeamAliases)
		if err != nil {
			return nil, err
		}
		teamID = team.ID
		apiFilter["team"] = idEq(teamID)
	}

	if filter.State != "" {
		state, err := resolve.State(client, teamID, filter.State, opts.StateAliases)
		if err != nil {
			return nil, err
		}
		apiFilter["state"] = idEq(state.ID)
	}

	if filter.Assignee != "" {
		user, err := resolve.User(client, filter.Assignee)
		if err != nil {
			return nil, err
		}
		apiFilter["assignee"] = idEq(user.ID)
	}

	if filter.Label != "" {
		label, err := resolve.Label(client, filter.Label)
		if err != nil {
			return nil, err
		}
		apiFilter["labels"] = idEq(label.ID)
	}

	if filter.Project != "" {
		project, err := resolve.Project(client, filter.Project, &resolve.ProjectOptions{TeamID: teamID})
		if err != nil {
			return nil, err
		}
		apiFilter["project"] = idEq(project.ID)
	}

	if filter.Cycle != "" {
		cycle, err := resolve.Cycle(client, teamID, filter.Cycle)
		if err != nil {
			return nil, err
		}
		apiFilter["cycle"] = idEq(cycle.ID)
	}

	if filter.Priority != nil {
		apiFilter["priority"] = map[string]any{"eq": *filter.Priority}
	}

	return apiFilter, nil
}

func idEq(id string) map[string]any {
	return map[string]any{"id": map[string]any{"eq": id}}
}
