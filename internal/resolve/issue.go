package resolve

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sync"

	"github.com/ewhall/lnr/internal/api"
	"github.com/ewhall/lnr/internal/exitcode"
)

// IssueResult is the resolved issue returned to callers.
type IssueResult struct {
	ID         string       `json:"id"`         // opaque Linear ID
	Identifier string       `json:"identifier"` // human identifier, e.g. "ENG-123"
	Title      string       `json:"title"`
	TeamID     string       `json:"teamId"`
	TeamKey    string       `json:"teamKey"`
	State      string       `json:"state"` // current state name
	StateType  string       `json:"stateType"`
	Assignee   string       `json:"assignee"` // current assignee name, empty when unassigned
	Priority   int          `json:"priority"`
	DueDate    string       `json:"dueDate,omitempty"`
	Cycle      string       `json:"cycle,omitempty"`
	Project    string       `json:"project,omitempty"`
	Labels     []IssueLabel `json:"labels"`
}

// IssueLabel is one label currently attached to an issue.
type IssueLabel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// identifierPattern matches human issue identifiers like "ENG-123".
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9]+-\d+$`)

// IsIssueIdentifier reports whether s has the TEAM-123 shape.
func IsIssueIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

const getIssueQuery = `query GetIssue($id: String!) {
  issue(id: $id) {
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
}`

// issueNode mirrors the GraphQL issue shape shared by Issue and Issues.
type issueNode struct {
	ID         string  `json:"id"`
	Identifier string  `json:"identifier"`
	Title      string  `json:"title"`
	Priority   int     `json:"priority"`
	DueDate    *string `json:"dueDate"`
	Team       struct {
		ID  string `json:"id"`
		Key string `json:"key"`
	} `json:"team"`
	State struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"state"`
	Assignee *struct {
		Name string `json:"name"`
	} `json:"assignee"`
	Cycle *struct {
		Number int    `json:"number"`
		Name   string `json:"name"`
	} `json:"cycle"`
	Project *struct {
		Name string `json:"name"`
	} `json:"project"`
	Labels struct {
		Nodes []IssueLabel `json:"nodes"`
	} `json:"labels"`
}

func (n *issueNode) toResult() *IssueResult {
	r := &IssueResult{
		ID:         n.ID,
		Identifier: n.Identifier,
		Title:      n.Title,
		TeamID:     n.Team.ID,
		TeamKey:    n.Team.Key,
		State:      n.State.Name,
		StateType:  n.State.Type,
		Priority:   n.Priority,
		Labels:     n.Labels.Nodes,
	}
	if n.DueDate != nil {
		r.DueDate = *n.DueDate
	}
	if n.Assignee != nil {
		r.Assignee = n.Assignee.Name
	}
	if n.Cycle != nil {
		if n.Cycle.Name != "" {
			r.Cycle = n.Cycle.Name
		} else {
			r.Cycle = fmt.Sprintf("Cycle %d", n.Cycle.Number)
		}
	}
	if n.Project != nil {
		r.Project = n.Project.Name
	}
	return r
}

// ParseIssueNode decodes a raw GraphQL issue node into an IssueResult.
// Search responses share the issue field selection, so their nodes decode
// through the same path as single-issue lookups.
func ParseIssueNode(raw json.RawMessage) (*IssueResult, error) {
	var n issueNode
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, err
	}
	return n.toResult(), nil
}

// Issue resolves an issue identifier (opaque ID or "TEAM-123") to an
// IssueResult. The Linear API accepts both forms, so no local heuristic is
// needed here — the lookup itself disambiguates.
func Issue(client *api.Client, identifier string) (*IssueResult, error) {
	data, err := client.Execute(getIssueQuery, map[string]any{"id": identifier})
	if err != nil {
		// Linear reports unknown issue IDs as a GraphQL-level error.
		if _, ok := err.(*api.GraphQLError); ok {
			return nil, exitcode.NotFoundError(fmt.Sprintf("issue %q not found", identifier))
		}
		return nil, exitcode.General("fetching issue", err)
	}

	var resp struct {
		Issue *issueNode `json:"issue"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, exitcode.General("parsing issue response", err)
	}

	if resp.Issue == nil {
		return nil, exitcode.NotFoundError(fmt.Sprintf("issue %q not found", identifier))
	}

	return resp.Issue.toResult(), nil
}

// Issues resolves multiple issue identifiers in parallel. Any identifier
// that fails to resolve fails the whole call — a batch cannot start with an
// unknown target. Results are returned in input order.
func Issues(client *api.Client, identifiers []string) ([]*IssueResult, error) {
	results := make([]*IssueResult, len(identifiers))
	errs := make([]error, len(identifiers))

	var wg sync.WaitGroup
	for i, ident := range identifiers {
		wg.Add(1)
		go func(i int, ident string) {
			defer wg.Done()
			results[i], errs[i] = Issue(client, ident)
		}(i, ident)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

const issueLabelsQuery = `query GetIssueLabels($id: String!) {
  issue(id: $id) {
    labels(first: 50) {
      nodes {
        id
        name
      }
    }
  }
}`

// IssueLabels fetches the IDs of labels currently attached to an issue.
// Used by label add/remove modes, which merge against the live label set
// rather than a cached one.
func IssueLabels(client *api.Client, issueID string) ([]string, error) {
	data, err := client.Execute(issueLabelsQuery, map[string]any{"id": issueID})
	if err != nil {
		return nil, exitcode.General("fetching issue labels", err)
	}

	var resp struct {
		Issue *struct {
			Labels struct {
				Nodes []IssueLabel `json:"nodes"`
			} `json:"labels"`
		} `json:"issue"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, exitcode.General("parsing issue labels response", err)
	}
	if resp.Issue == nil {
		return nil, exitcode.NotFoundf("issue %q not found", issueID)
	}

	ids := make([]string, 0, len(resp.Issue.Labels.Nodes))
	for _, l := range resp.Issue.Labels.Nodes {
		ids = append(ids, l.ID)
	}
	return ids, nil
}
