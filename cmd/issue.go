package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ewhall/lnr/internal/api"
	"github.com/ewhall/lnr/internal/batch"
	"github.com/ewhall/lnr/internal/exitcode"
	"github.com/ewhall/lnr/internal/output"
	"github.com/ewhall/lnr/internal/query"
	"github.com/ewhall/lnr/internal/resolve"
	"github.com/spf13/cobra"
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Work with issues",
}

// Priority display names, indexed by Linear's numeric priority.
var priorityNames = [...]string{"None", "Urgent", "High", "Medium", "Low"}

func priorityName(p int) string {
	if p < 0 || p >= len(priorityNames) {
		return fmt.Sprintf("P%d", p)
	}
	return priorityNames[p]
}

// --- issue list ---

var (
	issueListQuery string
	issueListTeam  string
	issueListState string
	issueListLimit int
)

var issueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List issues",
	Long: `List issues, filtered by flags or a query string.

The query is whitespace-separated key:value pairs combined with AND.
Supported keys: ` + strings.Join(query.SupportedKeys(), ", ") + `.

Examples:
  lnr issue list --state "In Progress"
  lnr issue list --query 'team:ENG assignee:alice priority:1'
  lnr issue list --query 'label:"tech debt"' -o json`,
	Args: cobra.NoArgs,
	RunE: runIssueList,
}

func init() {
	issueListCmd.Flags().StringVarP(&issueListQuery, "query", "q", "", "Filter query (key:value pairs)")
	issueListCmd.Flags().StringVar(&issueListTeam, "team", "", "Filter by team")
	issueListCmd.Flags().StringVar(&issueListState, "state", "", "Filter by workflow state")
	issueListCmd.Flags().IntVar(&issueListLimit, "limit", 50, "Maximum number of issues to list")

	issueCmd.AddCommand(issueListCmd)
	rootCmd.AddCommand(issueCmd)
}

func resetIssueListFlags() {
	issueListQuery = ""
	issueListTeam = ""
	issueListState = ""
	issueListLimit = 50
}

func runIssueList(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg, cmd)

	filter := query.Parse(issueListQuery)
	if issueListTeam != "" {
		filter.Team = issueListTeam
	}
	if issueListState != "" {
		filter.State = issueListState
	}
	if filter.Team == "" {
		filter.Team = cfg.Team
	}

	issues, err := batch.Search(client, filter, issueListLimit, &batch.SelectOptions{
		TeamAliases:  cfg.Aliases.Teams,
		StateAliases: cfg.Aliases.States,
	})
	if err != nil {
		return err
	}

	if output.IsJSON(outputFormat) {
		return output.JSON(cmd.OutOrStdout(), issues)
	}

	if len(issues) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No issues found.")
		return nil
	}

	lw := output.NewListWriter(cmd.OutOrStdout(), "ID", "TITLE", "STATE", "PRIORITY", "ASSIGNEE")
	for _, issue := range issues {
		assignee := issue.Assignee
		if assignee == "" {
			assignee = output.Dim("unassigned")
		}
		lw.Row(
			issue.Identifier,
			truncateTitle(issue.Title),
			issue.State,
			priorityName(issue.Priority),
			assignee,
		)
	}
	lw.Flush()
	return nil
}

// truncateTitle keeps table rows from wrapping on long issue titles.
func truncateTitle(title string) string {
	const max = 60
	if len(title) <= max {
		return title
	}
	return title[:max-1] + "…"
}

// --- issue view ---

var issueViewCmd = &cobra.Command{
	Use:   "view <issue>",
	Short: "View an issue's details",
	Long: `Show one issue in full: state, assignee, labels, dates, and the
description rendered as markdown.`,
	Args: cobra.ExactArgs(1),
	RunE: runIssueView,
}

func init() {
	issueCmd.AddCommand(issueViewCmd)
}

const issueDetailQuery = `query GetIssueDetail($id: String!) {
  issue(id: $id) {
    id
    identifier
    title
    description
    priority
    dueDate
    url
    createdAt
    updatedAt
    team {
      id
      key
      name
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

// issueDetail is the full issue shape shown by `issue view`.
type issueDetail struct {
	ID          string  `json:"id"`
	Identifier  string  `json:"identifier"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    int     `json:"priority"`
	DueDate     *string `json:"dueDate"`
	URL         string  `json:"url"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
	Team        struct {
		ID   string `json:"id"`
		Key  string `json:"key"`
		Name string `json:"name"`
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
		Nodes []resolve.IssueLabel `json:"nodes"`
	} `json:"labels"`
}

func fetchIssueDetail(client *api.Client, identifier string) (*issueDetail, error) {
	data, err := client.Execute(issueDetailQuery, map[string]any{"id": identifier})
	if err != nil {
		if _, ok := err.(*api.GraphQLError); ok {
			return nil, exitcode.NotFoundf("issue %q not found", identifier)
		}
		return nil, exitcode.General("fetching issue", err)
	}

	var resp struct {
		Issue *issueDetail `json:"issue"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, exitcode.General("parsing issue response", err)
	}
	if resp.Issue == nil {
		return nil, exitcode.NotFoundf("issue %q not found", identifier)
	}
	return resp.Issue, nil
}

func runIssueView(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg, cmd)

	detail, err := fetchIssueDetail(client, args[0])
	if err != nil {
		return err
	}

	if output.IsJSON(outputFormat) {
		return output.JSON(cmd.OutOrStdout(), detail)
	}

	w := cmd.OutOrStdout()
	dw := output.NewDetailWriter(w, detail.Identifier, detail.Title)

	fields := []output.KeyValue{
		output.KV("State", detail.State.Name),
		output.KV("Priority", priorityName(detail.Priority)),
	}
	if detail.Assignee != nil {
		fields = append(fields, output.KV("Assignee", detail.Assignee.Name))
	}
	if detail.DueDate != nil {
		fields = append(fields, output.KV("Due", *detail.DueDate))
	}
	if detail.Project != nil {
		fields = append(fields, output.KV("Project", detail.Project.Name))
	}
	if detail.Cycle != nil {
		name := detail.Cycle.Name
		if name == "" {
			name = fmt.Sprintf("Cycle %d", detail.Cycle.Number)
		}
		fields = append(fields, output.KV("Cycle", name))
	}
	if len(detail.Labels.Nodes) > 0 {
		names := make([]string, len(detail.Labels.Nodes))
		for i, l := range detail.Labels.Nodes {
			names[i] = l.Name
		}
		fields = append(fields, output.KV("Labels", strings.Join(names, ", ")))
	}
	if created, err := time.Parse(time.RFC3339, detail.CreatedAt); err == nil {
		fields = append(fields, output.KV("Created", output.FormatDateISO(created)))
	}
	fields = append(fields, output.KV("URL", output.Dim(detail.URL)))
	dw.Fields(fields)

	if detail.Description != nil && *detail.Description != "" {
		dw.Section("Description")
		if err := output.RenderMarkdown(w, *detail.Description, 80); err != nil {
			fmt.Fprintln(w, *detail.Description)
		}
	}

	return nil
}
