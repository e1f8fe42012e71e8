package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/ewhall/lnr/internal/batch"
	"github.com/ewhall/lnr/internal/exitcode"
	"github.com/ewhall/lnr/internal/output"
	"github.com/ewhall/lnr/internal/query"
	"github.com/ewhall/lnr/internal/resolve"
	"github.com/spf13/cobra"
)

var issueUpdateCmd = &cobra.Command{
	Use:   "update [<issue>...]",
	Short: "Update one or more issues",
	Long: `Update fields on a batch of issues, selected either by explicit
identifiers or by a query.

The query is whitespace-separated key:value pairs combined with AND.
Supported keys: ` + strings.Join(query.SupportedKeys(), ", ") + `.

Pass the literal value "none" to clear a clearable field (assignee, cycle,
due date, labels, delegate).

Examples:
  lnr issue update ENG-123 --state Done
  lnr issue update ENG-123 ENG-124 --assignee alice --priority 2
  lnr issue update --query 'state:Todo team:ENG' --cycle none
  lnr issue update --query 'label:stale' --add-labels triage --dry-run
  lnr issue update ENG-200 --duplicate-of ENG-123`,
	RunE: runIssueUpdate,
}

var (
	issueUpdateQuery        string
	issueUpdateLimit        int
	issueUpdateDryRun       bool
	issueUpdateState        string
	issueUpdateAssignee     string
	issueUpdatePriority     int
	issueUpdateDueDate      string
	issueUpdateProject      string
	issueUpdateCycle        string
	issueUpdateParent       string
	issueUpdateLabels       string
	issueUpdateAddLabels    string
	issueUpdateRemoveLabels string
	issueUpdateDelegate     string
	issueUpdateLinks        string
	issueUpdateDuplicateOf  string
)

func init() {
	f := issueUpdateCmd.Flags()
	f.StringVarP(&issueUpdateQuery, "query", "q", "", "Select issues by filter query (key:value pairs)")
	f.IntVar(&issueUpdateLimit, "limit", 0, "Maximum issues a query may select (0 = maximum page size)")
	f.BoolVar(&issueUpdateDryRun, "dry-run", false, "Show what would change without updating anything")

	f.StringVar(&issueUpdateState, "state", "", "Workflow state name")
	f.StringVar(&issueUpdateAssignee, "assignee", "", `Assignee name or email ("none" to unassign)`)
	f.IntVar(&issueUpdatePriority, "priority", 0, "Priority: 0 none, 1 urgent, 2 high, 3 medium, 4 low")
	f.StringVar(&issueUpdateDueDate, "due-date", "", `Due date YYYY-MM-DD ("none" to clear)`)
	f.StringVar(&issueUpdateProject, "project", "", "Project name")
	f.StringVar(&issueUpdateCycle, "cycle", "", `Cycle name or number ("none" to clear)`)
	f.StringVar(&issueUpdateParent, "parent", "", "Parent issue identifier")
	f.StringVar(&issueUpdateLabels, "labels", "", `Replace labels (comma-separated, "none" to clear)`)
	f.StringVar(&issueUpdateAddLabels, "add-labels", "", "Add labels (comma-separated)")
	f.StringVar(&issueUpdateRemoveLabels, "remove-labels", "", "Remove labels (comma-separated)")
	f.StringVar(&issueUpdateDelegate, "delegate", "", `Delegate to users (comma-separated, "none" to clear)`)
	f.StringVar(&issueUpdateLinks, "links", "", "Link related issues (comma-separated identifiers)")
	f.StringVar(&issueUpdateDuplicateOf, "duplicate-of", "", "Mark as duplicate of another issue")

	issueCmd.AddCommand(issueUpdateCmd)
}

func resetIssueUpdateFlags() {
	issueUpdateQuery = ""
	issueUpdateLimit = 0
	issueUpdateDryRun = false
	issueUpdateState = ""
	issueUpdateAssignee = ""
	issueUpdatePriority = 0
	issueUpdateDueDate = ""
	issueUpdateProject = ""
	issueUpdateCycle = ""
	issueUpdateParent = ""
	issueUpdateLabels = ""
	issueUpdateAddLabels = ""
	issueUpdateRemoveLabels = ""
	issueUpdateDelegate = ""
	issueUpdateLinks = ""
	issueUpdateDuplicateOf = ""
	for _, name := range []string{
		"query", "limit", "dry-run", "state", "assignee", "priority",
		"due-date", "project", "cycle", "parent", "labels", "add-labels",
		"remove-labels", "delegate", "links", "duplicate-of",
	} {
		if flag := issueUpdateCmd.Flags().Lookup(name); flag != nil {
			flag.Changed = false
		}
	}
}

// collectUpdateFlags builds the batch flag set from whichever flags the user
// actually passed; an untouched flag must stay nil so the field is left
// alone.
func collectUpdateFlags(cmd *cobra.Command) *batch.UpdateFlags {
	flags := &batch.UpdateFlags{}
	set := cmd.Flags().Changed

	if set("state") {
		flags.State = &issueUpdateState
	}
	if set("assignee") {
		flags.Assignee = &issueUpdateAssignee
	}
	if set("priority") {
		flags.Priority = &issueUpdatePriority
	}
	if set("due-date") {
		flags.DueDate = &issueUpdateDueDate
	}
	if set("project") {
		flags.Project = &issueUpdateProject
	}
	if set("cycle") {
		flags.Cycle = &issueUpdateCycle
	}
	if set("parent") {
		flags.Parent = &issueUpdateParent
	}
	if set("labels") {
		flags.Labels = &issueUpdateLabels
	}
	if set("add-labels") {
		flags.AddLabels = &issueUpdateAddLabels
	}
	if set("remove-labels") {
		flags.RemoveLabels = &issueUpdateRemoveLabels
	}
	if set("delegate") {
		flags.Delegate = &issueUpdateDelegate
	}
	if set("links") {
		flags.Links = &issueUpdateLinks
	}
	if set("duplicate-of") {
		flags.DuplicateOf = &issueUpdateDuplicateOf
	}
	return flags
}

// splitIdentifiers expands comma- and space-separated issue identifier
// arguments into a flat list.
func splitIdentifiers(args []string) []string {
	var ids []string
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			if part = strings.TrimSpace(part); part != "" {
				ids = append(ids, part)
			}
		}
	}
	return ids
}

func runIssueUpdate(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg, cmd)
	w := cmd.OutOrStdout()

	flags := collectUpdateFlags(cmd)
	if flags.Empty() {
		return exitcode.Usage("no update flags given — pass at least one field flag like --state or --assignee")
	}

	selectOpts := &batch.SelectOptions{
		TeamAliases:  cfg.Aliases.Teams,
		StateAliases: cfg.Aliases.States,
	}
	issues, err := batch.SelectWorkingSet(client, splitIdentifiers(args), query.Parse(issueUpdateQuery), issueUpdateLimit, selectOpts)
	if err != nil {
		return err
	}

	// Field resolution is scoped to the working set's team. A cross-team
	// batch resolves against the first issue's workflow.
	payload, err := batch.BuildPayload(client, flags, &batch.BuildOptions{
		TeamID:       issues[0].TeamID,
		StateAliases: cfg.Aliases.States,
	})
	if err != nil {
		return err
	}

	for _, warning := range payload.Warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), output.Yellow("warning: "+warning))
	}

	if !payload.HasChanges() {
		fmt.Fprintln(w, "No changes to apply.")
		return nil
	}

	if issueUpdateDryRun {
		printUpdateDryRun(w, issues, flags)
		return nil
	}

	opts := &batch.Options{
		MaxRetries: batch.DefaultMaxRetries,
	}
	if !output.IsJSON(outputFormat) {
		stderr := cmd.ErrOrStderr()
		done := 0
		opts.Progress = func(_, total int, _ *resolve.IssueResult, status batch.Status) {
			if status == batch.StatusAttempting {
				return
			}
			done++
			fmt.Fprintf(stderr, "\r%s", output.FormatProgress(done, total))
			if done == total {
				fmt.Fprintln(stderr)
			}
		}
	}

	result := batch.Execute(client, issues, payload, opts)

	if output.IsJSON(outputFormat) {
		return output.JSON(w, result)
	}

	items := make(map[string]output.MutationItem, len(issues))
	for _, issue := range issues {
		items[issue.Identifier] = output.MutationItem{
			Ref:   issue.Identifier,
			Title: truncateTitle(issue.Title),
		}
	}
	succeeded := make([]output.MutationItem, 0, len(result.Succeeded))
	for _, id := range result.Succeeded {
		succeeded = append(succeeded, items[id])
	}

	if result.AllSucceeded() {
		output.MutationBatch(w, fmt.Sprintf("Updated %d issue(s):", result.Total), succeeded)
		return nil
	}

	failed := make([]output.FailedItem, 0, len(result.Failed))
	for _, f := range result.Failed {
		failed = append(failed, output.FailedItem{Ref: f.ID, Reason: f.Error})
	}
	// Partial failure is still a successful command run: the report carries
	// the failures, the exit code stays zero.
	output.MutationPartialFailure(w,
		fmt.Sprintf("Updated %d of %d issue(s):", len(result.Succeeded), result.Total),
		succeeded, failed)
	return nil
}

// printUpdateDryRun shows the would-be patch next to each issue's current
// values. Nothing is mutated on this path.
func printUpdateDryRun(w io.Writer, issues []*resolve.IssueResult, flags *batch.UpdateFlags) {
	var details []output.DetailLine
	addDetail := func(key string, value *string) {
		if value == nil {
			return
		}
		v := *value
		if v == "" || v == batch.ClearSentinel {
			v = "(cleared)"
		}
		details = append(details, output.DetailLine{Key: key, Value: v})
	}

	addDetail("State", flags.State)
	if flags.Priority != nil {
		details = append(details, output.DetailLine{Key: "Priority", Value: priorityName(*flags.Priority)})
	}
	addDetail("Assignee", flags.Assignee)
	addDetail("Due date", flags.DueDate)
	addDetail("Project", flags.Project)
	addDetail("Cycle", flags.Cycle)
	addDetail("Parent", flags.Parent)
	addDetail("Labels", flags.Labels)
	addDetail("Add labels", flags.AddLabels)
	addDetail("Remove labels", flags.RemoveLabels)
	addDetail("Delegate", flags.Delegate)
	addDetail("Links", flags.Links)
	addDetail("Duplicate of", flags.DuplicateOf)

	output.MutationDryRunDetail(w, fmt.Sprintf("Would update %d issue(s) with:", len(issues)), details)
	fmt.Fprintln(w)

	items := make([]output.MutationItem, len(issues))
	for i, issue := range issues {
		ctx := fmt.Sprintf("(currently %q", issue.State)
		if issue.Assignee != "" {
			ctx += ", " + issue.Assignee
		}
		ctx += ")"
		items[i] = output.MutationItem{
			Ref:     issue.Identifier,
			Title:   truncateTitle(issue.Title),
			Context: ctx,
		}
	}
	output.MutationDryRun(w, "Affected issues:", items)
}
