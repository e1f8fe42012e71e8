// Package batch implements bulk issue updates: building the update payload
// from command flags, selecting the working set, and executing the
// per-issue mutation loop with retries.
package batch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ewhall/lnr/internal/api"
	"github.com/ewhall/lnr/internal/exitcode"
	"github.com/ewhall/lnr/internal/resolve"
)

// ClearSentinel is the user-supplied literal meaning "clear this field",
// distinct from the flag being absent (leave untouched).
const ClearSentinel = "none"

// UpdateFlags carries the field-update flags of a batch command. A nil
// pointer means the flag was not supplied and the field is left untouched.
type UpdateFlags struct {
	State        *string
	Assignee     *string
	Priority     *int
	DueDate      *string
	Project      *string
	Cycle        *string
	Parent       *string
	Labels       *string // comma-separated, replace mode
	AddLabels    *string
	RemoveLabels *string
	Delegate     *string
	Links        *string
	DuplicateOf  *string
}

// Empty reports whether no field-update flag was supplied.
func (f *UpdateFlags) Empty() bool {
	return f.State == nil && f.Assignee == nil && f.Priority == nil &&
		f.DueDate == nil && f.Project == nil && f.Cycle == nil &&
		f.Parent == nil && f.Labels == nil && f.AddLabels == nil &&
		f.RemoveLabels == nil && f.Delegate == nil && f.Links == nil &&
		f.DuplicateOf == nil
}

// Relation is an issue relation to create alongside the update.
type Relation struct {
	RelatedID string
	Type      string // "related" or "duplicate"
}

// Payload is the update computed once per batch and applied to every issue
// in the working set.
//
// Fields holds the static issueUpdate input: a present key with a nil value
// clears the field (marshals to JSON null), a present key with a non-nil
// value sets it, an absent key leaves the field untouched. Label add/remove
// modes cannot be static — they depend on each issue's current labels — so
// they are carried separately and merged per issue by ForIssue.
type Payload struct {
	Fields         map[string]any
	AddLabelIDs    []string
	RemoveLabelIDs []string
	Relations      []Relation
	Warnings       []string
}

// HasChanges reports whether applying the payload would do anything.
func (p *Payload) HasChanges() bool {
	return len(p.Fields) > 0 || len(p.AddLabelIDs) > 0 ||
		len(p.RemoveLabelIDs) > 0 || len(p.Relations) > 0
}

// BuildOptions supplies resolution context for BuildPayload.
type BuildOptions struct {
	// TeamID scopes state, cycle, and project resolution. Taken from the
	// working set's first issue.
	TeamID string
	// StateAliases maps user-configured shorthands to state names.
	StateAliases map[string]string
}

var dueDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// BuildPayload resolves the supplied update flags into a Payload. Each field
// is an independent block: hard failures (unresolvable state, malformed due
// date) abort the build, soft failures (unresolvable parent, label, link, or
// delegate) skip the entry and record a warning.
func BuildPayload(client *api.Client, flags *UpdateFlags, opts *BuildOptions) (*Payload, error) {
	if opts == nil {
		opts = &BuildOptions{}
	}

	p := &Payload{Fields: map[string]any{}}

	// Due date first: a malformed value must fail before any remote call.
	if flags.DueDate != nil {
		v := *flags.DueDate
		if v == ClearSentinel {
			p.Fields["dueDate"] = nil
		} else if !dueDatePattern.MatchString(v) {
			return nil, exitcode.Usagef("invalid due date %q: expected YYYY-MM-DD or %q", v, ClearSentinel)
		} else {
			p.Fields["dueDate"] = v
		}
	}

	if flags.Priority != nil {
		p.Fields["priority"] = *flags.Priority
	}

	if flags.State != nil {
		s, err := resolve.State(client, opts.TeamID, *flags.State, opts.StateAliases)
		if err != nil {
			return nil, err
		}
		p.Fields["stateId"] = s.ID
	}

	if flags.Assignee != nil {
		v := *flags.Assignee
		if v == "" || v == ClearSentinel {
			p.Fields["assigneeId"] = nil
		} else {
			u, err := resolve.User(client, v)
			if err != nil {
				return nil, err
			}
			p.Fields["assigneeId"] = u.ID
		}
	}

	if flags.Cycle != nil {
		v := *flags.Cycle
		if v == ClearSentinel {
			p.Fields["cycleId"] = nil
		} else {
			c, err := resolve.Cycle(client, opts.TeamID, v)
			if err != nil {
				return nil, err
			}
			p.Fields["cycleId"] = c.ID
		}
	}

	if flags.Project != nil {
		prj, err := resolve.Project(client, *flags.Project, &resolve.ProjectOptions{TeamID: opts.TeamID})
		if err != nil {
			return nil, err
		}
		p.Fields["projectId"] = prj.ID
	}

	if flags.Parent != nil {
		parent, err := resolve.Issue(client, *flags.Parent)
		if err != nil {
			p.warnf("skipping parent: %v", err)
		} else {
			p.Fields["parentId"] = parent.ID
		}
	}

	if flags.Labels != nil {
		names := splitList(*flags.Labels)
		if len(names) == 0 {
			p.Fields["labelIds"] = []string{}
		} else {
			ids, missing, err := resolveLabelIDs(client, names)
			if err != nil {
				return nil, err
			}
			for _, name := range missing {
				p.warnf("skipping unknown label %q", name)
			}
			p.Fields["labelIds"] = ids
		}
	}

	if flags.AddLabels != nil {
		ids, missing, err := resolveLabelIDs(client, splitList(*flags.AddLabels))
		if err != nil {
			return nil, err
		}
		for _, name := range missing {
			p.warnf("skipping unknown label %q", name)
		}
		p.AddLabelIDs = ids
	}

	if flags.RemoveLabels != nil {
		ids, missing, err := resolveLabelIDs(client, splitList(*flags.RemoveLabels))
		if err != nil {
			return nil, err
		}
		for _, name := range missing {
			p.warnf("label %q not found, leaving it untouched", name)
		}
		p.RemoveLabelIDs = ids
	}

	if flags.Delegate != nil {
		names := splitList(*flags.Delegate)
		if len(names) == 0 {
			p.Fields["delegateIds"] = []string{}
		} else {
			users, missing, err := resolve.Users(client, names)
			if err != nil {
				return nil, err
			}
			for _, name := range missing {
				p.warnf("skipping unknown user %q", name)
			}
			ids := make([]string, 0, len(users))
			for _, u := range users {
				ids = append(ids, u.ID)
			}
			p.Fields["delegateIds"] = ids
		}
	}

	if flags.Links != nil {
		for _, ident := range splitList(*flags.Links) {
			linked, err := resolve.Issue(client, ident)
			if err != nil {
				p.warnf("skipping link %q: %v", ident, err)
				continue
			}
			p.Relations = append(p.Relations, Relation{RelatedID: linked.ID, Type: "related"})
		}
	}

	if flags.DuplicateOf != nil {
		target, err := resolve.Issue(client, *flags.DuplicateOf)
		if err != nil {
			return nil, err
		}
		p.Relations = append(p.Relations, Relation{RelatedID: target.ID, Type: "duplicate"})

		terminal, err := resolve.TerminalState(client, opts.TeamID)
		if err != nil {
			return nil, err
		}
		p.Fields["stateId"] = terminal.ID
	}

	return p, nil
}

// ForIssue returns the issueUpdate input for one issue. When label add or
// remove mode is active the issue's current labels are read live and
// merged; otherwise the static fields are returned as-is.
func (p *Payload) ForIssue(client *api.Client, issueID string) (map[string]any, error) {
	input := make(map[string]any, len(p.Fields)+1)
	for k, v := range p.Fields {
		input[k] = v
	}

	if len(p.AddLabelIDs) == 0 && len(p.RemoveLabelIDs) == 0 {
		return input, nil
	}

	current, err := resolve.IssueLabels(client, issueID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(current)+len(p.AddLabelIDs))
	remove := make(map[string]bool, len(p.RemoveLabelIDs))
	for _, id := range p.RemoveLabelIDs {
		remove[id] = true
	}

	merged := make([]string, 0, len(current)+len(p.AddLabelIDs))
	for _, id := range current {
		if !seen[id] && !remove[id] {
			seen[id] = true
			merged = append(merged, id)
		}
	}
	for _, id := range p.AddLabelIDs {
		if !seen[id] && !remove[id] {
			seen[id] = true
			merged = append(merged, id)
		}
	}

	input["labelIds"] = merged
	return input, nil
}

func (p *Payload) warnf(format string, args ...any) {
	p.Warnings = append(p.Warnings, fmt.Sprintf(format, args...))
}

// resolveLabelIDs resolves label names to IDs, returning the names that did
// not resolve.
func resolveLabelIDs(client *api.Client, names []string) ([]string, []string, error) {
	if len(names) == 0 {
		return nil, nil, nil
	}
	labels, missing, err := resolve.Labels(client, names)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]string, 0, len(labels))
	for _, l := range labels {
		ids = append(ids, l.ID)
	}
	return ids, missing, nil
}

// splitList splits a comma-separated flag value, trimming whitespace and
// dropping empties. The clear sentinel yields an empty list.
func splitList(v string) []string {
	v = strings.TrimSpace(v)
	if v == "" || v == ClearSentinel {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
