package batch

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ewhall/lnr/internal/api"
	"github.com/ewhall/lnr/internal/resolve"
)

// DefaultMaxRetries is the number of retries after the first attempt, so an
// issue sees at most DefaultMaxRetries+1 attempts.
const DefaultMaxRetries = 3

const baseBackoff = 500 * time.Millisecond

// Status is one issue's position in the batch state machine.
type Status int

const (
	StatusAttempting Status = iota
	StatusSucceeded
	StatusFailed
)

// Options configures batch execution. The zero value uses the default retry
// budget and real sleeping.
type Options struct {
	MaxRetries int // retries after the first attempt; <0 means no retries
	// Sleep is called for backoff between attempts. Tests inject a recorder
	// here; nil means time.Sleep.
	Sleep func(time.Duration)
	// Progress, when set, observes each issue's transitions. It must not
	// mutate anything — ordering and outcome are the executor's alone.
	Progress func(index, total int, issue *resolve.IssueResult, status Status)
}

func (o *Options) maxRetries() int {
	if o.MaxRetries < 0 {
		return 0
	}
	return o.MaxRetries
}

const updateIssueMutation = `mutation UpdateIssue($id: String!, $input: IssueUpdateInput!) {
  issueUpdate(id: $id, input: $input) {
    success
  }
}`

const createRelationMutation = `mutation CreateIssueRelation($input: IssueRelationCreateInput!) {
  issueRelationCreate(input: $input) {
    success
  }
}`

// Execute applies the payload to every issue in the working set, one issue
// at a time. Writes are sequential on purpose: the API rate-limits
// concurrent mutations, and strict ordering keeps retry and progress
// semantics unambiguous.
//
// Each issue gets at most maxRetries+1 attempts with exponential backoff
// between them. A failed issue is recorded and the loop moves on — one
// issue's exhaustion never aborts its siblings.
func Execute(client *api.Client, issues []*resolve.IssueResult, payload *Payload, opts *Options) *Result {
	if opts == nil {
		opts = &Options{MaxRetries: DefaultMaxRetries}
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	result := &Result{
		Succeeded: []string{},
		Failed:    []FailedItem{},
		Total:     len(issues),
	}

	for i, issue := range issues {
		if opts.Progress != nil {
			opts.Progress(i, len(issues), issue, StatusAttempting)
		}

		err := applyWithRetry(client, issue, payload, opts.maxRetries(), sleep)
		if err != nil {
			result.Failed = append(result.Failed, FailedItem{ID: issue.Identifier, Error: err.Error()})
			if opts.Progress != nil {
				opts.Progress(i, len(issues), issue, StatusFailed)
			}
			continue
		}

		result.Succeeded = append(result.Succeeded, issue.Identifier)
		if opts.Progress != nil {
			opts.Progress(i, len(issues), issue, StatusSucceeded)
		}
	}

	return result
}

// applyWithRetry runs applyOnce up to maxRetries+1 times, sleeping
// 500ms * 2^(n-1) after failed attempt n.
func applyWithRetry(client *api.Client, issue *resolve.IssueResult, payload *Payload, maxRetries int, sleep func(time.Duration)) error {
	var lastErr error
	for attempt := 1; attempt <= maxRetries+1; attempt++ {
		if attempt > 1 {
			sleep(baseBackoff * (1 << (attempt - 2)))
		}
		if lastErr = applyOnce(client, issue, payload); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

// applyOnce performs one full attempt: per-issue payload materialization,
// the update mutation, then any relation creations. The whole attempt is
// the retry unit; issueUpdate is idempotent, so re-running it after a
// relation failure is safe.
func applyOnce(client *api.Client, issue *resolve.IssueResult, payload *Payload) error {
	input, err := payload.ForIssue(client, issue.ID)
	if err != nil {
		return err
	}

	if len(input) > 0 {
		var resp struct {
			IssueUpdate struct {
				Success bool `json:"success"`
			} `json:"issueUpdate"`
		}
		if err := executeInto(client, updateIssueMutation, map[string]any{
			"id":    issue.ID,
			"input": input,
		}, &resp); err != nil {
			return err
		}
		// The API can decline an update without a transport error. That
		// counts as a failed attempt too.
		if !resp.IssueUpdate.Success {
			return fmt.Errorf("update not accepted")
		}
	}

	for _, rel := range payload.Relations {
		if rel.RelatedID == issue.ID {
			// duplicate-of applied to its own target; relating an issue
			// to itself is rejected upstream anyway.
			continue
		}
		var resp struct {
			IssueRelationCreate struct {
				Success bool `json:"success"`
			} `json:"issueRelationCreate"`
		}
		if err := executeInto(client, createRelationMutation, map[string]any{
			"input": map[string]any{
				"issueId":        issue.ID,
				"relatedIssueId": rel.RelatedID,
				"type":           rel.Type,
			},
		}, &resp); err != nil {
			return err
		}
		if !resp.IssueRelationCreate.Success {
			return fmt.Errorf("%s relation not accepted", rel.Type)
		}
	}

	return nil
}

func executeInto(client *api.Client, query string, vars map[string]any, out any) error {
	data, err := client.Execute(query, vars)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
