package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/ewhall/lnr/internal/exitcode"
	"github.com/ewhall/lnr/internal/output"
	"github.com/ewhall/lnr/internal/resolve"
	"github.com/spf13/cobra"
)

var issueCommentCmd = &cobra.Command{
	Use:   "comment <issue> <body>",
	Short: "Add a comment to an issue",
	Long: `Add a markdown comment to an issue.

Examples:
  lnr issue comment ENG-123 "Fixed in the latest deploy"`,
	Args: cobra.ExactArgs(2),
	RunE: runIssueComment,
}

func init() {
	issueCmd.AddCommand(issueCommentCmd)
}

const createCommentMutation = `mutation CreateComment($input: CommentCreateInput!) {
  commentCreate(input: $input) {
    success
    comment {
      id
      url
    }
  }
}`

func runIssueComment(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg, cmd)

	issue, err := resolve.Issue(client, args[0])
	if err != nil {
		return err
	}

	data, err := client.Execute(createCommentMutation, map[string]any{
		"input": map[string]any{
			"issueId": issue.ID,
			"body":    args[1],
		},
	})
	if err != nil {
		return exitcode.General("creating comment", err)
	}

	var resp struct {
		CommentCreate struct {
			Success bool `json:"success"`
			Comment struct {
				ID  string `json:"id"`
				URL string `json:"url"`
			} `json:"comment"`
		} `json:"commentCreate"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return exitcode.General("parsing comment response", err)
	}
	if !resp.CommentCreate.Success {
		return exitcode.Generalf("comment on %s not accepted", issue.Identifier)
	}

	output.MutationSingle(cmd.OutOrStdout(), fmt.Sprintf("Commented on %s", issue.Identifier))
	return nil
}
