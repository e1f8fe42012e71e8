package cmd

import "github.com/spf13/cobra"

// This file registers dynamic shell completions for all commands.
// It uses a single init() to wire up RegisterFlagCompletionFunc on flags
// that accept entity names. Completions read only the cache, never the API.

func init() {
	// Global output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", completeOutputFormats)

	// Team flags
	registerFlagCompletion(issueListCmd, "team", completeTeamKeys)
	registerFlagCompletion(stateListCmd, "team", completeTeamKeys)
	registerFlagCompletion(cycleListCmd, "team", completeTeamKeys)

	// State flags
	registerFlagCompletion(issueListCmd, "state", completeStateNames)
	registerFlagCompletion(issueUpdateCmd, "state", completeStateNames)

	// Entity field flags on issue update
	registerFlagCompletion(issueUpdateCmd, "assignee", completeUserNames)
	registerFlagCompletion(issueUpdateCmd, "delegate", completeUserNames)
	registerFlagCompletion(issueUpdateCmd, "project", completeProjectNames)
	registerFlagCompletion(issueUpdateCmd, "cycle", completeCycleNames)
	registerFlagCompletion(issueUpdateCmd, "labels", completeLabelNames)
	registerFlagCompletion(issueUpdateCmd, "add-labels", completeLabelNames)
	registerFlagCompletion(issueUpdateCmd, "remove-labels", completeLabelNames)
}

// registerFlagCompletion is a helper that registers a flag completion function,
// silently ignoring errors (e.g. if the flag doesn't exist).
func registerFlagCompletion(cmd *cobra.Command, flag string, fn func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective)) {
	_ = cmd.RegisterFlagCompletionFunc(flag, fn)
}
