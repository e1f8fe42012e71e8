package cmd

import (
	"github.com/ewhall/lnr/internal/output"
	"github.com/ewhall/lnr/internal/resolve"
	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Work with workflow states",
}

var stateListTeam string

var stateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workflow states",
	Long:  `List workflow states, scoped to the default team unless --team overrides it. With no team at all, lists states across the workspace.`,
	Args:  cobra.NoArgs,
	RunE:  runStateList,
}

func init() {
	stateListCmd.Flags().StringVar(&stateListTeam, "team", "", "Team to list states for (key, name, or ID)")
	stateCmd.AddCommand(stateListCmd)
	rootCmd.AddCommand(stateCmd)
}

func resetStateFlags() {
	stateListTeam = ""
}

func runStateList(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg, cmd)

	teamID := ""
	teamIdentifier := stateListTeam
	if teamIdentifier == "" {
		teamIdentifier = cfg.Team
	}
	if teamIdentifier != "" {
		team, err := resolve.Team(client, teamIdentifier, cfg.Aliases.Teams)
		if err != nil {
			return err
		}
		teamID = team.ID
	}

	states, err := resolve.FetchStates(client, teamID)
	if err != nil {
		return err
	}

	if output.IsJSON(outputFormat) {
		return output.JSON(cmd.OutOrStdout(), states)
	}

	lw := output.NewListWriter(cmd.OutOrStdout(), "NAME", "TYPE", "ID")
	for _, s := range states {
		lw.Row(s.Name, s.Type, output.Dim(s.ID))
	}
	lw.Flush()
	return nil
}
