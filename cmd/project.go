package cmd

import (
	"strconv"

	"github.com/ewhall/lnr/internal/output"
	"github.com/ewhall/lnr/internal/resolve"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Work with projects",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects in the workspace",
	Args:  cobra.NoArgs,
	RunE:  runProjectList,
}

func init() {
	projectCmd.AddCommand(projectListCmd)
	rootCmd.AddCommand(projectCmd)
}

func runProjectList(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg, cmd)

	projects, err := resolve.FetchProjects(client)
	if err != nil {
		return err
	}

	if output.IsJSON(outputFormat) {
		return output.JSON(cmd.OutOrStdout(), projects)
	}

	lw := output.NewListWriter(cmd.OutOrStdout(), "NAME", "STATE", "TEAMS", "ID")
	for _, p := range projects {
		lw.Row(p.Name, p.State, strconv.Itoa(len(p.TeamIDs)), output.Dim(p.ID))
	}
	lw.Flush()
	return nil
}
