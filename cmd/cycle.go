package cmd

import (
	"fmt"
	"time"

	"github.com/ewhall/lnr/internal/output"
	"github.com/ewhall/lnr/internal/resolve"
	"github.com/spf13/cobra"
)

var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Work with cycles",
}

var cycleListTeam string

var cycleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cycles",
	Long:  `List cycles, scoped to the default team unless --team overrides it.`,
	Args:  cobra.NoArgs,
	RunE:  runCycleList,
}

func init() {
	cycleListCmd.Flags().StringVar(&cycleListTeam, "team", "", "Team to list cycles for (key, name, or ID)")
	cycleCmd.AddCommand(cycleListCmd)
	rootCmd.AddCommand(cycleCmd)
}

func resetCycleFlags() {
	cycleListTeam = ""
}

func runCycleList(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg, cmd)

	teamID := ""
	teamIdentifier := cycleListTeam
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

	cycles, err := resolve.FetchCycles(client, teamID)
	if err != nil {
		return err
	}

	if output.IsJSON(outputFormat) {
		return output.JSON(cmd.OutOrStdout(), cycles)
	}

	lw := output.NewListWriter(cmd.OutOrStdout(), "CYCLE", "DATES", "PROGRESS")
	for _, c := range cycles {
		lw.Row(
			c.DisplayName(),
			formatCycleDates(c.StartsAt, c.EndsAt),
			fmt.Sprintf("%.0f%%", c.Progress*100),
		)
	}
	lw.Flush()
	return nil
}

// parseCycleTime accepts the API's RFC3339 timestamps and bare dates.
func parseCycleTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}

// formatCycleDates formats cycle start/end timestamps for display.
func formatCycleDates(startsAt, endsAt string) string {
	start, startErr := parseCycleTime(startsAt)
	end, endErr := parseCycleTime(endsAt)

	if startErr == nil && endErr == nil {
		return output.FormatDateRange(start, end)
	}
	if startErr == nil {
		return output.FormatDate(start) + " →"
	}
	if endErr == nil {
		return "→ " + output.FormatDate(end)
	}
	return ""
}
