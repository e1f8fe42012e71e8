package cmd

import (
	"fmt"

	"github.com/ewhall/lnr/internal/api"
	"github.com/ewhall/lnr/internal/config"
	"github.com/ewhall/lnr/internal/exitcode"
	"github.com/ewhall/lnr/internal/output"
	"github.com/ewhall/lnr/internal/resolve"
	"github.com/spf13/cobra"
)

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Work with teams",
}

var teamListCmd = &cobra.Command{
	Use:   "list",
	Short: "List teams in the workspace",
	Args:  cobra.NoArgs,
	RunE:  runTeamList,
}

func init() {
	teamCmd.AddCommand(teamListCmd)
	rootCmd.AddCommand(teamCmd)
}

// apiNewFunc is the function used to create API clients. It can be replaced
// in tests to inject a mock server endpoint.
var apiNewFunc = api.New

// newClient creates an API client from config, wiring up verbose logging
// and any configured endpoint override.
func newClient(cfg *config.Config, cmd *cobra.Command) *api.Client {
	var opts []api.Option
	if cfg.Endpoint != "" {
		opts = append(opts, api.WithEndpoint(cfg.Endpoint))
	}
	if verbose {
		opts = append(opts, api.WithVerbose(func(format string, args ...any) {
			fmt.Fprintf(cmd.ErrOrStderr(), format, args...)
		}))
	}
	return apiNewFunc(cfg.APIKey, opts...)
}

// requireConfig loads config and validates that an API key is present.
func requireConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, exitcode.General("loading config", err)
	}
	if cfg.APIKey == "" {
		return nil, exitcode.Auth("no API key configured — set LNR_API_KEY or run 'lnr setup'", nil)
	}
	return cfg, nil
}

// requireTeam loads config and resolves the default team. Commands that
// need team scope without an explicit --team flag use this.
func requireTeam(client *api.Client, cfg *config.Config) (*resolve.TeamResult, error) {
	if cfg.Team == "" {
		return nil, exitcode.Usage("no default team configured — set LNR_TEAM, pass --team, or run 'lnr setup'")
	}
	return resolve.Team(client, cfg.Team, cfg.Aliases.Teams)
}

func runTeamList(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg, cmd)

	teams, err := resolve.FetchTeams(client)
	if err != nil {
		return err
	}

	if output.IsJSON(outputFormat) {
		return output.JSON(cmd.OutOrStdout(), teams)
	}

	lw := output.NewListWriter(cmd.OutOrStdout(), "KEY", "NAME", "ID")
	for _, t := range teams {
		lw.Row(t.Key, t.Name, output.Dim(t.ID))
	}
	lw.Flush()
	return nil
}
