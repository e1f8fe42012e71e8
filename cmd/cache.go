package cmd

import (
	"fmt"

	"github.com/ewhall/lnr/internal/cache"
	"github.com/ewhall/lnr/internal/config"
	"github.com/ewhall/lnr/internal/exitcode"
	"github.com/ewhall/lnr/internal/resolve"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local cache",
}

var cacheClearTeam bool

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached data",
	Long:  `Clear all cached entity data, or use --team to clear only the default team's scoped caches.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cacheClearTeam {
			cfg, err := config.Load()
			if err != nil {
				return exitcode.General("loading config", err)
			}
			if cfg.Team == "" {
				return exitcode.Usage("no default team configured — set LNR_TEAM or run 'lnr setup'")
			}
			client := newClient(cfg, cmd)
			team, err := resolve.Team(client, cfg.Team, cfg.Aliases.Teams)
			if err != nil {
				return err
			}
			if err := cache.ClearTeam(team.ID); err != nil {
				return exitcode.General("clearing team cache", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared cache for default team.")
			return nil
		}

		if err := cache.ClearAll(); err != nil {
			return exitcode.General("clearing cache", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cleared all cached data.")
		return nil
	},
}

func init() {
	cacheClearCmd.Flags().BoolVar(&cacheClearTeam, "team", false, "Clear only the default team's scoped caches")
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func resetCacheFlags() {
	cacheClearTeam = false
}
