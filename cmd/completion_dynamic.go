package cmd

import (
	"strings"

	"github.com/ewhall/lnr/internal/cache"
	"github.com/ewhall/lnr/internal/config"
	"github.com/ewhall/lnr/internal/resolve"
	"github.com/spf13/cobra"
)

// completionConfig loads config and resolves the default team's ID from the
// cache alone. Completion functions never hit the network; a cold cache just
// means no suggestions.
func completionConfig() (*config.Config, string) {
	cfg, err := config.Load()
	if err != nil {
		return nil, ""
	}

	identifier := cfg.Team
	if target, ok := cfg.Aliases.Teams[identifier]; ok {
		identifier = target
	}
	if identifier == "" {
		return cfg, ""
	}
	if resolve.LooksLikeID(identifier) {
		return cfg, identifier
	}

	entries, ok := cache.Get[[]resolve.CachedTeam](resolve.TeamCacheKey())
	if !ok {
		return cfg, ""
	}
	for _, t := range entries {
		if strings.EqualFold(t.Key, identifier) || strings.EqualFold(t.Name, identifier) {
			return cfg, t.ID
		}
	}
	return cfg, ""
}

// completeTeamKeys returns cached team keys for shell completion.
func completeTeamKeys(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, _ := completionConfig()

	entries, ok := cache.Get[[]resolve.CachedTeam](resolve.TeamCacheKey())
	if !ok {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var names []string
	for _, t := range entries {
		names = append(names, t.Key)
	}
	if cfg != nil {
		for alias := range cfg.Aliases.Teams {
			names = append(names, alias)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeStateNames returns cached workflow state names, preferring the
// default team's scoped cache.
func completeStateNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, teamID := completionConfig()

	entries, ok := cache.Get[[]resolve.CachedState](resolve.StateCacheKey(teamID))
	if !ok {
		entries, ok = cache.Get[[]resolve.CachedState](resolve.StateCacheKey(""))
	}
	if !ok {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var names []string
	for _, s := range entries {
		names = append(names, s.Name)
	}
	if cfg != nil {
		for alias := range cfg.Aliases.States {
			names = append(names, alias)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeLabelNames returns cached label names.
func completeLabelNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	entries, ok := cache.Get[[]resolve.CachedLabel](resolve.LabelCacheKey())
	if !ok {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var names []string
	for _, l := range entries {
		names = append(names, l.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeUserNames returns cached user display names.
func completeUserNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	entries, ok := cache.Get[[]resolve.CachedUser](resolve.UserCacheKey())
	if !ok {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var names []string
	for _, u := range entries {
		if u.DisplayName != "" {
			names = append(names, u.DisplayName)
		} else {
			names = append(names, u.Name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeProjectNames returns cached project names.
func completeProjectNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	entries, ok := cache.Get[[]resolve.CachedProject](resolve.ProjectCacheKey())
	if !ok {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var names []string
	for _, p := range entries {
		names = append(names, p.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeCycleNames returns cached cycle display names for the default team.
func completeCycleNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	_, teamID := completionConfig()
	if teamID == "" {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	entries, ok := cache.Get[[]resolve.CachedCycle](resolve.CycleCacheKey(teamID))
	if !ok {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	names := []string{"none"}
	for _, c := range entries {
		names = append(names, c.DisplayName())
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeOutputFormats returns the supported --output values.
func completeOutputFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"json"}, cobra.ShellCompDirectiveNoFileComp
}
