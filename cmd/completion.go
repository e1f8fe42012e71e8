package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion <shell>",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for lnr.

To load completions:

Bash:
  # Linux:
  $ lnr completion bash > /etc/bash_completion.d/lnr

  # macOS (requires bash-completion):
  $ lnr completion bash > $(brew --prefix)/etc/bash_completion.d/lnr

Zsh:
  # If shell completion is not already enabled in your zsh, add:
  #   autoload -U compinit; compinit
  $ lnr completion zsh > "${fpath[1]}/_lnr"

  # Or for Oh My Zsh:
  $ lnr completion zsh > ~/.oh-my-zsh/completions/_lnr

Fish:
  $ lnr completion fish > ~/.config/fish/completions/lnr.fish

After installing, restart your shell or source the completion file.`,
}

var completionBashCmd = &cobra.Command{
	Use:   "bash",
	Short: "Generate bash completion script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenBashCompletionV2(cmd.OutOrStdout(), true)
	},
}

var completionZshCmd = &cobra.Command{
	Use:   "zsh",
	Short: "Generate zsh completion script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenZshCompletion(cmd.OutOrStdout())
	},
}

var completionFishCmd = &cobra.Command{
	Use:   "fish",
	Short: "Generate fish completion script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
	},
}

var completionInstallHelp bool

func init() {
	completionCmd.Flags().BoolVar(&completionInstallHelp, "help-install", false, "Show detailed installation instructions")
	completionCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if completionInstallHelp {
			fmt.Fprintln(cmd.OutOrStdout(), cmd.Long)
			return nil
		}
		return cmd.Help()
	}

	completionCmd.AddCommand(completionBashCmd)
	completionCmd.AddCommand(completionZshCmd)
	completionCmd.AddCommand(completionFishCmd)
	rootCmd.AddCommand(completionCmd)
}
