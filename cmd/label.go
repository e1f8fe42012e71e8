package cmd

import (
	"github.com/ewhall/lnr/internal/output"
	"github.com/ewhall/lnr/internal/resolve"
	"github.com/spf13/cobra"
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Work with issue labels",
}

var labelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List labels in the workspace",
	Args:  cobra.NoArgs,
	RunE:  runLabelList,
}

func init() {
	labelCmd.AddCommand(labelListCmd)
	rootCmd.AddCommand(labelCmd)
}

func runLabelList(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg, cmd)

	labels, err := resolve.FetchLabels(client)
	if err != nil {
		return err
	}

	if output.IsJSON(outputFormat) {
		return output.JSON(cmd.OutOrStdout(), labels)
	}

	lw := output.NewListWriter(cmd.OutOrStdout(), "NAME", "COLOR", "ID")
	for _, l := range labels {
		lw.Row(l.Name, l.Color, output.Dim(l.ID))
	}
	lw.Flush()
	return nil
}
