package main

import (
	"os"

	"github.com/aretw0/drillsim/internal/cli"
	"github.com/aretw0/drillsim/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Generate a table and print it without exporting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		rows, _ := cmd.Flags().GetInt("rows")
		wellLog, _ := cmd.Flags().GetBool("well-log")
		summary, _ := cmd.Flags().GetBool("summary")
		width, _ := cmd.Flags().GetInt("width")

		rt, err := cli.NewRuntime(cmd.Context(), cfg, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		return cli.Preview(cmd.Context(), rt, cfg, cmd.OutOrStdout(), cli.PreviewOptions{
			Rows:    rows,
			WellLog: wellLog,
			Summary: summary,
			Width:   width,
			Styled:  tui.IsTerminal(os.Stdout.Fd()),
		})
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	addRequestFlags(previewCmd)
	previewCmd.Flags().IntP("rows", "n", 5, "Number of leading rows to show (0 shows all)")
	previewCmd.Flags().Bool("well-log", false, "Print a well-log sketch of every row")
	previewCmd.Flags().Bool("summary", true, "Print per-channel statistics")
	previewCmd.Flags().Int("width", 16, "Width of each well-log track")
}
