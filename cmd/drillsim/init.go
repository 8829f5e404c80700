package main

import (
	"fmt"

	"github.com/aretw0/drillsim/internal/config"
	"github.com/aretw0/drillsim/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default config file",
	Long: `Writes the default configuration to path (drillsim.yaml if omitted).
The format follows the extension: .yaml, .yml, .json or .toml.
An existing file is never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultFileNames[0]
		if len(args) > 0 {
			path = args[0]
		}
		if err := config.Write(path, config.Defaults()); err != nil {
			return err
		}
		tui.PrintBanner(cmd.OutOrStdout())
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
