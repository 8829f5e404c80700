package main

import (
	"os"

	"github.com/aretw0/drillsim/internal/cli"
	"github.com/aretw0/drillsim/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "List the sensor channels and their step limits",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return cli.Channels(cmd.OutOrStdout(), cfg, tui.IsTerminal(os.Stdout.Fd()))
	},
}

func init() {
	rootCmd.AddCommand(channelsCmd)
	addRequestFlags(channelsCmd)
}
