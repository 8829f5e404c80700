package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/drillsim"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of drillsim",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "drillsim version %s\n", strings.TrimSpace(drillsim.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
