package main

import (
	"fmt"
	"os"

	"github.com/aretw0/drillsim/internal/cli"
	"github.com/aretw0/drillsim/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "drillsim",
	Short: "drillsim generates synthetic drilling sensor data",
	Long: `drillsim synthesizes depth-indexed drilling sensor readings (ROP, RPM, Flow Rate,
Weight on Bit) as bounded random walks and exports them to CSV or XLSX files
without overwriting earlier runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default: drillsim.yaml|yml|json|toml in the working directory)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")
}

// loadConfig resolves the configuration for cmd: file, environment, then flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	logJSON, _ := cmd.Flags().GetBool("log-json")

	cfg, _, err := cli.LoadConfig(cli.RunOptions{
		ConfigPath: path,
		Debug:      debug,
		LogJSON:    logJSON,
	}, os.Environ())
	if err != nil {
		return cfg, err
	}
	if err := applyFlags(cmd, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cli.Validate(cfg)
}
