package main

import (
	"github.com/aretw0/drillsim/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts drillsim as an HTTP server exposing /generate, /export, /channels and
/formats, validated against the embedded OpenAPI document, plus /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("no-metrics") {
			noMetrics, _ := cmd.Flags().GetBool("no-metrics")
			cfg.Server.Metrics = !noMetrics
		}
		if err := cli.Validate(cfg); err != nil {
			return err
		}

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		rt, err := cli.NewRuntime(sc, cfg, cfg.Server.Metrics)
		if err != nil {
			return err
		}
		defer rt.Close()

		return cli.Serve(sc, rt, cfg, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addRequestFlags(serveCmd)
	addOutputFlags(serveCmd)
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().Bool("no-metrics", false, "Disable the /metrics endpoint")
}
