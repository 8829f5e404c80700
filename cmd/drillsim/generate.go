package main

import (
	"github.com/aretw0/drillsim/internal/cli"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one table and export it to a new file",
	Long: `Generates one drilling data table and writes it to {dir}/{prefix}_{index}.{format},
using the first index not already taken. Prints the path of the written file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		quiet, _ := cmd.Flags().GetBool("quiet")

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		rt, err := cli.NewRuntime(sc, cfg, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		_, err = cli.Generate(sc, rt, cfg, cmd.OutOrStdout(), quiet)
		return err
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	addRequestFlags(generateCmd)
	addOutputFlags(generateCmd)
	generateCmd.Flags().BoolP("quiet", "q", false, "Print only the written path")
}
