package cli

import (
	"github.com/spf13/cobra"
)

// configFile is the --config flag shared by all subcommands.
var configFile string

var rootCmd = &cobra.Command{
	Use:   "aetheris",
	Short: "Thermal state engine for a server-heated building",
	Long: "Aetheris turns server heat, weather and injected demo heat into a living-machine " +
		"state, classifies it and drives the smart-glass and foundation actuators.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default configs/config.yml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(evaluateCmd)
}
