package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "wayfind",
	Short: "Career guidance service: explore careers, build reports, ask questions",
	Long: `wayfind analyzes career paths and answers follow-up questions.

Start the server with "wayfind start", then use the other commands to
interact with it. Providing WAYFIND_GROQ_API_KEY and WAYFIND_SERPAPI_KEY
unlocks live analysis; without them the service runs in a degraded mode.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the wayfind version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wayfind version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(careersCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
