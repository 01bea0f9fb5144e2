// Package cli implements the Life OS command-line interface using
// Cobra. Each subcommand maps to one tracked concern (habits, logs,
// stats, review, backup).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lifeos",
	Short: "Life OS — Gamified habit tracking",
	Long: `Life OS turns daily habits into an RPG character sheet.
Complete habits to earn XP, climb the F to ZENITH rank ladder, and
keep your HP up by not missing the days you committed to.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
