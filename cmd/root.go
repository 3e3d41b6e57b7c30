package cmd

import (
	"github.com/spf13/cobra"

	"github.com/trakaido/trakaido/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "trakaido",
	Short: "Lithuanian vocabulary trainer",
	Long: "Trakaido — terminal flash cards for learning Lithuanian. The journey mode\n" +
		"picks activities adaptively: new words first, then multiple choice,\n" +
		"listening, and typing as a word matures.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, false)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides TRAKAIDO_DB env var)")

	rootCmd.AddCommand(journeyCmd)
	rootCmd.AddCommand(wordsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then TRAKAIDO_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
