package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trakaido/trakaido/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase all journey progress",
	Long: "Erase the per-word exposure and answer counters. The answer history\n" +
		"and LLM request log are kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Print("This erases all journey progress. Type 'yes' to continue: ")
			scanner := bufio.NewScanner(os.Stdin)
			if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()

		if err := st.JourneyStats().Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clear journey stats: %w", err)
		}

		fmt.Println("Journey progress erased.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
}
