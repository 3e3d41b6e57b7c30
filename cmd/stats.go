package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/trakaido/trakaido/internal/config"
	"github.com/trakaido/trakaido/internal/journey"
	"github.com/trakaido/trakaido/internal/logging"
	"github.com/trakaido/trakaido/internal/stats"
	"github.com/trakaido/trakaido/internal/store"
	"github.com/trakaido/trakaido/internal/vocab"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()

		catalog, err := vocab.Load()
		if err != nil {
			return fmt.Errorf("load vocabulary: %w", err)
		}

		log, err := logging.New(loadLogConfig())
		if err != nil {
			return err
		}

		ctx := context.Background()
		tracker := stats.NewTracker(st.JourneyStats(), log)
		tracker.Initialize(ctx)

		printWordTotals(catalog, tracker)
		fmt.Println()
		printCorpusTable(catalog, tracker)

		events := st.Events()
		if acc, err := events.AccuracyByActivity(ctx); err == nil && len(acc) > 0 {
			fmt.Println()
			printAccuracyTable(acc)
		}
		if days, err := events.PracticeDays(ctx); err == nil {
			streak := store.DayStreak(days, time.Now())
			fmt.Printf("\nPractice streak: %d day(s) over %d practice day(s) total\n", streak, len(days))
		}
		if last, err := events.LastSession(ctx); err == nil && last != nil && last.Action == store.SessionEnded {
			fmt.Printf("Last session: %d answers, %d correct, %s on %s\n",
				last.Turns, last.Correct,
				(time.Duration(last.DurationSecs) * time.Second).String(),
				last.At.Local().Format("2006-01-02 15:04"))
		}

		return nil
	},
}

func printWordTotals(catalog *vocab.Catalog, tracker *stats.Tracker) {
	snapshot := tracker.Snapshot()

	var seen, mastered int
	for _, ws := range snapshot {
		if ws.Exposed {
			seen++
		}
		if ws.TotalCorrect() >= journey.MatureCorrectThreshold {
			mastered++
		}
	}

	fmt.Printf("Words seen:     %d of %d\n", seen, catalog.Len())
	fmt.Printf("Words mastered: %d (%d+ correct answers)\n", mastered, journey.MatureCorrectThreshold)
}

func printCorpusTable(catalog *vocab.Catalog, tracker *stats.Tracker) {
	snapshot := tracker.Snapshot()

	fmt.Printf("%-16s  %-20s  %5s  %6s\n", "Corpus", "Name", "Seen", "Total")
	fmt.Println(strings.Repeat("─", 53))

	for _, name := range catalog.Corpora() {
		words := catalog.ByCorpus(name)
		var seen int
		for _, w := range words {
			if snapshot[w.Key()].Exposed {
				seen++
			}
		}
		fmt.Printf("%-16s  %-20s  %5d  %6d\n", name, vocab.DisplayName(name), seen, len(words))
	}
}

func printAccuracyTable(acc []store.ActivityAccuracy) {
	fmt.Printf("%-16s  %8s  %6s  %5s\n", "Activity", "Correct", "Wrong", "Acc")
	fmt.Println(strings.Repeat("─", 42))

	for _, a := range acc {
		total := a.Correct + a.Incorrect
		pct := 0.0
		if total > 0 {
			pct = float64(a.Correct) / float64(total) * 100
		}
		fmt.Printf("%-16s  %8d  %6d  %4.0f%%\n", a.Activity, a.Correct, a.Incorrect, pct)
	}
}

// loadLogConfig returns the configured log settings, or the defaults
// when the config file cannot be read. CLI output must not depend on a
// valid config.
func loadLogConfig() config.LogConfig {
	cfg, err := config.Load()
	if err != nil {
		return config.LogConfig{Level: "warn"}
	}
	return cfg.Log
}
