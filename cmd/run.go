package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/trakaido/trakaido/internal/app"
	"github.com/trakaido/trakaido/internal/coach"
	"github.com/trakaido/trakaido/internal/config"
	"github.com/trakaido/trakaido/internal/llm"
	"github.com/trakaido/trakaido/internal/logging"
	"github.com/trakaido/trakaido/internal/selfupdate"
	"github.com/trakaido/trakaido/internal/stats"
	"github.com/trakaido/trakaido/internal/store"
	"github.com/trakaido/trakaido/internal/vocab"
	"github.com/trakaido/trakaido/internal/voice"
)

var journeyCmd = &cobra.Command{
	Use:   "journey",
	Short: "Start a journey session right away",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, true)
	},
}

// runApp opens the store, builds the shared services, and launches the
// TUI. startJourney skips the splash and opens a session immediately.
func runApp(cmd *cobra.Command, startJourney bool) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	catalog, err := vocab.Load()
	if err != nil {
		return fmt.Errorf("load vocabulary: %w", err)
	}

	tracker := stats.NewTracker(st.JourneyStats(), log)
	tracker.Initialize(ctx)

	dataDir, err := store.DataDir()
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}
	vm := voice.NewManager(filepath.Join(dataDir, "audio"), cfg.Audio.Enabled, cfg.Audio.Voice, log)

	opts := app.Options{
		Catalog:      catalog,
		Tracker:      tracker,
		Events:       st.Events(),
		Config:       cfg,
		Voice:        vm,
		Updates:      selfupdate.NewChecker(),
		Log:          log,
		Version:      version,
		StartJourney: startJourney,
	}

	// The LLM coach is optional. Without a provider the grammar breaks
	// use the built-in tip set.
	provider, err := llm.NewProviderFromEnv(ctx, st.Events(), log)
	if err != nil {
		log.WithError(err).Info("LLM provider not configured, using built-in grammar tips")
	} else {
		opts.Coach = coach.NewService(provider, coach.DefaultConfig())
	}

	return app.Run(opts)
}
