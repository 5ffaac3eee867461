package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"jobscout/internal/model"
	"jobscout/internal/pipeline"
)

var dumpRawPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one scan-filter-notify pass",
	Long:  "Runs the pipeline once: collect listings, extract and filter with the LLM, dedup against the ledger, notify, commit. Exits 0 on a completed run even if individual sources or sends failed.",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&dumpRawPath, "dump-raw", "", "write collected raw listings to this JSON file for review")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		// ConfigError is the one failure that aborts before any side effects.
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"role", cfg.Preferences.Role,
		"keywords", cfg.Preferences.Keywords,
		"experience_level", cfg.Preferences.ExperienceLevel,
		"sources", len(cfg.Sources),
		"ledger", cfg.Ledger.Backend,
	)

	store, err := openLedgerStore(cfg, logger)
	if err != nil {
		logger.Error("failed to open ledger store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	httpClient := &http.Client{Timeout: 30 * time.Second}
	collectors := buildCollectors(cfg, httpClient, logger)
	if len(collectors) == 0 {
		logger.Error("no sources to scan")
		os.Exit(1)
	}

	engine, err := setupEngine(cfg, logger)
	if err != nil {
		logger.Error("failed to set up extraction engine", "error", err)
		os.Exit(1)
	}
	notifier := setupNotifier(cfg, httpClient, logger)

	p := pipeline.New(cfg.Preferences, collectors, engine, store, notifier, cfg.Run.CollectorTimeout, logger)
	if dumpRawPath != "" {
		p.SetRawDump(dumpRawPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Run.Timeout)
	defer cancel()

	if _, err := p.Run(ctx); err != nil {
		var commitErr *model.LedgerCommitError
		if errors.As(err, &commitErr) {
			// Sent notifications stand but were not recorded; without a loud
			// exit they would be re-sent on every future run.
			logger.Error("ledger commit failed, notified jobs were NOT recorded", "error", err)
		} else {
			logger.Error("run aborted", "error", err)
		}
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
