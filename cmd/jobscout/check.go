package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"jobscout/internal/ledger"
	"jobscout/internal/notify"
	"jobscout/internal/pipeline"
)

var checkDumpRawPath string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run once, print matches, persist nothing",
	Long:  "One-shot pass with an in-memory ledger and the log notifier: collects, extracts, and prints matched jobs without sending alerts or writing the ledger.",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkDumpRawPath, "dump-raw", "", "write collected raw listings to this JSON file for review")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("check mode: nothing will be sent or persisted")

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

	p := pipeline.New(cfg.Preferences, collectors, engine, ledger.NewNopStore(),
		notify.NewLogNotifier(logger), cfg.Run.CollectorTimeout, logger)
	if checkDumpRawPath != "" {
		p.SetRawDump(checkDumpRawPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Run.Timeout)
	defer cancel()

	if _, err := p.Run(ctx); err != nil {
		logger.Error("check failed", "error", err)
		os.Exit(1)
	}

	logger.Info("check complete")
	return nil
}
