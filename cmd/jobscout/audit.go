package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"jobscout/internal/audit"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Browse the dispatched-jobs ledger (TUI)",
	Long:  "Opens a split-pane browser over the ledger: every posting that has ever been dispatched, with its fingerprint and first-seen time.",
	RunE:  runAuditCmd,
}

func init() {
	rootCmd.AddCommand(auditCmd)
}

func runAuditCmd(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The TUI owns the screen; route store warnings to discard so the
	// alt-screen is not corrupted by log lines.
	silentLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := openLedgerStore(cfg, silentLogger)
	if err != nil {
		logger.Error("failed to open ledger store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	led, err := store.Load(ctx)
	if err != nil {
		logger.Error("failed to load ledger", "error", err)
		os.Exit(1)
	}

	return audit.RunBrowser(led.Entries())
}
