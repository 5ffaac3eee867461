package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"jobscout/internal/collector"
	"jobscout/internal/config"
	"jobscout/internal/extract"
	"jobscout/internal/ledger"
	"jobscout/internal/model"
	"jobscout/internal/notify"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobscout",
	Short: "Job radar — scan, filter, alert",
	Long:  "Jobscout scans listing sites once per invocation, filters postings against your preferences with an LLM, and alerts you to new matches.",
	// Default to `run` so a cron line can invoke the binary directly.
	RunE: runRun,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBSCOUT_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBSCOUT_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBSCOUT_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	limiter := rate.NewLimiter(rate.Every(cfg.Notification.MinDelay), 1)
	switch cfg.Notification.Type {
	case "telegram":
		logger.Info("using telegram notifier")
		return notify.NewTelegramNotifier("", cfg.Notification.BotToken, cfg.Notification.ChatID, httpClient, limiter, logger)
	case "slack":
		logger.Info("using slack notifier")
		return notify.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, limiter, logger)
	default:
		return notify.NewLogNotifier(logger)
	}
}

func setupEngine(cfg *config.Config, logger *slog.Logger) (*extract.Engine, error) {
	var provider extract.Provider
	switch cfg.LLM.Provider {
	case "openai":
		client := &http.Client{Timeout: cfg.LLM.Timeout}
		provider = extract.NewOpenAIProvider(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model, client)
	case "anthropic":
		provider = extract.NewAnthropicProvider(cfg.LLM.APIKey, cfg.LLM.Model)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLM.Provider)
	}
	logger.Info("extraction engine configured",
		"provider", cfg.LLM.Provider,
		"model", cfg.LLM.Model,
		"batch_char_budget", cfg.LLM.BatchCharBudget,
	)
	return extract.NewEngine(provider, cfg.LLM.BatchCharBudget, cfg.LLM.MaxRetries, cfg.LLM.RetryBaseDelay, logger), nil
}

func openLedgerStore(cfg *config.Config, logger *slog.Logger) (ledger.Store, error) {
	switch cfg.Ledger.Backend {
	case "sqlite":
		return ledger.NewSQLiteStore(cfg.Ledger.Path, logger)
	default:
		return ledger.NewFileStore(cfg.Ledger.Path, logger), nil
	}
}

// buildCollectors derives each source's search query the way the sites
// expect it: Internshala and Unstop take the first three keywords as one
// phrase, RemoteOK wants a single tag.
func buildCollectors(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) []model.Collector {
	keywords := cfg.Preferences.Keywords
	longQuery := strings.Join(keywords[:min(3, len(keywords))], " ")
	simpleQuery := keywords[0]

	var collectors []model.Collector
	for _, src := range cfg.Sources {
		if !src.Enabled {
			continue
		}

		query := src.Query
		var c model.Collector
		switch src.Name {
		case "internshala":
			if query == "" {
				query = longQuery
			}
			c = collector.NewInternshala(query, "", httpClient)
		case "unstop":
			if query == "" {
				query = longQuery
			}
			c = collector.NewUnstop(query, "", httpClient)
		case "remoteok":
			if query == "" {
				query = simpleQuery
			}
			c = collector.NewRemoteOK(query, "", httpClient)
		default:
			logger.Warn("unsupported source, skipping", "source", src.Name)
			continue
		}
		collectors = append(collectors, c)
		logger.Info("registered source", "source", src.Name, "query", query)
	}
	return collectors
}
