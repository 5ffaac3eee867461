package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"jobscout/internal/model"
)

const telegramAPIBaseURL = "https://api.telegram.org"

// Ensure TelegramNotifier implements model.Notifier.
var _ model.Notifier = (*TelegramNotifier)(nil)

// TelegramNotifier delivers one message per job through the Telegram bot API.
type TelegramNotifier struct {
	baseURL    string
	botToken   string
	chatID     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewTelegramNotifier creates a notifier for the given bot and chat. baseURL
// overrides the live API in tests; pass "" for the default. The limiter
// paces consecutive sends (Telegram throttles bots aggressively).
func NewTelegramNotifier(baseURL, botToken, chatID string, httpClient *http.Client, limiter *rate.Limiter, logger *slog.Logger) *TelegramNotifier {
	if baseURL == "" {
		baseURL = telegramAPIBaseURL
	}
	return &TelegramNotifier{
		baseURL:    baseURL,
		botToken:   botToken,
		chatID:     chatID,
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger,
	}
}

// Send posts one sendMessage call for the job.
func (n *TelegramNotifier) Send(ctx context.Context, job model.StructuredJob) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram rate wait: %w", err)
	}

	form := url.Values{
		"chat_id":                  {n.chatID},
		"text":                     {formatMessage(job)},
		"disable_web_page_preview": {"true"},
	}

	apiURL := n.baseURL + "/bot" + n.botToken + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post to telegram: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		httpErr := &model.HTTPError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("telegram: %s", strings.TrimSpace(string(body))),
		}
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			httpErr.RetryAfter = time.Duration(secs) * time.Second
		}
		return httpErr
	}

	n.logger.Info("telegram message sent", "company", job.Company, "title", job.Title)
	return nil
}

func formatMessage(job model.StructuredJob) string {
	var b strings.Builder
	b.WriteString("🚀 New opportunity!\n\n")
	fmt.Fprintf(&b, "Title: %s\nCompany: %s\n", job.Title, job.Company)
	if job.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", job.Location)
	}
	if len(job.MatchedKeywords) > 0 {
		fmt.Fprintf(&b, "Matched: %s\n", strings.Join(job.MatchedKeywords, ", "))
	}
	if job.Level != "" && job.Level != "unknown" {
		fmt.Fprintf(&b, "Level: %s\n", job.Level)
	}
	fmt.Fprintf(&b, "\nApply here: %s", job.URL)
	return b.String()
}
