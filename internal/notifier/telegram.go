package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	APIBase  string
	BotToken string
	ChatID   string
	Client   *http.Client
	logger   zerolog.Logger
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string) *TelegramNotifier {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		APIBase:  telegramAPIBase,
		BotToken: botToken,
		ChatID:   chatID,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		logger: log.With().Str("component", "telegram").Logger(),
	}
}

// Configured reports whether both the bot token and chat id are set.
func (t *TelegramNotifier) Configured() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// Send sends a plain-text report to the configured chat as preformatted HTML.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	apiURL := fmt.Sprintf("%s/bot%s/sendMessage", t.APIBase, t.BotToken)
	payload := map[string]string{
		"chat_id":    t.ChatID,
		"text":       "<pre>" + html.EscapeString(text) + "</pre>",
		"parse_mode": "HTML",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return backoff.Permanent(err)
		}
		return err
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	attempt := 0
	op := func() error {
		attempt++
		return t.Send(ctx, text)
	}
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Second
	notify := func(err error, wait time.Duration) {
		t.logger.Warn().Err(err).Int("attempt", attempt).Int("max", maxRetries+1).Dur("retry_in", wait).
			Msg("telegram send failed, retrying")
	}
	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(maxRetries)), ctx)
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return fmt.Errorf("telegram send failed after %d attempts: %w", attempt, err)
	}
	return nil
}
