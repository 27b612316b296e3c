// Package httpclient wraps net/http with proxy support, rate limiting and retries.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Client is a rate-limited HTTP client with retries for transient failures.
type Client struct {
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	MaxRetries int
	UserAgent  string
	logger     zerolog.Logger
}

// Options holds options for creating a new Client.
type Options struct {
	Timeout         time.Duration
	RequestsPerSec  int
	MaxRetries      int
	MaxRetryTimeout time.Duration
	ProxyURL        string
	UserAgent       string
}

// New creates a Client, applying defaults for unset options.
func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSec == 0 {
		opts.RequestsPerSec = 5
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if opts.ProxyURL != "" {
		if u, err := url.Parse(opts.ProxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		} else {
			log.Warn().Err(err).Str("proxy", opts.ProxyURL).Msg("ignoring invalid proxy url")
		}
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		Limiter:    rate.NewLimiter(rate.Every(time.Second), opts.RequestsPerSec),
		MaxRetries: opts.MaxRetries,
		UserAgent:  opts.UserAgent,
		logger:     log.With().Str("component", "http_client").Logger(),
	}
}

// StatusError is returned for a non-200 response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d, body: %s", e.StatusCode, e.Body)
}

// Temporary reports whether retrying the request may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Get fetches rawURL and returns the body of a 200 response.
// Network errors, 429 and 5xx are retried with exponential backoff;
// any other status fails immediately.
func (c *Client) Get(ctx context.Context, rawURL string, header http.Header) ([]byte, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var body []byte
	attempt := 0
	operation := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		if c.UserAgent != "" {
			req.Header.Set("User-Agent", c.UserAgent)
		}
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			se := &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(b), 512)}
			if se.Temporary() {
				return se
			}
			return backoff.Permanent(se)
		}
		body = b
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 30 * time.Second
	notify := func(err error, wait time.Duration) {
		c.logger.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", wait).Msg("request failed, retrying")
	}
	if err := backoff.RetryNotify(operation, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.MaxRetries)), ctx), notify); err != nil {
		return nil, err
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
