// Package notifications pushes scrape and game alerts to an ntfy topic.
package notifications

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	topic      string
	enabled    bool
	priority   string
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	// Circuit breaker state
	failures    int
	lastFailure time.Time
	circuitOpen bool
	mutex       sync.Mutex
	// Metrics
	totalSent    int64
	totalFailed  int64
	totalRetries int64
}

type NotificationError struct {
	Type       string
	StatusCode int
	Attempt    int
	Underlying error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification failed [%s] attempt %d: %v", e.Type, e.Attempt, e.Underlying)
}

func (e *NotificationError) IsRetryable() bool {
	switch e.Type {
	case "network", "server", "timeout", "rate_limit":
		return true
	case "auth", "client":
		return false
	default:
		return e.StatusCode >= 500
	}
}

func NewClient(baseURL, topic string, enabled bool, priority string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:    baseURL,
		topic:      topic,
		enabled:    enabled,
		priority:   priority,
		maxRetries: 3,
		baseDelay:  time.Second,
		maxDelay:   30 * time.Second,
	}
}

// NotifyScrapeComplete announces a finished scrape pass. The send is
// synchronous: scrapes also run as one-shot commands, and an async push
// would still be in flight when the process exits.
func (c *Client) NotifyScrapeComplete(ctx context.Context, platform string, players, sheets int) {
	if !c.enabled || players == 0 {
		return
	}

	message := fmt.Sprintf("📊 %s scrape complete\n%d player lines across %d worksheets", platform, players, sheets)
	if err := c.SendNotification(ctx, message); err != nil {
		log.Warn().Err(err).Msg("Scrape notification failed")
	}
}

// NotifyGameTrigger announces that a game entered the re-scrape window.
func (c *Client) NotifyGameTrigger(ctx context.Context, team, opponent, timeStr string, players int) {
	if !c.enabled {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏈 %s vs %s starting soon\n", team, opponent))
	sb.WriteString(fmt.Sprintf("Kickoff: %s\n", timeStr))
	sb.WriteString(fmt.Sprintf("Refreshing lines for %d players", players))

	c.SendNotificationAsync(ctx, sb.String())
}

func (c *Client) SendNotificationAsync(ctx context.Context, message string) {
	go func() {
		if err := c.SendNotification(ctx, message); err != nil {
			log.Warn().Err(err).Msg("Async notification failed")
		}
	}()
}

func (c *Client) SendNotification(ctx context.Context, message string) error {
	if !c.enabled {
		log.Debug().Msg("Notifications disabled, skipping")
		return nil
	}

	if c.isCircuitOpen() {
		log.Warn().Msg("Circuit breaker open, skipping notification")
		return &NotificationError{
			Type:       "circuit_open",
			Underlying: fmt.Errorf("circuit breaker is open"),
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.calculateBackoff(attempt)
			log.Debug().
				Int("attempt", attempt).
				Dur("delay", delay).
				Msg("Retrying notification after delay")

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			c.incrementRetries()
		}

		err := c.sendSingleNotification(ctx, message, attempt+1)
		if err == nil {
			c.recordSuccess()
			return nil
		}

		lastErr = err

		if notifErr, ok := err.(*NotificationError); ok {
			if !notifErr.IsRetryable() {
				log.Warn().
					Err(err).
					Int("attempt", attempt+1).
					Msg("Non-retryable error, giving up")
				c.recordFailure()
				return err
			}
		}

		log.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Int("max_retries", c.maxRetries).
			Msg("Notification attempt failed")
	}

	c.recordFailure()
	return &NotificationError{
		Type:       "max_retries_exceeded",
		Attempt:    c.maxRetries + 1,
		Underlying: lastErr,
	}
}

func (c *Client) sendSingleNotification(ctx context.Context, message string, attempt int) error {
	url := fmt.Sprintf("%s/%s", c.baseURL, c.topic)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBufferString(message))
	if err != nil {
		return &NotificationError{
			Type:       "client",
			Attempt:    attempt,
			Underlying: err,
		}
	}

	req.Header.Set("Content-Type", "text/plain")
	if c.priority != "" {
		req.Header.Set("Priority", c.priority)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NotificationError{
			Type:       "network",
			Attempt:    attempt,
			Underlying: err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &NotificationError{
			Type:       categorizeHTTPError(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Attempt:    attempt,
			Underlying: fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status),
		}
	}

	log.Debug().
		Int("status_code", resp.StatusCode).
		Int("attempt", attempt).
		Msg("Notification sent successfully")

	return nil
}

// Circuit breaker and retry helper methods

func (c *Client) isCircuitOpen() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.circuitOpen {
		return false
	}

	// Half-open after a cooldown so a recovered ntfy gets traffic again.
	if time.Since(c.lastFailure) > 30*time.Second {
		c.circuitOpen = false
		c.failures = 0
		log.Info().Msg("Circuit breaker moving to half-open state")
		return false
	}

	return true
}

func (c *Client) recordSuccess() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.totalSent++
	if c.circuitOpen {
		c.circuitOpen = false
		c.failures = 0
		log.Info().Msg("Circuit breaker closed after successful notification")
	}
}

func (c *Client) recordFailure() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.totalFailed++
	c.failures++
	c.lastFailure = time.Now()

	// Open circuit breaker after 5 consecutive failures
	if c.failures >= 5 && !c.circuitOpen {
		c.circuitOpen = true
		log.Warn().
			Int("failures", c.failures).
			Msg("Circuit breaker opened due to consecutive failures")
	}
}

func (c *Client) incrementRetries() {
	c.mutex.Lock()
	c.totalRetries++
	c.mutex.Unlock()
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	base := float64(c.baseDelay)
	backoff := base * math.Pow(2, float64(attempt-1))

	// ±25% jitter
	jitter := rand.Float64()*0.5 - 0.25
	backoff = backoff * (1 + jitter)

	maxBackoff := float64(c.maxDelay)
	if backoff > maxBackoff {
		backoff = maxBackoff
	}

	return time.Duration(backoff)
}

func categorizeHTTPError(statusCode int) string {
	switch {
	case statusCode == 401 || statusCode == 403:
		return "auth"
	case statusCode == 429:
		return "rate_limit"
	case statusCode >= 400 && statusCode < 500:
		return "client"
	case statusCode >= 500:
		return "server"
	default:
		return "unknown"
	}
}

// GetMetrics returns current notification metrics
func (c *Client) GetMetrics() (sent, failed, retries int64) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.totalSent, c.totalFailed, c.totalRetries
}
