package config

import (
	"time"

	"prop_sheets/internal/retry"
)

type ResilienceConfig struct {
	ScrapePass retry.Config
	APIRequest retry.Config
	SheetCall  retry.Config
}

var DefaultResilienceConfig = ResilienceConfig{
	ScrapePass: retry.Config{
		MaxRetries: 3,
		BaseDelay:  5 * time.Second,
		MaxDelay:   60 * time.Second,
		Timeout:    60 * time.Second,
	},
	APIRequest: retry.Config{
		MaxRetries: 5,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
		Timeout:    15 * time.Second,
	},
	// Sheets quota errors clear on their own once the per-minute window
	// rolls over, so the delays here are longer than for the scrape APIs.
	SheetCall: retry.Config{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		MaxDelay:   45 * time.Second,
		Timeout:    20 * time.Second,
	},
}

// InfiniteResilienceConfig is used by the monitor loop, which should outlive
// transient API outages rather than exit overnight.
var InfiniteResilienceConfig = ResilienceConfig{
	ScrapePass: retry.Config{
		BaseDelay:     5 * time.Second,
		MaxDelay:      60 * time.Second,
		Timeout:       60 * time.Second,
		InfiniteRetry: true,
	},
	APIRequest: retry.Config{
		BaseDelay:     1 * time.Second,
		MaxDelay:      30 * time.Second,
		Timeout:       15 * time.Second,
		InfiniteRetry: true,
	},
	SheetCall: retry.Config{
		BaseDelay:     2 * time.Second,
		MaxDelay:      45 * time.Second,
		Timeout:       20 * time.Second,
		InfiniteRetry: true,
	},
}
