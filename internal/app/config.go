// Package app wires environment configuration into the service clients the
// commands share.
package app

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"prop_sheets/internal/notifications"
	"prop_sheets/internal/prizepicks"
	"prop_sheets/internal/sheets"
	"prop_sheets/internal/underdog"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupEnvironment loads .env and configures zerolog output and log level.
func SetupEnvironment() {
	// Load .env file if it exists
	err := godotenv.Load()

	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	switch levelStr {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case "":
		// Default based on environment
		if os.Getenv("ENV") == "production" {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
	}

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}

// GetRequiredEnv fetches a required environment variable or exits if not set.
func GetRequiredEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatal().Msgf("%s environment variable is required", key)
	}
	return value
}

// GetEnvWithDefault fetches an environment variable with a default fallback.
func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetDurationEnv parses a duration environment variable, falling back on
// missing or malformed values.
func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("Unparseable duration, using default")
		return defaultValue
	}
	return d
}

// Clients holds everything the commands need to talk to the outside world.
type Clients struct {
	Sheets        *sheets.Client
	PrizePicks    *prizepicks.Client
	Underdog      *underdog.Client
	Notifier      *notifications.Client
	SpreadsheetID string
}

// InitializeClients builds all service clients from the environment. Exits
// when required configuration is missing.
func InitializeClients(ctx context.Context) *Clients {
	spreadsheetID := GetRequiredEnv("SPREADSHEET_ID")
	credentialsFile := GetEnvWithDefault("GOOGLE_CREDENTIALS", "credentials.json")

	sheetsClient, err := sheets.NewClient(ctx, credentialsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create sheets client")
	}

	ntfyEnabled, _ := strconv.ParseBool(GetEnvWithDefault("NTFY_ENABLED", "false"))
	notifier := notifications.NewClient(
		GetEnvWithDefault("NTFY_URL", "https://ntfy.sh"),
		GetEnvWithDefault("NTFY_TOPIC", "prop-sheets"),
		ntfyEnabled,
		GetEnvWithDefault("NTFY_PRIORITY", "default"),
	)

	return &Clients{
		Sheets:        sheetsClient,
		PrizePicks:    prizepicks.NewClient(os.Getenv("PRIZEPICKS_LEAGUE_ID")),
		Underdog:      underdog.NewClient(os.Getenv("UNDERDOG_SPORT")),
		Notifier:      notifier,
		SpreadsheetID: spreadsheetID,
	}
}
