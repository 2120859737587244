// Package cli defines the propsheets command tree. Running with no
// subcommand opens the interactive menu.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"prop_sheets/internal/analyzer"
	"prop_sheets/internal/app"
	"prop_sheets/internal/config"
	"prop_sheets/internal/monitor"
	"prop_sheets/internal/props"
	"prop_sheets/internal/results"
	"prop_sheets/internal/retry"
	"prop_sheets/internal/sheetops"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	flagPlatform string
	flagInterval string
	flagWindow   string
	flagSheet    string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "propsheets",
		Short: "Scrape player prop lines into Google Sheets and track results",
		Long: `Scrapes PrizePicks and Underdog Fantasy player projections into per-stat
Google Sheets worksheets, re-scrapes lines shortly before kickoff, backfills
actual results from box scores, and reports over/under accuracy.`,
		RunE: runMenu,
	}

	scrapeCmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape current projections into the spreadsheet",
		RunE:  runScrape,
	}
	scrapeCmd.Flags().StringVar(&flagPlatform, "platform", "prizepicks", "Platform: prizepicks or underdog")

	resultsCmd := &cobra.Command{
		Use:   "results",
		Short: "Backfill actual results for completed games",
		RunE:  runResults,
	}

	monitorCmd := &cobra.Command{
		Use:   "monitor",
		Short: "Watch game times and re-scrape lines before kickoff",
		RunE:  runMonitor,
	}
	monitorCmd.Flags().StringVar(&flagInterval, "interval", "", "Check interval (e.g. 120s)")
	monitorCmd.Flags().StringVar(&flagWindow, "window", "", "Trigger window before kickoff (e.g. 60m)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Report over/under accuracy from completed rows",
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().StringVar(&flagSheet, "sheet", "", "Analyze a single worksheet (default: all)")

	cmd.AddCommand(scrapeCmd, resultsCmd, monitorCmd, analyzeCmd)
	return cmd
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runScrape(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	clients := app.InitializeClients(ctx)

	switch strings.ToLower(flagPlatform) {
	case "prizepicks":
		return scrapePlatform(ctx, clients, props.PlatformPrizePicks)
	case "underdog":
		return scrapePlatform(ctx, clients, props.PlatformUnderdog)
	default:
		return fmt.Errorf("unknown platform %q (want prizepicks or underdog)", flagPlatform)
	}
}

// board is the surface the two platform clients share.
type board interface {
	FetchProjections(ctx context.Context) ([]props.Projection, error)
	ResetAPICallCount()
	GetAPICallCount() int64
}

// scrapePlatform fetches a platform's board and rewrites its worksheets.
func scrapePlatform(ctx context.Context, clients *app.Clients, platform props.Platform) error {
	var client board = clients.PrizePicks
	if platform == props.PlatformUnderdog {
		client = clients.Underdog
	}
	client.ResetAPICallCount()

	projections, err := retry.WithRetry(ctx, config.DefaultResilienceConfig.APIRequest, func(ctx context.Context) ([]props.Projection, error) {
		return client.FetchProjections(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to fetch %s projections: %w", platform, err)
	}
	if len(projections) == 0 {
		log.Warn().Str("platform", string(platform)).Msg("No projections on the board")
		return nil
	}

	sheetsTouched, err := sheetops.UploadProjections(ctx, clients.Sheets, clients.SpreadsheetID, projections)
	if err != nil {
		return fmt.Errorf("failed to upload %s projections: %w", platform, err)
	}

	log.Info().
		Str("platform", string(platform)).
		Int("projections", len(projections)).
		Int("worksheets", sheetsTouched).
		Int64("api_calls", client.GetAPICallCount()).
		Msg("Scrape complete")

	clients.Notifier.NotifyScrapeComplete(ctx, string(platform), len(projections), sheetsTouched)
	return nil
}

func runResults(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	clients := app.InitializeClients(ctx)

	fetcher, err := results.NewFetcher(clients.Sheets, clients.SpreadsheetID)
	if err != nil {
		return fmt.Errorf("failed to create results fetcher: %w", err)
	}

	updated, err := fetcher.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Backfilled %d rows\n", updated)
	return nil
}

func runMonitor(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clients := app.InitializeClients(ctx)

	interval := app.GetDurationEnv("CHECK_INTERVAL", monitor.DefaultInterval)
	window := app.GetDurationEnv("TRIGGER_WINDOW", monitor.DefaultWindow)
	if flagInterval != "" {
		parsed, err := time.ParseDuration(flagInterval)
		if err != nil {
			return fmt.Errorf("invalid --interval: %w", err)
		}
		interval = parsed
	}
	if flagWindow != "" {
		parsed, err := time.ParseDuration(flagWindow)
		if err != nil {
			return fmt.Errorf("invalid --window: %w", err)
		}
		window = parsed
	}

	return startMonitor(ctx, clients, interval, window)
}

// startMonitor runs the game monitor until the context is canceled. Each
// trigger re-scrapes both platforms so fresh lines land before kickoff.
func startMonitor(ctx context.Context, clients *app.Clients, interval, window time.Duration) error {
	onTrigger := func(ctx context.Context, game monitor.Game) error {
		log.Info().Str("game", game.Key()).Msg("Re-scraping lines for upcoming game")

		if err := scrapePlatform(ctx, clients, props.PlatformPrizePicks); err != nil {
			log.Error().Err(err).Msg("PrizePicks re-scrape failed")
		}
		if err := scrapePlatform(ctx, clients, props.PlatformUnderdog); err != nil {
			log.Error().Err(err).Msg("Underdog re-scrape failed")
		}
		return nil
	}

	// The monitor outlives transient outages; reads retry until the context
	// is canceled.
	m := monitor.New(clients.Sheets, clients.SpreadsheetID, clients.Notifier, onTrigger, interval, window, config.InfiniteResilienceConfig.ScrapePass)
	return m.Run(ctx)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	clients := app.InitializeClients(ctx)

	sheetName := flagSheet
	if strings.EqualFold(sheetName, "all") {
		sheetName = ""
	}

	records, err := analyzer.LoadRecords(ctx, clients.Sheets, clients.SpreadsheetID, sheetName)
	if err != nil {
		return err
	}

	analyzer.Analyze(records).Print(os.Stdout)
	return nil
}
