package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"prop_sheets/internal/analyzer"
	"prop_sheets/internal/app"
	"prop_sheets/internal/monitor"
	"prop_sheets/internal/props"
	"prop_sheets/internal/results"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// runMenu is the default interactive mode.
func runMenu(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	clients := app.InitializeClients(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		printMenu()

		if !scanner.Scan() {
			return scanner.Err()
		}
		choice := strings.TrimSpace(scanner.Text())

		switch choice {
		case "1":
			if err := scrapePlatform(ctx, clients, props.PlatformPrizePicks); err != nil {
				log.Error().Err(err).Msg("PrizePicks scrape failed")
			}
		case "2":
			if err := scrapePlatform(ctx, clients, props.PlatformUnderdog); err != nil {
				log.Error().Err(err).Msg("Underdog scrape failed")
			}
		case "3":
			menuResults(ctx, clients)
		case "4":
			menuMonitor(clients)
		case "5":
			menuAnalyze(ctx, clients, scanner)
		case "6", "q", "quit", "exit":
			fmt.Println("Goodbye.")
			return nil
		default:
			fmt.Printf("Unknown option %q\n", choice)
		}
	}
}

func printMenu() {
	fmt.Println()
	fmt.Println("=== Prop Sheets ===")
	fmt.Println("1. Scrape PrizePicks lines")
	fmt.Println("2. Scrape Underdog lines")
	fmt.Println("3. Fetch actual results")
	fmt.Println("4. Start game monitor")
	fmt.Println("5. Analyze results")
	fmt.Println("6. Exit")
	fmt.Print("> ")
}

func menuResults(ctx context.Context, clients *app.Clients) {
	fetcher, err := results.NewFetcher(clients.Sheets, clients.SpreadsheetID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create results fetcher")
		return
	}

	updated, err := fetcher.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Results backfill failed")
		return
	}
	fmt.Printf("Backfilled %d rows\n", updated)
}

// menuMonitor runs the monitor until Ctrl+C, then returns to the menu.
func menuMonitor(clients *app.Clients) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interval := app.GetDurationEnv("CHECK_INTERVAL", monitor.DefaultInterval)
	window := app.GetDurationEnv("TRIGGER_WINDOW", monitor.DefaultWindow)

	fmt.Printf("Monitoring every %s, triggering %s before kickoff (Ctrl+C to stop)\n", interval, window)

	if err := startMonitor(ctx, clients, interval, window); err != nil {
		log.Error().Err(err).Msg("Monitor stopped with error")
	}
}

func menuAnalyze(ctx context.Context, clients *app.Clients, scanner *bufio.Scanner) {
	fmt.Print("Worksheet name (empty for all): ")
	if !scanner.Scan() {
		return
	}
	sheetName := strings.TrimSpace(scanner.Text())
	if strings.EqualFold(sheetName, "all") {
		sheetName = ""
	}

	records, err := analyzer.LoadRecords(ctx, clients.Sheets, clients.SpreadsheetID, sheetName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load completed bets")
		return
	}

	analyzer.Analyze(records).Print(os.Stdout)
}
