package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mtg_collection_tools/internal/app"
	"mtg_collection_tools/internal/config"
	"mtg_collection_tools/internal/inventory"
	"mtg_collection_tools/internal/pricing"
	"mtg_collection_tools/internal/processing"
	"mtg_collection_tools/internal/resolution"
	"mtg_collection_tools/internal/scryfall"
	"mtg_collection_tools/internal/sheets"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	app.SetupEnvironment()

	cfg, err := config.LoadPriceConfig(args)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sheetsClient *sheets.Client
	if cfg.SheetID != "" {
		sheetsClient, err = app.InitializeSheetsClient(ctx, cfg.Credentials)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create sheets client")
			return 1
		}
	}

	table, err := loadInventory(ctx, cfg, sheetsClient)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load inventory")
		return 1
	}

	cols, err := inventory.DetectColumns(table.Header)
	if err != nil {
		fmt.Fprintf(stderr, "Inventory has no card name column: %v. Aborting.\n", err)
		return 1
	}

	client := app.InitializeScryfallClient(cfg.Scryfall)
	resolver := resolution.NewResolver(client, scryfall.NamedMode(cfg.NamedMode))
	pacer := processing.NewPacer(config.Delay(cfg.Sleep))

	rows := inventory.Rows(table, cols)
	log.Info().Int("rows", len(rows)).Str("named_mode", cfg.NamedMode).Msg("Starting price update")

	ts := time.Now().UTC()
	idx, err := processing.UpdatePrices(ctx, rows, resolver, pacer, ts)
	interrupted := err != nil
	if interrupted {
		log.Warn().Err(err).Int("entries", len(idx.Prices)).Msg("Price update interrupted; writing partial results")
		// outputs are still written after an interrupt
		ctx = context.WithoutCancel(ctx)
	}
	log.Info().Int64("api_calls", client.GetAPICallCount()).Msg("Scryfall requests made")

	if err := idx.WriteJSON(cfg.OutJSON); err != nil {
		log.Error().Err(err).Str("path", cfg.OutJSON).Msg("Failed to write price index")
		return 1
	}

	if cfg.OutCSV != "" || cfg.OutSheetRange != "" {
		augmented := pricing.Augment(table, cols, idx)

		if cfg.OutCSV != "" {
			if err := inventory.WriteCSV(cfg.OutCSV, augmented); err != nil {
				log.Error().Err(err).Str("path", cfg.OutCSV).Msg("Failed to write priced CSV")
				return 1
			}
			log.Info().Str("path", cfg.OutCSV).Msg("Wrote priced CSV")
		}

		if cfg.OutSheetRange != "" {
			if err := sheetsClient.WriteTable(ctx, cfg.SheetID, cfg.OutSheetRange, augmented); err != nil {
				log.Error().Err(err).Str("range", cfg.OutSheetRange).Msg("Failed to write priced sheet")
				return 1
			}
			log.Info().Str("range", cfg.OutSheetRange).Msg("Wrote priced sheet")
		}
	}

	if interrupted {
		return 1
	}
	fmt.Fprintf(stdout, "OK: prices updated (%d items) -> %s\n", len(idx.Prices), cfg.OutJSON)
	return 0
}

// loadInventory reads the inventory from the sheet when one is configured and
// from the CSV file otherwise.
func loadInventory(ctx context.Context, cfg *config.PriceConfig, sheetsClient *sheets.Client) (*inventory.Table, error) {
	if sheetsClient != nil {
		return sheetsClient.ReadTable(ctx, cfg.SheetID, cfg.SheetRange)
	}
	return inventory.ReadCSV(cfg.CSV)
}
