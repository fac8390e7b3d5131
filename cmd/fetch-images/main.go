package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"mtg_collection_tools/internal/app"
	"mtg_collection_tools/internal/config"
	"mtg_collection_tools/internal/inventory"
	"mtg_collection_tools/internal/processing"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	app.SetupEnvironment()

	cfg, err := config.LoadImageConfig(args)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table, err := inventory.ReadCSV(cfg.CSV)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load inventory")
		return 1
	}

	cols, err := inventory.DetectColumns(table.Header)
	if err == nil {
		err = cols.RequireScryfallID()
	}
	if err != nil {
		fmt.Fprintf(stderr, "%v. Aborting.\n", err)
		return 1
	}

	client := app.InitializeScryfallClient(cfg.Scryfall)
	fetcher := &processing.ImageFetcher{
		Source: client,
		Dir:    cfg.OutDir,
		Size:   cfg.ImageSize,
		Pacer:  processing.NewPacer(config.Delay(cfg.Sleep)),
		Out:    stdout,
	}

	stats, err := fetcher.FetchImages(ctx, inventory.Rows(table, cols))
	if err != nil {
		log.Error().Err(err).Msg("Image fetch aborted")
		return 1
	}
	log.Info().Int64("api_calls", client.GetAPICallCount()).Msg("Scryfall requests made")

	fmt.Fprintf(stdout, "Done: %d downloaded, %d skipped, %d without image, %d failed\n",
		stats.Downloaded, stats.Skipped, stats.NoImage, stats.Failed)
	return 0
}
