package processing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"mtg_collection_tools/internal/artwork"
	"mtg_collection_tools/internal/inventory"
	"mtg_collection_tools/internal/scryfall"

	"github.com/rs/zerolog/log"
)

// ImageSource is the part of the Scryfall client the image fetcher needs.
type ImageSource interface {
	GetCard(ctx context.Context, id string) (*scryfall.Card, error)
	Download(ctx context.Context, rawURL string, w io.Writer) (int64, error)
}

// FetchStats counts the outcome of every row that had a name and an id.
type FetchStats struct {
	Downloaded int
	Skipped    int
	Failed     int
	NoImage    int
}

// ImageFetcher downloads card artwork into Dir, one file per sanitized card name.
type ImageFetcher struct {
	Source ImageSource
	Dir    string
	Size   string
	Pacer  *Pacer
	Out    io.Writer // per-row status lines
}

// FetchImages walks rows in order. Files already on disk are never fetched
// again; lookup and download failures are reported and skipped.
func (f *ImageFetcher) FetchImages(ctx context.Context, rows []inventory.Row) (FetchStats, error) {
	var stats FetchStats
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return stats, fmt.Errorf("failed to create %s: %w", f.Dir, err)
	}

	for _, row := range rows {
		if row.Name == "" || row.ScryfallID == "" {
			continue
		}

		name := artwork.SanitizeFileName(row.Name)
		target := artwork.ImagePath(f.Dir, row.Name)

		if _, err := os.Stat(target); err == nil {
			fmt.Fprintf(f.Out, "Skipping %s (already exists)\n", name)
			stats.Skipped++
			continue
		}

		if err := ctx.Err(); err != nil {
			return stats, err
		}

		err := f.fetchOne(ctx, row, target)
		switch {
		case err == nil:
			fmt.Fprintf(f.Out, "Downloaded %s\n", name)
			stats.Downloaded++
		case errors.Is(err, scryfall.ErrNoImage):
			fmt.Fprintf(f.Out, "No image for %s\n", name)
			log.Warn().Int("row", row.Index).Str("card", row.Name).Str("scryfall_id", row.ScryfallID).Msg("Card has no image")
			stats.NoImage++
		default:
			fmt.Fprintf(f.Out, "Error fetching %s: %v\n", name, err)
			log.Warn().Err(err).Int("row", row.Index).Str("card", row.Name).Str("scryfall_id", row.ScryfallID).Msg("Failed to fetch card image")
			stats.Failed++
		}

		if err := f.Pacer.Pause(ctx); err != nil {
			return stats, err
		}
	}

	log.Info().
		Int("downloaded", stats.Downloaded).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Int("no_image", stats.NoImage).
		Msg("Finished fetching images")
	return stats, nil
}

func (f *ImageFetcher) fetchOne(ctx context.Context, row inventory.Row, target string) error {
	card, err := f.Source.GetCard(ctx, row.ScryfallID)
	if err != nil {
		return fmt.Errorf("card lookup: %w", err)
	}

	imageURL, err := card.ImageURL(f.Size)
	if err != nil {
		return err
	}
	log.Debug().Str("card", row.Name).Str("url", imageURL).Msg("Downloading image")

	// Nothing may appear at target until the download is complete.
	tmp, err := os.CreateTemp(f.Dir, ".download-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set image permissions: %w", err)
	}
	if _, err := f.Source.Download(ctx, imageURL, tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("image download: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to store image: %w", err)
	}
	return nil
}
