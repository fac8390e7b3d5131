package processing

import (
	"context"
	"time"

	"mtg_collection_tools/internal/inventory"
	"mtg_collection_tools/internal/pricing"
	"mtg_collection_tools/internal/scryfall"

	"github.com/rs/zerolog/log"
)

// CardResolver resolves an inventory row to a card record, or nil.
type CardResolver interface {
	Resolve(ctx context.Context, name, setName string) *scryfall.Card
}

// PriceRow prices a single inventory row.
func PriceRow(ctx context.Context, resolver CardResolver, row inventory.Row, ts time.Time) pricing.Entry {
	card := resolver.Resolve(ctx, row.Name, row.SetName)
	entry := pricing.NewEntry(row, card, ts)

	if !entry.ChosenPriceEUR.Valid {
		log.Warn().
			Int("row", row.Index).
			Str("card", row.Name).
			Str("set", row.SetName).
			Msg("No price found")
	} else {
		log.Debug().
			Int("row", row.Index).
			Str("card", row.Name).
			Str("set", row.SetName).
			Bool("foil", row.Foil).
			Str("chosen_price_eur", entry.ChosenPriceEUR.Decimal.String()).
			Msg("Priced row")
	}
	return entry
}

// UpdatePrices prices rows strictly in input order and collects the entries
// into a fresh index, pausing after every priced row. Rows without a name are
// skipped without a pause. If ctx is cancelled the index built so far is
// returned together with the context error; a row interrupted mid-lookup is
// not recorded.
func UpdatePrices(ctx context.Context, rows []inventory.Row, resolver CardResolver, pacer *Pacer, ts time.Time) (*pricing.Index, error) {
	log.Debug().Int("rows", len(rows)).Msg("Updating prices")
	idx := pricing.NewIndex(ts)

	processed := 0
	interrupted := func(err error) (*pricing.Index, error) {
		log.Warn().Err(err).Int("processed", processed).Msg("Price update interrupted")
		return idx, err
	}

	for _, row := range rows {
		if row.Name == "" {
			log.Debug().Int("row", row.Index).Msg("Skipping row without a name")
			continue
		}
		if err := ctx.Err(); err != nil {
			return interrupted(err)
		}

		entry := PriceRow(ctx, resolver, row, ts)
		if err := ctx.Err(); err != nil {
			return interrupted(err)
		}
		idx.Put(entry)
		processed++

		if err := pacer.Pause(ctx); err != nil {
			return interrupted(err)
		}
	}

	log.Info().
		Int("rows", len(rows)).
		Int("processed", processed).
		Int("entries", len(idx.Prices)).
		Int("priced", idx.Priced()).
		Msg("Finished updating prices")
	return idx, nil
}
