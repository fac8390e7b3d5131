package resolution

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"mtg_collection_tools/internal/scryfall"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CardSource is the part of the Scryfall client the resolver needs.
type CardSource interface {
	SearchPrints(ctx context.Context, name string) ([]scryfall.Card, error)
	NamedCard(ctx context.Context, name string, mode scryfall.NamedMode) (*scryfall.Card, error)
}

// Normalize makes set names comparable regardless of accents, case and
// surrounding space. Characters without an ASCII decomposition are dropped.
func Normalize(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// PickCard chooses the printing that best matches setName:
//  1. the first printing of the requested set (by name or code) that has a price,
//  2. otherwise the first printing with any price,
//  3. otherwise the first result.
//
// It returns nil for an empty result list.
func PickCard(cards []scryfall.Card, setName string) *scryfall.Card {
	if len(cards) == 0 {
		return nil
	}

	if target := Normalize(setName); target != "" {
		for i := range cards {
			c := &cards[i]
			if (Normalize(c.SetName) == target || Normalize(c.Set) == target) && c.HasPrice() {
				return c
			}
		}
	}

	for i := range cards {
		if cards[i].HasPrice() {
			return &cards[i]
		}
	}

	return &cards[0]
}

// Resolver finds the card record for an inventory row.
type Resolver struct {
	source    CardSource
	namedMode scryfall.NamedMode
}

func NewResolver(source CardSource, namedMode scryfall.NamedMode) *Resolver {
	return &Resolver{source: source, namedMode: namedMode}
}

// Resolve searches all printings of name and picks one; when the search yields
// nothing usable it falls back to a single-card lookup. Lookup failures are
// logged and reported as a nil card, never as an error.
func (r *Resolver) Resolve(ctx context.Context, name, setName string) *scryfall.Card {
	cards, err := r.source.SearchPrints(ctx, name)
	switch {
	case errors.Is(err, scryfall.ErrNotFound):
		log.Debug().Str("card", name).Msg("Search found no printings")
	case err != nil:
		log.Warn().Err(err).Str("card", name).Msg("Scryfall search failed")
	}

	if card := PickCard(cards, setName); card != nil {
		log.Debug().
			Str("card", name).
			Str("set", card.SetName).
			Str("scryfall_id", card.ID).
			Bool("has_price", card.HasPrice()).
			Msg("Picked printing from search")
		return card
	}

	card, err := r.source.NamedCard(ctx, name, r.namedMode)
	if err != nil {
		if errors.Is(err, scryfall.ErrNotFound) {
			log.Debug().Str("card", name).Msg("Named lookup found nothing")
		} else {
			log.Warn().Err(err).Str("card", name).Msg("Scryfall named lookup failed")
		}
		return nil
	}

	log.Debug().
		Str("card", name).
		Str("scryfall_id", card.ID).
		Str("mode", string(r.namedMode)).
		Msg("Resolved card through named lookup")
	return card
}
