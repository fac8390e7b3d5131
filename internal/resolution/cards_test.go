package resolution

import (
	"context"
	"errors"
	"testing"

	"mtg_collection_tools/internal/scryfall"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) *string { return &s }

type fakeSource struct {
	cards       []scryfall.Card
	searchErr   error
	named       *scryfall.Card
	namedErr    error
	searchCalls int
	namedCalls  int
	lastMode    scryfall.NamedMode
}

func (f *fakeSource) SearchPrints(ctx context.Context, name string) ([]scryfall.Card, error) {
	f.searchCalls++
	return f.cards, f.searchErr
}

func (f *fakeSource) NamedCard(ctx context.Context, name string, mode scryfall.NamedMode) (*scryfall.Card, error) {
	f.namedCalls++
	f.lastMode = mode
	return f.named, f.namedErr
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "limited edition alpha", Normalize("  Limited Edition ALPHA "))
	assert.Equal(t, "pokemon", Normalize("Pokémon"))
	assert.Equal(t, "lim-dul's vault", Normalize("Lim-Dûl's Vault"))
	assert.Equal(t, "ther", Normalize("Æther"))
	assert.Equal(t, "", Normalize(""))
}

func TestPickCard(t *testing.T) {
	alphaPriced := scryfall.Card{ID: "alpha", Set: "lea", SetName: "Limited Edition Alpha", Prices: scryfall.Prices{EUR: price("3.50")}}
	alphaUnpriced := scryfall.Card{ID: "alpha-np", Set: "lea", SetName: "Limited Edition Alpha"}
	m10 := scryfall.Card{ID: "m10", Set: "m10", SetName: "Magic 2010", Prices: scryfall.Prices{EUR: price("1.10"), EURFoil: price("8.20")}}
	unpriced := scryfall.Card{ID: "np", Set: "xyz", SetName: "Unpriced Set"}

	tests := []struct {
		name     string
		cards    []scryfall.Card
		setName  string
		expected string
	}{
		{"set match with price", []scryfall.Card{m10, alphaPriced}, "Limited Edition Alpha", "alpha"},
		{"set match by code", []scryfall.Card{m10, alphaPriced}, "LEA", "alpha"},
		{"set match is accent and case insensitive", []scryfall.Card{m10, {ID: "poke", SetName: "Pokémon Set", Prices: scryfall.Prices{EUR: price("1")}}}, "pokemon set", "poke"},
		{"priced printing outranks unpriced set match", []scryfall.Card{alphaUnpriced, m10}, "Limited Edition Alpha", "m10"},
		{"no set requested takes first priced", []scryfall.Card{unpriced, m10, alphaPriced}, "", "m10"},
		{"unknown set takes first priced", []scryfall.Card{unpriced, alphaPriced}, "Nowhere", "alpha"},
		{"nothing priced falls back to first", []scryfall.Card{unpriced, alphaUnpriced}, "Limited Edition Alpha", "np"},
		{"blank set name ignored", []scryfall.Card{unpriced, m10}, "   ", "m10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PickCard(tt.cards, tt.setName)
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, got.ID)
		})
	}

	assert.Nil(t, PickCard(nil, "Alpha"))
}

func TestPickCardReturnsElementOfInput(t *testing.T) {
	cards := []scryfall.Card{{ID: "a"}, {ID: "b", Prices: scryfall.Prices{EURFoil: price("2")}}}
	got := PickCard(cards, "")
	assert.Same(t, &cards[1], got)
}

func TestResolveUsesSearchResult(t *testing.T) {
	src := &fakeSource{cards: []scryfall.Card{{ID: "m10", Prices: scryfall.Prices{EUR: price("1")}}}}
	r := NewResolver(src, scryfall.NamedFuzzy)

	card := r.Resolve(context.Background(), "Lightning Bolt", "")
	require.NotNil(t, card)
	assert.Equal(t, "m10", card.ID)
	assert.Equal(t, 1, src.searchCalls)
	assert.Equal(t, 0, src.namedCalls)
}

func TestResolveFallsBackToNamed(t *testing.T) {
	tests := []struct {
		name      string
		searchErr error
	}{
		{"not found", scryfall.ErrNotFound},
		{"search failure", errors.New("connection reset")},
		{"empty result", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{searchErr: tt.searchErr, named: &scryfall.Card{ID: "named"}}
			r := NewResolver(src, scryfall.NamedExact)

			card := r.Resolve(context.Background(), "Jace", "")
			require.NotNil(t, card)
			assert.Equal(t, "named", card.ID)
			assert.Equal(t, 1, src.namedCalls)
			assert.Equal(t, scryfall.NamedExact, src.lastMode)
		})
	}
}

func TestResolveNothingFound(t *testing.T) {
	src := &fakeSource{searchErr: scryfall.ErrNotFound, namedErr: &scryfall.APIError{StatusCode: 404}}
	r := NewResolver(src, scryfall.NamedFuzzy)
	assert.Nil(t, r.Resolve(context.Background(), "Not A Card", "Alpha"))

	src = &fakeSource{searchErr: scryfall.ErrNotFound, namedErr: errors.New("timeout")}
	r = NewResolver(src, scryfall.NamedFuzzy)
	assert.Nil(t, r.Resolve(context.Background(), "Not A Card", ""))
}
