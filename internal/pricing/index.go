package pricing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mtg_collection_tools/internal/inventory"
	"mtg_collection_tools/internal/scryfall"

	"github.com/shopspring/decimal"
)

// Entry is the price record stored per (name, set name).
type Entry struct {
	Name           string              `json:"name"`
	SetName        *string             `json:"set_name"`
	Foil           bool                `json:"foil"`
	PriceEUR       decimal.NullDecimal `json:"price_eur"`
	PriceEURFoil   decimal.NullDecimal `json:"price_eur_foil"`
	ChosenPriceEUR decimal.NullDecimal `json:"chosen_price_eur"`
	ScryfallID     *string             `json:"scryfall_id"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// Key is the index key of the entry.
func (e Entry) Key() string {
	set := ""
	if e.SetName != nil {
		set = *e.SetName
	}
	return inventory.Key(e.Name, set)
}

// NewEntry builds the entry for row from the resolved card, which may be nil.
func NewEntry(row inventory.Row, card *scryfall.Card, ts time.Time) Entry {
	e := Entry{
		Name:      row.Name,
		Foil:      row.Foil,
		UpdatedAt: ts,
	}
	if row.SetName != "" {
		set := row.SetName
		e.SetName = &set
	}
	if card != nil {
		e.PriceEUR = ParsePrice(card.Prices.EUR)
		e.PriceEURFoil = ParsePrice(card.Prices.EURFoil)
		if card.ID != "" {
			id := card.ID
			e.ScryfallID = &id
		}
	}
	e.ChosenPriceEUR = ChoosePrice(row.Foil, e.PriceEUR, e.PriceEURFoil)
	return e
}

// Index maps "<name>|<set>" to the latest entry seen for that key.
type Index struct {
	UpdatedAt time.Time        `json:"updated_at"`
	Prices    map[string]Entry `json:"prices"`
}

func NewIndex(ts time.Time) *Index {
	return &Index{UpdatedAt: ts, Prices: make(map[string]Entry)}
}

// Put stores e, replacing any earlier entry with the same key.
func (idx *Index) Put(e Entry) {
	idx.Prices[e.Key()] = e
}

// Lookup returns the entry for key.
func (idx *Index) Lookup(key string) (Entry, bool) {
	e, ok := idx.Prices[key]
	return e, ok
}

// Priced counts the entries that ended up with a chosen price.
func (idx *Index) Priced() int {
	n := 0
	for _, e := range idx.Prices {
		if e.ChosenPriceEUR.Valid {
			n++
		}
	}
	return n
}

// WriteJSON writes the index to path, creating parent directories.
func (idx *Index) WriteJSON(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(idx); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode price index: %w", err)
	}
	return f.Close()
}
