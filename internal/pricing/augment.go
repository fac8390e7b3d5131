package pricing

import (
	"mtg_collection_tools/internal/inventory"
)

// Column names appended to the augmented inventory.
const (
	ColumnPriceEUR       = "price_eur"
	ColumnPriceEURFoil   = "price_eur_foil"
	ColumnChosenPriceEUR = "chosen_price_eur"
)

// Augment re-emits every input record with the three price columns filled in
// from idx. Columns already present in the header are overwritten in place.
func Augment(t *inventory.Table, cols inventory.Columns, idx *Index) *inventory.Table {
	header := append([]string(nil), t.Header...)
	positions := make([]int, 0, 3)
	for _, col := range []string{ColumnPriceEUR, ColumnPriceEURFoil, ColumnChosenPriceEUR} {
		pos := -1
		for i, h := range header {
			if h == col {
				pos = i
				break
			}
		}
		if pos < 0 {
			header = append(header, col)
			pos = len(header) - 1
		}
		positions = append(positions, pos)
	}

	out := &inventory.Table{Header: header, Records: make([][]string, 0, len(t.Records))}
	rows := inventory.Rows(t, cols)
	for i, rec := range t.Records {
		record := make([]string, len(header))
		copy(record, rec)

		values := []string{"", "", ""}
		if e, ok := idx.Lookup(rows[i].Key()); ok {
			values = []string{FormatPrice(e.PriceEUR), FormatPrice(e.PriceEURFoil), FormatPrice(e.ChosenPriceEUR)}
		}
		for j, pos := range positions {
			record[pos] = values[j]
		}
		out.Records = append(out.Records, record)
	}
	return out
}
