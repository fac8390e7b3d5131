package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices are written as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ParsePrice reads a Scryfall price string. Missing, empty or malformed
// values are null rather than errors.
func ParsePrice(s *string) decimal.NullDecimal {
	if s == nil {
		return decimal.NullDecimal{}
	}
	text := strings.TrimSpace(*s)
	if text == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// ChoosePrice picks the price that applies to a row: the foil price for foil
// rows when there is one, otherwise the non-foil price, otherwise whatever
// foil price exists.
func ChoosePrice(foil bool, nonFoil, foilPrice decimal.NullDecimal) decimal.NullDecimal {
	switch {
	case foil && foilPrice.Valid:
		return foilPrice
	case nonFoil.Valid:
		return nonFoil
	case foilPrice.Valid:
		return foilPrice
	}
	return decimal.NullDecimal{}
}

// FormatPrice renders a price for CSV output; null becomes an empty cell.
func FormatPrice(p decimal.NullDecimal) string {
	if !p.Valid {
		return ""
	}
	return p.Decimal.String()
}
