package inventory

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrMissingColumn is returned when a required column cannot be detected.
var ErrMissingColumn = errors.New("required column not found")

// Accepted header spellings per logical column, in priority order.
var (
	NameCandidates       = []string{"Name", "Card Name", "card_name", "CardName"}
	SetNameCandidates    = []string{"Set name", "Set", "set_name", "Edition", "Set code"}
	QuantityCandidates   = []string{"Quantity", "Qty", "Count"}
	FoilCandidates       = []string{"Foil", "Is foil", "is_foil"}
	ScryfallIDCandidates = []string{"Scryfall ID", "scryfall_id", "ScryfallID"}
)

// Table is a spreadsheet held in memory: one header row plus records.
type Table struct {
	Header  []string
	Records [][]string
}

// Columns holds the detected header for each logical field; empty means absent.
type Columns struct {
	Name       string
	SetName    string
	Quantity   string
	Foil       string
	ScryfallID string
}

// Row is one inventory entry.
type Row struct {
	Index      int // 1-based position among the records
	Name       string
	SetName    string
	Quantity   string
	Foil       bool
	ScryfallID string
}

// Key is the price index key: "<name>|<set>", or just the name without a set.
func (r Row) Key() string {
	return Key(r.Name, r.SetName)
}

// Key builds a price index key from a name and an optional set name.
func Key(name, setName string) string {
	name = strings.TrimSpace(name)
	setName = strings.TrimSpace(setName)
	if setName == "" {
		return name
	}
	return name + "|" + setName
}

// ReadCSV loads a CSV file into a Table.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	table, err := DecodeCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	log.Debug().
		Str("path", path).
		Int("columns", len(table.Header)).
		Int("rows", len(table.Records)).
		Msg("Loaded inventory CSV")
	return table, nil
}

// DecodeCSV parses CSV text. A UTF-8 byte order mark is dropped and ragged
// rows are accepted.
func DecodeCSV(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		br.Discard(3)
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	all, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	table := &Table{}
	if len(all) == 0 {
		return table, nil
	}
	table.Header = all[0]
	table.Records = all[1:]
	return table, nil
}

// FindField returns the first header matching any candidate case-insensitively.
// Candidates are tried in order, so earlier spellings win.
func FindField(headers []string, candidates ...string) (string, bool) {
	byLower := make(map[string]string, len(headers))
	for _, h := range headers {
		key := strings.ToLower(h)
		if _, seen := byLower[key]; !seen {
			byLower[key] = h
		}
	}
	for _, c := range candidates {
		if h, ok := byLower[strings.ToLower(c)]; ok {
			return h, true
		}
	}
	return "", false
}

// DetectColumns binds the logical columns. Only the name column is required.
func DetectColumns(headers []string) (Columns, error) {
	var cols Columns
	var ok bool

	if cols.Name, ok = FindField(headers, NameCandidates...); !ok {
		return cols, fmt.Errorf("%w: no name column (tried %s)", ErrMissingColumn, strings.Join(NameCandidates, ", "))
	}
	cols.SetName, _ = FindField(headers, SetNameCandidates...)
	cols.Quantity, _ = FindField(headers, QuantityCandidates...)
	cols.Foil, _ = FindField(headers, FoilCandidates...)
	cols.ScryfallID, _ = FindField(headers, ScryfallIDCandidates...)

	log.Debug().
		Str("name", cols.Name).
		Str("set_name", cols.SetName).
		Str("quantity", cols.Quantity).
		Str("foil", cols.Foil).
		Str("scryfall_id", cols.ScryfallID).
		Msg("Detected inventory columns")
	return cols, nil
}

// RequireScryfallID fails when the id column needed by the image fetcher is absent.
func (c Columns) RequireScryfallID() error {
	if c.ScryfallID == "" {
		return fmt.Errorf("%w: no Scryfall id column (tried %s)", ErrMissingColumn, strings.Join(ScryfallIDCandidates, ", "))
	}
	return nil
}

// Index returns the position of header in the table, or -1.
func (t *Table) Index(header string) int {
	if header == "" {
		return -1
	}
	for i, h := range t.Header {
		if h == header {
			return i
		}
	}
	return -1
}

// Rows converts every record into a Row using the detected columns.
func Rows(t *Table, cols Columns) []Row {
	nameIdx := t.Index(cols.Name)
	setIdx := t.Index(cols.SetName)
	qtyIdx := t.Index(cols.Quantity)
	foilIdx := t.Index(cols.Foil)
	idIdx := t.Index(cols.ScryfallID)

	rows := make([]Row, 0, len(t.Records))
	for i, rec := range t.Records {
		rows = append(rows, Row{
			Index:      i + 1,
			Name:       strings.TrimSpace(field(rec, nameIdx)),
			SetName:    strings.TrimSpace(field(rec, setIdx)),
			Quantity:   strings.TrimSpace(field(rec, qtyIdx)),
			Foil:       ParseBool(field(rec, foilIdx)),
			ScryfallID: strings.TrimSpace(field(rec, idIdx)),
		})
	}
	return rows
}

// field safely extracts a cell; short records read as empty.
func field(rec []string, index int) string {
	if index >= 0 && index < len(rec) {
		return rec[index]
	}
	return ""
}

// ParseBool reads spreadsheet foil flags such as "yes", "1", "true" or "ja".
func ParseBool(val string) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "yes", "y", "ja", "foil":
		return true
	}
	return false
}
