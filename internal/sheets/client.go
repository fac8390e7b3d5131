package sheets

import (
	"context"
	"fmt"

	"mtg_collection_tools/internal/inventory"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type Client struct {
	service *sheets.Service
}

// NewClient authenticates with a service account credentials file. Extra
// options are passed through to the Sheets service.
func NewClient(ctx context.Context, credentialsFile string, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithCredentialsFile(credentialsFile)}, opts...)
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service: service,
	}, nil
}

func (c *Client) ReadSheet(ctx context.Context, spreadsheetID, range_ string) ([][]interface{}, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, range_).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	return resp.Values, nil
}

func (c *Client) ClearRange(ctx context.Context, spreadsheetID, range_ string) error {
	_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, range_, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to clear range: %w", err)
	}

	return nil
}

func (c *Client) UpdateRange(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error {
	valueRange := &sheets.ValueRange{
		Values: values,
	}

	_, err := c.service.Spreadsheets.Values.Update(spreadsheetID, range_, valueRange).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update range: %w", err)
	}

	return nil
}

// ReadTable reads range_ as an inventory table whose first row is the header.
func (c *Client) ReadTable(ctx context.Context, spreadsheetID, range_ string) (*inventory.Table, error) {
	values, err := c.ReadSheet(ctx, spreadsheetID, range_)
	if err != nil {
		return nil, err
	}

	table := TableFromValues(values)
	log.Debug().
		Str("spreadsheet_id", spreadsheetID).
		Str("range", range_).
		Int("records", len(table.Records)).
		Msg("Read inventory sheet")
	return table, nil
}

// WriteTable replaces the contents of range_ with the header and records of t.
func (c *Client) WriteTable(ctx context.Context, spreadsheetID, range_ string, t *inventory.Table) error {
	if err := c.ClearRange(ctx, spreadsheetID, range_); err != nil {
		return err
	}
	if err := c.UpdateRange(ctx, spreadsheetID, range_, ValuesFromTable(t)); err != nil {
		return err
	}

	log.Debug().
		Str("spreadsheet_id", spreadsheetID).
		Str("range", range_).
		Int("records", len(t.Records)).
		Msg("Wrote inventory sheet")
	return nil
}

// TableFromValues turns raw sheet values into a table. Trailing empty cells
// are omitted by the API, so rows may be shorter than the header.
func TableFromValues(values [][]interface{}) *inventory.Table {
	table := &inventory.Table{}
	if len(values) == 0 {
		return table
	}

	table.Header = cellsToStrings(values[0])
	for _, row := range values[1:] {
		table.Records = append(table.Records, cellsToStrings(row))
	}
	return table
}

func cellsToStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		if cell == nil {
			continue
		}
		out[i] = fmt.Sprintf("%v", cell)
	}
	return out
}

// ValuesFromTable is the inverse of TableFromValues.
func ValuesFromTable(t *inventory.Table) [][]interface{} {
	values := make([][]interface{}, 0, len(t.Records)+1)
	values = append(values, stringsToCells(t.Header))
	for _, record := range t.Records {
		values = append(values, stringsToCells(record))
	}
	return values
}

func stringsToCells(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, s := range row {
		out[i] = s
	}
	return out
}
