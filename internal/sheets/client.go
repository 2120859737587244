package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client wraps the sheets/v4 service with client-side rate limiting. Every
// call blocks on the limiter first so a full scrape pass (one worksheet per
// stat type) stays under the per-minute write quota.
type Client struct {
	service *sheets.Service
	limiter *rateLimiter
}

func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	service, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service: service,
		limiter: newRateLimiter(),
	}, nil
}

func (c *Client) ReadSheet(ctx context.Context, spreadsheetID, range_ string) ([][]interface{}, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, range_).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	return resp.Values, nil
}

func (c *Client) UpdateRange(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error {
	if err := c.limiter.wait(ctx); err != nil {
		return err
	}

	valueRange := &sheets.ValueRange{
		Values: values,
	}

	_, err := c.service.Spreadsheets.Values.Update(spreadsheetID, range_, valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update range: %w", err)
	}

	return nil
}

// RangeValues pairs an A1-notation range with the values to write there.
type RangeValues struct {
	Range  string
	Values [][]interface{}
}

// BatchUpdateValues writes several disjoint ranges in one API call. Used by
// the results backfill so each worksheet costs one quota unit, not two per
// player.
func (c *Client) BatchUpdateValues(ctx context.Context, spreadsheetID string, data []RangeValues) error {
	if err := c.limiter.wait(ctx); err != nil {
		return err
	}

	ranges := make([]*sheets.ValueRange, 0, len(data))
	for _, d := range data {
		ranges = append(ranges, &sheets.ValueRange{
			Range:  d.Range,
			Values: d.Values,
		})
	}

	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             ranges,
	}

	_, err := c.service.Spreadsheets.Values.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to batch update values: %w", err)
	}

	return nil
}

// SheetTitles returns the titles of all worksheets in the spreadsheet.
func (c *Client) SheetTitles(ctx context.Context, spreadsheetID string) ([]string, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return nil, err
	}

	spreadsheet, err := c.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	titles := make([]string, 0, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil {
			titles = append(titles, sheet.Properties.Title)
		}
	}
	return titles, nil
}

// EnsureSheet creates the named worksheet if it does not already exist.
func (c *Client) EnsureSheet(ctx context.Context, spreadsheetID, title string) error {
	titles, err := c.SheetTitles(ctx, spreadsheetID)
	if err != nil {
		return err
	}
	for _, t := range titles {
		if t == title {
			return nil
		}
	}

	if err := c.limiter.wait(ctx); err != nil {
		return err
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: title},
				},
			},
		},
	}

	_, err = c.service.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to add sheet %q: %w", title, err)
	}

	return nil
}
