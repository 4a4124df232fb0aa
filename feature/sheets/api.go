package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// ValuesAPI is the subset of the spreadsheet values API the store uses.
type ValuesAPI interface {
	Get(ctx context.Context, spreadsheetID, rng string) ([][]any, error)
	Append(ctx context.Context, spreadsheetID, rng string, rows [][]any) error
	Clear(ctx context.Context, spreadsheetID, rng string) error
}

// googleValues implements ValuesAPI on the Sheets v4 client.
type googleValues struct {
	values *gsheets.SpreadsheetsValuesService
}

// NewValuesAPI authenticates with the service account key in credentialsFile.
func NewValuesAPI(ctx context.Context, credentialsFile string) (ValuesAPI, error) {
	srv, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return &googleValues{values: srv.Spreadsheets.Values}, nil
}

func (g *googleValues) Get(ctx context.Context, spreadsheetID, rng string) ([][]any, error) {
	resp, err := g.values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (g *googleValues) Append(ctx context.Context, spreadsheetID, rng string, rows [][]any) error {
	_, err := g.values.Append(spreadsheetID, rng, &gsheets.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

func (g *googleValues) Clear(ctx context.Context, spreadsheetID, rng string) error {
	_, err := g.values.Clear(spreadsheetID, rng, &gsheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}
