package wordsource

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// BigQueryParams locates a word column in a BigQuery table.
type BigQueryParams struct {
	Project string
	// Table is the fully qualified table name, project.dataset.table.
	Table string
	// Column holds the words. Defaults to "word".
	Column string
	// OrderBy is an optional column giving the source order of the words.
	OrderBy string
	// Location defaults to "US".
	Location string
}

var identifier = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.\-]*$`)

// Query returns the SQL selecting the word column.
func (p BigQueryParams) Query() (string, error) {
	column := p.Column
	if column == "" {
		column = "word"
	}
	if !identifier.MatchString(p.Table) {
		return "", fmt.Errorf("invalid table name %q", p.Table)
	}
	if !identifier.MatchString(column) {
		return "", fmt.Errorf("invalid column name %q", column)
	}

	query := fmt.Sprintf("SELECT `%s` FROM `%s` WHERE `%s` IS NOT NULL", column, p.Table, column)
	if p.OrderBy != "" {
		if !identifier.MatchString(p.OrderBy) {
			return "", fmt.Errorf("invalid order column %q", p.OrderBy)
		}
		query += fmt.Sprintf(" ORDER BY `%s`", p.OrderBy)
	}
	return query, nil
}

// LoadBigQuery runs the word query and returns the normalized words in row order.
func LoadBigQuery(ctx context.Context, p BigQueryParams, opts Options) ([]string, error) {
	query, err := p.Query()
	if err != nil {
		return nil, err
	}

	client, err := bigquery.NewClient(ctx, p.Project)
	if err != nil {
		return nil, fmt.Errorf("bigquery.NewClient: %w", err)
	}
	defer client.Close()

	q := client.Query(query)
	q.Location = p.Location
	if q.Location == "" {
		q.Location = "US"
	}

	job, err := q.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("q.Run: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("job.Wait: %w", err)
	}
	if err := status.Err(); err != nil {
		return nil, fmt.Errorf("status.Err: %w", err)
	}
	it, err := job.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("job.Read: %w", err)
	}
	return readRows(ctx, it, opts)
}

// rowIterator is the part of *bigquery.RowIterator used to drain results.
type rowIterator interface {
	Next(dst interface{}) error
}

func readRows(ctx context.Context, it rowIterator, opts Options) ([]string, error) {
	words := make([]string, 0, 1024)
	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var row []bigquery.Value
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("it.Next: %w", err)
		}
		if len(row) == 0 {
			return nil, errors.New("empty row")
		}

		raw, ok := row[0].(string)
		if !ok {
			return nil, fmt.Errorf("row[0] is not a string: %v", row[0])
		}
		if word := Normalize(raw, opts); word != "" {
			words = append(words, word)
		}
	}
	return words, nil
}
