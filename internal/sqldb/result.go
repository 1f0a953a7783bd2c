package sqldb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type Result struct {
	Columns  []string
	Rows     [][]any
	Duration time.Duration
}

// Run executes one statement and collects every row it returns. Statements
// without a result set yield an empty Result.
func Run(ctx context.Context, q Querier, query string) (Result, error) {
	if strings.TrimSpace(query) == "" {
		return Result{}, fmt.Errorf("sql is required")
	}

	start := time.Now()
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return Result{}, fmt.Errorf("query columns: %w", err)
	}

	resultRows := make([][]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return Result{}, fmt.Errorf("scan row: %w", err)
		}
		resultRows = append(resultRows, normalizeValues(values))
	}
	if err := rows.Err(); err != nil {
		return Result{}, fmt.Errorf("iterate rows: %w", err)
	}

	return Result{
		Columns:  columns,
		Rows:     resultRows,
		Duration: time.Since(start),
	}, nil
}

// Text renders the result as a plain ASCII table.
func (r Result) Text() string {
	if len(r.Columns) == 0 {
		return "(no result set)"
	}
	if len(r.Rows) == 0 {
		return "(0 rows)"
	}

	style := table.StyleDefault
	style.Format.Header = text.FormatDefault
	t := table.NewWriter()
	t.SetStyle(style)

	header := make(table.Row, len(r.Columns))
	for i, column := range r.Columns {
		header[i] = column
	}
	t.AppendHeader(header)

	for _, row := range r.Rows {
		cells := make(table.Row, len(row))
		for i, value := range row {
			cells[i] = formatValue(value)
		}
		t.AppendRow(cells)
	}
	return t.Render()
}

func normalizeValues(values []any) []any {
	normalized := make([]any, len(values))
	for i, value := range values {
		switch typed := value.(type) {
		case []byte:
			normalized[i] = string(typed)
		default:
			normalized[i] = typed
		}
	}
	return normalized
}

func formatValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(typed)
	case time.Time:
		return typed.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(typed)
	}
}
