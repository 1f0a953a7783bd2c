package sqldb

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

type Column struct {
	Name     string
	Type     string
	Nullable bool
}

type Table struct {
	Name    string
	Columns []Column
	// DDL is the stored CREATE statement when the engine keeps one (SQLite).
	DDL string
}

const sqliteTablesQuery = `
SELECT name, sql
FROM sqlite_master
WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
ORDER BY name`

const informationSchemaTablesQuery = `
SELECT table_name
FROM information_schema.tables
WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'
ORDER BY table_name`

const informationSchemaColumnsQuery = `
SELECT table_name, column_name, data_type, is_nullable
FROM information_schema.columns
WHERE table_schema = current_schema()
ORDER BY table_name, ordinal_position`

// DescribeSchema renders every user table as a CREATE TABLE block followed by
// up to sampleRows example rows in a SQL comment.
func DescribeSchema(ctx context.Context, q Querier, dialect Dialect, sampleRows int) (string, error) {
	tables, err := LoadTables(ctx, q, dialect)
	if err != nil {
		return "", err
	}

	blocks := make([]string, 0, len(tables))
	for _, table := range tables {
		block := createTableText(table)
		if sampleRows > 0 {
			sample, err := sampleTable(ctx, q, table.Name, sampleRows)
			if err != nil {
				if ctx.Err() != nil {
					return "", err
				}
				// An unreadable table still contributes its definition.
				blocks = append(blocks, block)
				continue
			}
			block += "\n\n" + sample
		}
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n\n"), nil
}

func ListTables(ctx context.Context, q Querier, dialect Dialect) ([]string, error) {
	tables, err := LoadTables(ctx, q, dialect)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(tables))
	for _, table := range tables {
		names = append(names, table.Name)
	}
	return names, nil
}

func LoadTables(ctx context.Context, q Querier, dialect Dialect) ([]Table, error) {
	switch dialect {
	case DialectSQLite:
		return loadSQLiteTables(ctx, q)
	case DialectPostgres, DialectDuckDB:
		return loadInformationSchemaTables(ctx, q)
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
}

func loadSQLiteTables(ctx context.Context, q Querier) ([]Table, error) {
	rows, err := q.QueryContext(ctx, sqliteTablesQuery)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tables := make([]Table, 0)
	for rows.Next() {
		var (
			name string
			ddl  *string
		)
		if err := rows.Scan(&name, &ddl); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		table := Table{Name: name}
		if ddl != nil {
			table.DDL = strings.TrimSpace(*ddl)
		}
		tables = append(tables, table)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}
	return tables, nil
}

func loadInformationSchemaTables(ctx context.Context, q Querier) ([]Table, error) {
	rows, err := q.QueryContext(ctx, informationSchemaTablesQuery)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	tables := make([]Table, 0)
	index := map[string]int{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan table: %w", err)
		}
		index[name] = len(tables)
		tables = append(tables, Table{Name: name})
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate tables: %w", err)
	}
	_ = rows.Close()

	colRows, err := q.QueryContext(ctx, informationSchemaColumnsQuery)
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	defer func() { _ = colRows.Close() }()
	for colRows.Next() {
		var tableName, columnName, dataType, nullable string
		if err := colRows.Scan(&tableName, &columnName, &dataType, &nullable); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		i, ok := index[tableName]
		if !ok {
			// views share information_schema.columns
			continue
		}
		tables[i].Columns = append(tables[i].Columns, Column{
			Name:     columnName,
			Type:     strings.ToUpper(dataType),
			Nullable: strings.EqualFold(nullable, "YES"),
		})
	}
	if err := colRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}
	return tables, nil
}

// Preview returns up to limit rows of a user table. Unknown tables are
// rejected before any query is built from the name.
func Preview(ctx context.Context, q Querier, dialect Dialect, table string, limit int) (Result, error) {
	names, err := ListTables(ctx, q, dialect)
	if err != nil {
		return Result{}, err
	}
	found := false
	for _, name := range names {
		if name == table {
			found = true
			break
		}
	}
	if !found {
		return Result{}, fmt.Errorf("table %q not found", table)
	}
	if limit <= 0 {
		limit = 10
	}
	return Run(ctx, q, "SELECT * FROM "+quoteIdent(table)+" LIMIT "+strconv.Itoa(limit))
}

func createTableText(table Table) string {
	if table.DDL != "" {
		return table.DDL
	}
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(quoteIdent(table.Name))
	b.WriteString(" (")
	for i, column := range table.Columns {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n\t")
		b.WriteString(quoteIdent(column.Name))
		b.WriteString(" ")
		b.WriteString(column.Type)
		if !column.Nullable {
			b.WriteString(" NOT NULL")
		}
	}
	b.WriteString("\n)")
	return b.String()
}

func sampleTable(ctx context.Context, q Querier, tableName string, limit int) (string, error) {
	result, err := Run(ctx, q, "SELECT * FROM "+quoteIdent(tableName)+" LIMIT "+strconv.Itoa(limit))
	if err != nil {
		return "", fmt.Errorf("sample table %q: %w", tableName, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "/*\n%d rows from %s table:\n", limit, tableName)
	b.WriteString(strings.Join(result.Columns, "\t"))
	for _, row := range result.Rows {
		b.WriteString("\n")
		cells := make([]string, len(row))
		for i, value := range row {
			cells[i] = formatValue(value)
		}
		b.WriteString(strings.Join(cells, "\t"))
	}
	b.WriteString("\n*/")
	return b.String(), nil
}
