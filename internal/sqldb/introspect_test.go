package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestDescribeSchemaFromInformationSchema(t *testing.T) {
	db, mock := newSQLMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(informationSchemaTablesQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("orders"))
	mock.ExpectQuery(regexp.QuoteMeta(informationSchemaColumnsQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "column_name", "data_type", "is_nullable"}).
			AddRow("orders", "id", "integer", "NO").
			AddRow("orders", "total", "numeric", "YES").
			AddRow("v_orders", "id", "integer", "YES"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" LIMIT 2`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "total"}).AddRow(int64(1), "9.50"))

	schema, err := DescribeSchema(context.Background(), db, DialectPostgres, 2)
	if err != nil {
		t.Fatalf("DescribeSchema() error = %v", err)
	}
	want := "CREATE TABLE \"orders\" (\n\t\"id\" INTEGER NOT NULL,\n\t\"total\" NUMERIC\n)\n\n" +
		"/*\n2 rows from orders table:\nid\ttotal\n1\t9.50\n*/"
	if schema != want {
		t.Fatalf("DescribeSchema() = %q, want %q", schema, want)
	}
	assertSQLMock(t, mock)
}

func TestDescribeSchemaWithoutSamples(t *testing.T) {
	db, mock := newSQLMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(sqliteTablesQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "sql"}).
			AddRow("a", "CREATE TABLE a (x INT)").
			AddRow("b", "CREATE TABLE b (y TEXT)"))

	schema, err := DescribeSchema(context.Background(), db, DialectSQLite, 0)
	if err != nil {
		t.Fatalf("DescribeSchema() error = %v", err)
	}
	if schema != "CREATE TABLE a (x INT)\n\nCREATE TABLE b (y TEXT)" {
		t.Fatalf("DescribeSchema() = %q", schema)
	}
	assertSQLMock(t, mock)
}

func TestDescribeSchemaKeepsTableWhenSampleFails(t *testing.T) {
	db, mock := newSQLMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(sqliteTablesQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "sql"}).AddRow("secret", "CREATE TABLE secret (x INT)"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "secret" LIMIT 3`)).
		WillReturnError(errors.New("permission denied"))

	schema, err := DescribeSchema(context.Background(), db, DialectSQLite, 3)
	if err != nil {
		t.Fatalf("DescribeSchema() error = %v", err)
	}
	if schema != "CREATE TABLE secret (x INT)" {
		t.Fatalf("DescribeSchema() = %q", schema)
	}
	assertSQLMock(t, mock)
}

func TestDescribeSchemaPropagatesConnectionError(t *testing.T) {
	db, mock := newSQLMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(sqliteTablesQuery)).
		WillReturnError(sql.ErrConnDone)

	_, err := DescribeSchema(context.Background(), db, DialectSQLite, 3)
	if !errors.Is(err, sql.ErrConnDone) {
		t.Fatalf("error = %v, want %v", err, sql.ErrConnDone)
	}
	assertSQLMock(t, mock)
}

func TestLoadTablesRejectsUnknownDialect(t *testing.T) {
	db, _ := newSQLMock(t)
	_, err := LoadTables(context.Background(), db, Dialect("oracle"))
	if err == nil || !strings.Contains(err.Error(), "oracle") {
		t.Fatalf("error = %v", err)
	}
}

func TestPreviewRejectsUnknownTable(t *testing.T) {
	db, mock := newSQLMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(sqliteTablesQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "sql"}).AddRow("users", "CREATE TABLE users (id INT)"))

	_, err := Preview(context.Background(), db, DialectSQLite, "users; DROP TABLE users", 10)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("error = %v", err)
	}
	assertSQLMock(t, mock)
}

func TestPreviewLimitsRows(t *testing.T) {
	db, mock := newSQLMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(sqliteTablesQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "sql"}).AddRow("users", "CREATE TABLE users (id INT)"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" LIMIT 10`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	result, err := Preview(context.Background(), db, DialectSQLite, "users", 0)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("rows = %#v", result.Rows)
	}
	assertSQLMock(t, mock)
}

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func assertSQLMock(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations not met: %v", err)
	}
}
