package text2sql

import (
	"context"
	"time"

	"github.com/textsql/textsql/internal/sqldb"
)

const executeErrorPrefix = "Error executing SQL: "

// Executor runs generated SQL on one connection and renders the result as
// text for the narrator.
type Executor struct {
	Runner sqldb.Runner
}

func (e Executor) Execute(ctx context.Context, query string) StageOutcome {
	start := time.Now()
	result, err := e.Runner.Run(ctx, query)
	if err != nil {
		return failed(StageExecute, executeErrorPrefix, err, time.Since(start))
	}
	// Elapsed is the database time; rendering the table is not counted.
	return succeeded(StageExecute, result.Text(), result.Duration)
}
