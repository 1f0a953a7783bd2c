// Package commands wires the textsql command line.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/textsql/textsql/internal/app"
	"github.com/textsql/textsql/internal/cli/repl"
	"github.com/textsql/textsql/internal/config"
	"github.com/textsql/textsql/internal/observability"
	"github.com/textsql/textsql/internal/sqldb"
)

const serviceName = "textsql"

// Env holds the process dependencies commands read from. Zero values mean
// the real environment and terminal.
type Env struct {
	Lookup    config.LookupFunc
	NewReader func(historyFile string) (repl.LineReader, error)
}

func (e Env) lookup() config.LookupFunc {
	if e.Lookup != nil {
		return e.Lookup
	}
	return os.LookupEnv
}

func (e Env) newReader(historyFile string) (repl.LineReader, error) {
	if e.NewReader != nil {
		return e.NewReader(historyFile)
	}
	return repl.NewReadline(historyFile)
}

func NewRootCmd(env Env) *cobra.Command {
	var opts replOptions
	rootCmd := &cobra.Command{
		Use:   "textsql",
		Short: "Ask questions about a SQL database in plain language",
		Long: `textsql turns a natural-language question into SQL with a language model,
runs it against the configured database and explains the result.

Without a subcommand it starts the interactive question loop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd, env, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	bindREPLFlags(rootCmd, &opts)

	rootCmd.AddCommand(newREPLCommand(env))
	rootCmd.AddCommand(newAskCommand(env))
	rootCmd.AddCommand(newSchemaCommand(env))
	rootCmd.AddCommand(newInspectCommand(env))
	return rootCmd
}

func openRuntime(ctx context.Context, env Env, stderr io.Writer) (*app.Runtime, error) {
	lookup := env.lookup()
	cfg, err := config.Load(serviceName, lookup)
	if err != nil {
		return nil, err
	}
	return app.Open(ctx, cfg, cliLogger(cfg, lookup, stderr))
}

func openDatabase(ctx context.Context, env Env) (*sqldb.DB, error) {
	cfg, err := config.LoadDatabaseOnly(serviceName, env.lookup())
	if err != nil {
		return nil, err
	}
	return sqldb.Open(ctx, sqldb.DBConfig{
		URL:              cfg.Database.URL,
		MaxOpenConns:     1,
		SchemaSampleRows: cfg.Database.SchemaSampleRows,
	})
}

// cliLogger writes human-readable warnings to stderr unless logging was
// configured explicitly.
func cliLogger(cfg config.Config, lookup config.LookupFunc, stderr io.Writer) *slog.Logger {
	if _, ok := lookup("TEXTSQL_LOG_LEVEL"); !ok {
		cfg.Observability.LogLevel = slog.LevelWarn
	}
	if _, ok := lookup("TEXTSQL_LOG_JSON"); !ok {
		cfg.Observability.LogJSON = false
	}
	return observability.NewLogger(cfg, stderr)
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".textsql_history")
}
