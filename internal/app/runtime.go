// Package app owns the long-lived handles every surface shares: the database
// pool and the model client. A Runtime is opened once per process and closed
// on shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/textsql/textsql/internal/config"
	"github.com/textsql/textsql/internal/llm"
	"github.com/textsql/textsql/internal/observability"
	"github.com/textsql/textsql/internal/sqldb"
	"github.com/textsql/textsql/internal/text2sql"
)

type Runtime struct {
	DB       *sqldb.DB
	LLM      llm.Client
	Pipeline *text2sql.Pipeline
	Logger   *slog.Logger
}

func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Runtime, error) {
	logger = observability.OrDiscard(logger)

	db, err := sqldb.Open(ctx, sqldb.DBConfig{
		URL:              cfg.Database.URL,
		MaxOpenConns:     cfg.Database.MaxOpenConns,
		MaxIdleConns:     cfg.Database.MaxIdleConns,
		ConnMaxIdleTime:  cfg.Database.ConnMaxIdleTime,
		ConnMaxLifetime:  cfg.Database.ConnMaxLifetime,
		SchemaSampleRows: cfg.Database.SchemaSampleRows,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	client, err := llm.New(llm.Settings{
		Provider:    cfg.LLM.Provider,
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create llm client: %w", err)
	}

	return New(db, client, logger)
}

// New assembles a Runtime from already built handles.
func New(db *sqldb.DB, client llm.Client, logger *slog.Logger) (*Runtime, error) {
	logger = observability.OrDiscard(logger)
	pipeline, err := text2sql.New(text2sql.Options{
		Database: text2sql.SQLDatabase{DB: db},
		Client:   client,
		Dialect:  db.Dialect().DisplayName(),
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("runtime ready", slog.String("dialect", string(db.Dialect())))
	return &Runtime{DB: db, LLM: client, Pipeline: pipeline, Logger: logger}, nil
}

func (r *Runtime) Ask(ctx context.Context, question string) (text2sql.Answer, error) {
	return r.Pipeline.Ask(ctx, question)
}

func (r *Runtime) HealthCheck(ctx context.Context) error {
	return r.DB.HealthCheck(ctx)
}

func (r *Runtime) Close() error {
	if r == nil || r.DB == nil {
		return nil
	}
	return r.DB.Close()
}
