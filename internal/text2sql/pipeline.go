// Package text2sql answers natural-language questions about a database by
// asking a model for SQL, running it, and asking the model to explain the
// result.
package text2sql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/textsql/textsql/internal/llm"
	"github.com/textsql/textsql/internal/observability"
	"github.com/textsql/textsql/internal/sqldb"
)

var ErrQuestionRequired = errors.New("question is required")

// Session is one borrowed database connection.
type Session interface {
	sqldb.Introspector
	sqldb.Runner
	Close() error
}

type Database interface {
	Acquire(ctx context.Context) (Session, error)
}

// SQLDatabase adapts *sqldb.DB to Database.
type SQLDatabase struct {
	DB *sqldb.DB
}

func (d SQLDatabase) Acquire(ctx context.Context) (Session, error) {
	session, err := d.DB.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return session, nil
}

type Answer struct {
	Question string
	Response string
	// SQL is the generated statement, empty when synthesis failed.
	SQL       string
	Result    string
	Synthesis StageOutcome
	Execution StageOutcome
}

type Pipeline struct {
	db          Database
	synthesizer Synthesizer
	narrator    Narrator
	logger      *slog.Logger
}

type Options struct {
	Database Database
	// Client serves both SQL synthesis and narration.
	Client  llm.Client
	Dialect string
	Logger  *slog.Logger
}

func New(opts Options) (*Pipeline, error) {
	if opts.Database == nil {
		return nil, fmt.Errorf("database is required")
	}
	if opts.Client == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	return &Pipeline{
		db:          opts.Database,
		synthesizer: Synthesizer{Client: opts.Client, Dialect: opts.Dialect},
		narrator:    Narrator{Client: opts.Client},
		logger:      observability.OrDiscard(opts.Logger),
	}, nil
}

// Ask runs one question through introspection, synthesis, execution and
// narration. Synthesis and execution failures do not fail the call; they are
// handed to the narrator, which explains them.
func (p *Pipeline) Ask(ctx context.Context, question string) (Answer, error) {
	if strings.TrimSpace(question) == "" {
		observability.ObserveQuestion("invalid")
		return Answer{}, ErrQuestionRequired
	}
	logger := p.logger.With(slog.String("trace_id", observability.TraceIDFromContext(ctx)))

	answer, err := p.ask(ctx, logger, question)
	if err != nil {
		observability.ObserveQuestion("error")
		logger.Warn("question failed", slog.String("error", err.Error()))
		return Answer{}, err
	}
	observability.ObserveQuestion("answered")
	return answer, nil
}

func (p *Pipeline) ask(ctx context.Context, logger *slog.Logger, question string) (Answer, error) {
	synthesis, execution, err := p.query(ctx, logger, question)
	if err != nil {
		return Answer{}, err
	}

	start := time.Now()
	response, err := p.narrator.Narrate(ctx, question, synthesis.Text(), execution.Text())
	if err != nil {
		p.record(logger, failed(StageNarrate, "", err, time.Since(start)))
		return Answer{}, err
	}
	p.record(logger, succeeded(StageNarrate, response, time.Since(start)))

	return Answer{
		Question:  question,
		Response:  response,
		SQL:       synthesis.Value,
		Result:    execution.Text(),
		Synthesis: synthesis,
		Execution: execution,
	}, nil
}

// query holds a pooled connection from introspection through execution. The
// connection is back in the pool before narration starts.
func (p *Pipeline) query(ctx context.Context, logger *slog.Logger, question string) (synthesis, execution StageOutcome, err error) {
	session, err := p.db.Acquire(ctx)
	if err != nil {
		return StageOutcome{}, StageOutcome{}, fmt.Errorf("acquire database session: %w", err)
	}
	defer func() { _ = session.Close() }()

	start := time.Now()
	schema, err := session.DescribeSchema(ctx)
	if err != nil {
		observability.ObserveStage(string(StageIntrospect), string(StatusFailed), time.Since(start))
		return StageOutcome{}, StageOutcome{}, fmt.Errorf("describe schema: %w", err)
	}
	observability.ObserveStage(string(StageIntrospect), string(StatusOK), time.Since(start))
	logger.Debug("schema described", slog.Int("schema_bytes", len(schema)))

	synthesis = p.synthesizer.Synthesize(ctx, schema, question)
	p.record(logger, synthesis)

	if synthesis.OK() {
		execution = Executor{Runner: session}.Execute(ctx, synthesis.Value)
	} else {
		execution = skipped(StageExecute, NotExecuted)
	}
	p.record(logger, execution)
	return synthesis, execution, nil
}

func (p *Pipeline) record(logger *slog.Logger, outcome StageOutcome) {
	observability.ObserveStage(string(outcome.Stage), string(outcome.Status), outcome.Elapsed)
	attrs := []any{
		slog.String("stage", string(outcome.Stage)),
		slog.String("status", string(outcome.Status)),
		slog.Int64("duration_ms", outcome.Elapsed.Milliseconds()),
	}
	switch outcome.Status {
	case StatusFailed:
		logger.Warn("pipeline stage failed", append(attrs, slog.String("reason", outcome.Reason))...)
	case StatusSkipped:
		logger.Debug("pipeline stage skipped", attrs...)
	default:
		if outcome.Stage == StageSynthesize {
			attrs = append(attrs, slog.String("sql", outcome.Value))
		}
		logger.Debug("pipeline stage finished", attrs...)
	}
}
