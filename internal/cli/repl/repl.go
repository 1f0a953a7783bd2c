// Package repl is the interactive question loop.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/textsql/textsql/internal/text2sql"
)

const Prompt = "Enter your question (or 'quit' to exit): "

type LineReader interface {
	Readline() (string, error)
	Close() error
}

type Asker interface {
	Ask(ctx context.Context, question string) (text2sql.Answer, error)
}

type Options struct {
	Asker  Asker
	Reader LineReader
	Out    io.Writer
	// Verbose also prints the generated SQL and the query result.
	Verbose bool
}

// NewReadline returns a line editor with history kept in historyFile. An
// empty historyFile disables history.
func NewReadline(historyFile string) (LineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          Prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return nil, fmt.Errorf("initialize line editor: %w", err)
	}
	return rl, nil
}

// Run reads questions until quit, EOF or ctx is cancelled. Question errors are
// printed and the loop continues.
func Run(ctx context.Context, opts Options) error {
	if opts.Asker == nil || opts.Reader == nil {
		return errors.New("repl needs an asker and a line reader")
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := opts.Reader.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read question: %w", err)
		}

		question := strings.TrimSpace(line)
		if question == "" {
			continue
		}
		if IsQuit(question) {
			return nil
		}

		answer, err := opts.Asker.Ask(ctx, question)
		if err != nil {
			_, _ = fmt.Fprintf(out, "Error processing question: %v\n\n", err)
			continue
		}
		if opts.Verbose {
			_, _ = fmt.Fprintf(out, "SQL: %s\n", answer.Synthesis.Text())
			_, _ = fmt.Fprintf(out, "Result:\n%s\n", answer.Result)
		}
		_, _ = fmt.Fprintf(out, "Response: %s\n\n", answer.Response)
	}
}

func IsQuit(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "quit", "exit", "q":
		return true
	default:
		return false
	}
}
