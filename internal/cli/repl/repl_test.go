package repl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/chzyer/readline"

	"github.com/textsql/textsql/internal/text2sql"
)

type scriptedReader struct {
	lines  []any
	closed bool
}

func (r *scriptedReader) Readline() (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	next := r.lines[0]
	r.lines = r.lines[1:]
	if err, ok := next.(error); ok {
		return "", err
	}
	return next.(string), nil
}

func (r *scriptedReader) Close() error {
	r.closed = true
	return nil
}

type recordingAsker struct {
	questions []string
	answer    text2sql.Answer
	err       error
}

func (a *recordingAsker) Ask(_ context.Context, question string) (text2sql.Answer, error) {
	a.questions = append(a.questions, question)
	return a.answer, a.err
}

func TestRunPrintsResponsesUntilQuit(t *testing.T) {
	asker := &recordingAsker{answer: text2sql.Answer{Response: "There are 3 users."}}
	reader := &scriptedReader{lines: []any{"How many users?", "  ", "QUIT", "never asked"}}
	var out bytes.Buffer

	if err := Run(context.Background(), Options{Asker: asker, Reader: reader, Out: &out}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(asker.questions) != 1 || asker.questions[0] != "How many users?" {
		t.Fatalf("questions = %#v", asker.questions)
	}
	if !strings.Contains(out.String(), "Response: There are 3 users.\n") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestRunPrintsErrorsAndContinues(t *testing.T) {
	asker := &recordingAsker{err: errors.New("describe schema: database is locked")}
	reader := &scriptedReader{lines: []any{"first", readline.ErrInterrupt, "second"}}
	var out bytes.Buffer

	if err := Run(context.Background(), Options{Asker: asker, Reader: reader, Out: &out}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(asker.questions) != 2 {
		t.Fatalf("questions = %#v", asker.questions)
	}
	if got := strings.Count(out.String(), "Error processing question: describe schema: database is locked"); got != 2 {
		t.Fatalf("error lines = %d, output = %q", got, out.String())
	}
}

func TestRunVerbosePrintsSQLAndResult(t *testing.T) {
	asker := &recordingAsker{answer: text2sql.Answer{
		Response:  "Two.",
		SQL:       "SELECT 2;",
		Result:    "| 2 |",
		Synthesis: text2sql.StageOutcome{Status: text2sql.StatusOK, Value: "SELECT 2;"},
	}}
	reader := &scriptedReader{lines: []any{"how many?"}}
	var out bytes.Buffer

	if err := Run(context.Background(), Options{Asker: asker, Reader: reader, Out: &out, Verbose: true}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, want := range []string{"SQL: SELECT 2;\n", "Result:\n| 2 |\n", "Response: Two.\n"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output missing %q: %q", want, out.String())
		}
	}
}

func TestRunStopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	asker := &recordingAsker{}
	reader := &scriptedReader{lines: []any{"question"}}

	if err := Run(ctx, Options{Asker: asker, Reader: reader}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(asker.questions) != 0 {
		t.Fatalf("questions = %#v", asker.questions)
	}
}

func TestRunReturnsReaderFailure(t *testing.T) {
	reader := &scriptedReader{lines: []any{errors.New("tty gone")}}
	err := Run(context.Background(), Options{Asker: &recordingAsker{}, Reader: reader})
	if err == nil || !strings.Contains(err.Error(), "tty gone") {
		t.Fatalf("error = %v", err)
	}
}

func TestIsQuit(t *testing.T) {
	for _, input := range []string{"quit", "EXIT", " q ", "Quit"} {
		if !IsQuit(input) {
			t.Fatalf("IsQuit(%q) = false", input)
		}
	}
	for _, input := range []string{"quite", "", "exit now"} {
		if IsQuit(input) {
			t.Fatalf("IsQuit(%q) = true", input)
		}
	}
}
