package text2sql

import (
	"context"
	"strings"
	"time"

	"github.com/textsql/textsql/internal/llm"
)

const generateErrorPrefix = "Error generating SQL: "

// Synthesizer asks the model for one SQL statement answering a question
// against a schema.
type Synthesizer struct {
	Client llm.Client
	// Dialect is the display name put in the prompt, e.g. "PostgreSQL".
	Dialect string
}

func (s Synthesizer) Synthesize(ctx context.Context, schema, question string) StageOutcome {
	start := time.Now()
	reply, err := s.Client.Complete(ctx, sqlPrompt(s.Dialect, schema, question))
	if err != nil {
		return failed(StageSynthesize, generateErrorPrefix, err, time.Since(start))
	}
	return succeeded(StageSynthesize, StripFences(reply), time.Since(start))
}

// StripFences removes every markdown code fence marker from a model reply.
// Fence markers inside string literals are removed too.
func StripFences(reply string) string {
	cleaned := strings.TrimSpace(reply)
	cleaned = strings.ReplaceAll(cleaned, "```sql", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}
