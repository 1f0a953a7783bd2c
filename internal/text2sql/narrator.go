package text2sql

import (
	"context"
	"fmt"

	"github.com/textsql/textsql/internal/llm"
)

// Narrator turns a question, the SQL that tried to answer it and the query
// result into a natural-language reply.
type Narrator struct {
	Client llm.Client
}

// Narrate returns the model reply verbatim. sqlText and resultText may be
// failure reasons from earlier stages.
func (n Narrator) Narrate(ctx context.Context, question, sqlText, resultText string) (string, error) {
	reply, err := n.Client.Complete(ctx, responsePrompt(question, sqlText, resultText))
	if err != nil {
		return "", fmt.Errorf("generate response: %w", err)
	}
	return reply, nil
}
