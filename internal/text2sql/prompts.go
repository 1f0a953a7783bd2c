package text2sql

import (
	"fmt"

	"github.com/textsql/textsql/internal/llm"
)

func sqlPrompt(dialect, schema, question string) llm.Prompt {
	if dialect == "" {
		dialect = "SQLite"
	}
	return llm.Prompt{User: fmt.Sprintf(
		"Given the following database schema:\n%s\n\n"+
			"Generate a SQL query to answer this question: %s\n\n"+
			"Return ONLY the SQL query without any additional text, markdown, or explanations.\n"+
			"The query should be executable %s syntax.",
		schema, question, dialect,
	)}
}

func responsePrompt(question, sqlText, resultText string) llm.Prompt {
	return llm.Prompt{User: fmt.Sprintf(
		"Question: %s\n"+
			"Generated SQL: %s\n"+
			"Query Result: %s\n\n"+
			"Provide a natural language response that answers the question. If there was an error, explain it.",
		question, sqlText, resultText,
	)}
}
