package text2sql

import (
	"context"
	"sync"

	"github.com/textsql/textsql/internal/llm"
	"github.com/textsql/textsql/internal/sqldb"
)

type reply struct {
	text string
	err  error
}

// scriptedClient answers each Complete call with the next scripted reply.
type scriptedClient struct {
	mu      sync.Mutex
	replies []reply
	prompts []llm.Prompt
	// onCall, when set, runs before each reply with the 1-based call number.
	onCall func(call int)
}

func newScriptedClient(replies ...reply) *scriptedClient {
	return &scriptedClient{replies: replies}
}

func (c *scriptedClient) Complete(_ context.Context, prompt llm.Prompt) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, prompt)
	if c.onCall != nil {
		c.onCall(len(c.prompts))
	}
	if len(c.replies) == 0 {
		return "", context.DeadlineExceeded
	}
	next := c.replies[0]
	c.replies = c.replies[1:]
	return next.text, next.err
}

type fakeSession struct {
	schema    string
	schemaErr error
	result    sqldb.Result
	runErr    error
	ran       []string
	closed    bool
}

func (s *fakeSession) DescribeSchema(context.Context) (string, error) {
	return s.schema, s.schemaErr
}

func (s *fakeSession) Run(_ context.Context, query string) (sqldb.Result, error) {
	s.ran = append(s.ran, query)
	return s.result, s.runErr
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeDatabase struct {
	session    *fakeSession
	acquireErr error
	acquired   int
}

func (d *fakeDatabase) Acquire(context.Context) (Session, error) {
	d.acquired++
	if d.acquireErr != nil {
		return nil, d.acquireErr
	}
	return d.session, nil
}
