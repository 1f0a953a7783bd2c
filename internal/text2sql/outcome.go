package text2sql

import "time"

type Stage string

const (
	StageIntrospect Stage = "introspect"
	StageSynthesize Stage = "synthesize"
	StageExecute    Stage = "execute"
	StageNarrate    Stage = "narrate"
)

type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// NotExecuted stands in for the query result when no SQL was produced.
const NotExecuted = "Query was not executed."

// StageOutcome is the tagged result of one pipeline stage. Value is set only
// for StatusOK; Reason carries the human-readable text for the other statuses.
type StageOutcome struct {
	Stage   Stage
	Status  Status
	Value   string
	Reason  string
	Err     error
	Elapsed time.Duration
}

func succeeded(stage Stage, value string, elapsed time.Duration) StageOutcome {
	return StageOutcome{Stage: stage, Status: StatusOK, Value: value, Elapsed: elapsed}
}

func failed(stage Stage, prefix string, err error, elapsed time.Duration) StageOutcome {
	return StageOutcome{Stage: stage, Status: StatusFailed, Reason: prefix + err.Error(), Err: err, Elapsed: elapsed}
}

func skipped(stage Stage, reason string) StageOutcome {
	return StageOutcome{Stage: stage, Status: StatusSkipped, Reason: reason}
}

func (o StageOutcome) OK() bool {
	return o.Status == StatusOK
}

// Text is what later stages see: the value on success, the reason otherwise.
func (o StageOutcome) Text() string {
	if o.OK() {
		return o.Value
	}
	return o.Reason
}
