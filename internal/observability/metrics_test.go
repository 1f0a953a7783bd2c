package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveStageCountsOutcomes(t *testing.T) {
	counter := pipelineStageTotal.WithLabelValues("synthesize", "failed")
	before := testutil.ToFloat64(counter)
	ObserveStage("synthesize", "failed", 20*time.Millisecond)
	if delta := testutil.ToFloat64(counter) - before; delta != 1 {
		t.Fatalf("counter delta = %v, want 1", delta)
	}
}

func TestObserveStageSkipsLatencyForSkippedStages(t *testing.T) {
	before := testutil.CollectAndCount(pipelineStageDurationSeconds, "textsql_pipeline_stage_duration_seconds")
	ObserveStage("never-run-stage", "skipped", 0)
	after := testutil.CollectAndCount(pipelineStageDurationSeconds, "textsql_pipeline_stage_duration_seconds")
	if after != before {
		t.Fatalf("histogram series = %d, want %d", after, before)
	}
}

func TestObserveQuestionCountsStatus(t *testing.T) {
	counter := questionsTotal.WithLabelValues("answered")
	before := testutil.ToFloat64(counter)
	ObserveQuestion("answered")
	ObserveQuestion("answered")
	if delta := testutil.ToFloat64(counter) - before; delta != 2 {
		t.Fatalf("counter delta = %v, want 2", delta)
	}
}
