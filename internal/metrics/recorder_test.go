package metrics

import (
	"errors"
	"testing"
	"time"
)

var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration(StageRender, time.Millisecond)
	r.IncStageResult(StageRender, ResultSuccess)
	r.ObserveCompile("html", time.Millisecond, ResultSuccess)
	r.ObserveOutputBytes("html", 10)
	r.IncCacheLookup(false)
	r.IncWatchRebuild(ResultFailed)
}

func TestResult(t *testing.T) {
	if Result(nil) != ResultSuccess {
		t.Fatalf("Result(nil) = %s", Result(nil))
	}
	if Result(errors.New("x")) != ResultFailed {
		t.Fatalf("Result(err) = %s", Result(errors.New("x")))
	}
}
