package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// Compile stages reported through ObserveStageDuration.
const (
	StageNormalize = "normalize"
	StageParse     = "parse"
	StageTransform = "transform"
	StageRender    = "render"
)

// Recorder defines observability hooks for compile runs.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	ObserveCompile(target string, d time.Duration, result ResultLabel)
	ObserveOutputBytes(target string, n int)
	IncCacheLookup(hit bool)
	IncWatchRebuild(result ResultLabel)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)        {}
func (NoopRecorder) IncStageResult(string, ResultLabel)                {}
func (NoopRecorder) ObserveCompile(string, time.Duration, ResultLabel) {}
func (NoopRecorder) ObserveOutputBytes(string, int)                    {}
func (NoopRecorder) IncCacheLookup(bool)                               {}
func (NoopRecorder) IncWatchRebuild(ResultLabel)                       {}

// Result maps an error to a ResultLabel.
func Result(err error) ResultLabel {
	if err != nil {
		return ResultFailed
	}
	return ResultSuccess
}
