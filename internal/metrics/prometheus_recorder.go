package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "scc"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration   *prom.HistogramVec
	stageResults    *prom.CounterVec
	compileDuration *prom.HistogramVec
	compiles        *prom.CounterVec
	outputBytes     *prom.HistogramVec
	cacheLookups    *prom.CounterVec
	watchRebuilds   *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil registry gets a fresh one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual compile stages",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"stage"}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		compileDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "compile_duration_seconds",
			Help:      "Total compile duration by output target",
			Buckets:   prom.DefBuckets,
		}, []string{"target"}),
		compiles: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "compiles_total",
			Help:      "Compile runs by output target and result",
		}, []string{"target", "result"}),
		outputBytes: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "output_bytes",
			Help:      "Size of rendered output",
			Buckets:   prom.ExponentialBuckets(256, 4, 8),
		}, []string{"target"}),
		cacheLookups: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Render cache lookups by outcome",
		}, []string{"outcome"}),
		watchRebuilds: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "watch_rebuilds_total",
			Help:      "Rebuilds triggered by file changes",
		}, []string{"result"}),
	}
	reg.MustRegister(pr.stageDuration, pr.stageResults, pr.compileDuration, pr.compiles,
		pr.outputBytes, pr.cacheLookups, pr.watchRebuilds)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveCompile(target string, d time.Duration, result ResultLabel) {
	if p == nil {
		return
	}
	p.compileDuration.WithLabelValues(target).Observe(d.Seconds())
	p.compiles.WithLabelValues(target, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveOutputBytes(target string, n int) {
	if p == nil {
		return
	}
	p.outputBytes.WithLabelValues(target).Observe(float64(n))
}

func (p *PrometheusRecorder) IncCacheLookup(hit bool) {
	if p == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	p.cacheLookups.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncWatchRebuild(result ResultLabel) {
	if p == nil {
		return
	}
	p.watchRebuilds.WithLabelValues(string(result)).Inc()
}
