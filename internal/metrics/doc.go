// Package metrics provides compile instrumentation for scc.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	c := compiler.New(cfg, compiler.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// The Prometheus implementation is exposed over HTTP by `scc watch` when
// metrics are enabled in the configuration.
package metrics
