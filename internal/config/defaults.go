package config

import (
	"time"

	"git.home.luguber.info/inful/scc/internal/foundation/errors"
)

// Default values applied when the file leaves a field unset.
const (
	DefaultMaxNesting    = 32
	DefaultDebounce      = 300 * time.Millisecond
	DefaultComponentName = "Content"
	DefaultMetricsPath   = "/metrics"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

type parserDefaults struct{}

func (parserDefaults) Domain() string { return "parser" }

func (parserDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Parser.MaxNesting == 0 {
		cfg.Parser.MaxNesting = DefaultMaxNesting
	}
	return nil
}

type renderDefaults struct{}

func (renderDefaults) Domain() string { return "render" }

// ApplyDefaults canonicalizes the target; an unknown spelling is left for
// validation to report.
func (renderDefaults) ApplyDefaults(cfg *Config) error {
	if t, err := NormalizeTarget(string(cfg.Render.Target)); err == nil {
		cfg.Render.Target = t
	}
	if cfg.Render.JSX.ComponentName == "" {
		cfg.Render.JSX.ComponentName = DefaultComponentName
	}
	return nil
}

type loggingDefaults struct{}

func (loggingDefaults) Domain() string { return "logging" }

func (loggingDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	return nil
}

type watchDefaults struct{}

func (watchDefaults) Domain() string { return "watch" }

func (watchDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultDebounce
	}
	return nil
}

type metricsDefaults struct{}

func (metricsDefaults) Domain() string { return "metrics" }

func (metricsDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	return nil
}

var appliers = []DefaultApplier{
	parserDefaults{},
	renderDefaults{},
	loggingDefaults{},
	watchDefaults{},
	metricsDefaults{},
}

// ApplyDefaults fills unset fields domain by domain.
func ApplyDefaults(cfg *Config) error {
	for _, a := range appliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "failed to apply defaults").
				WithContext("domain", a.Domain()).
				Build()
		}
	}
	return nil
}
