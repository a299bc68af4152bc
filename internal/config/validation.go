package config

import (
	"strings"
	"time"

	"git.home.luguber.info/inful/scc/internal/foundation"
	"git.home.luguber.info/inful/scc/internal/transform"
)

// MaxNestingLimit bounds parser.max_nesting.
const MaxNestingLimit = 256

// Validate checks the loaded configuration. All failing fields are reported
// in one classified config error.
func Validate(cfg *Config) error {
	result := foundation.Check(cfg.Parser.MaxNesting, foundation.InRange("parser.max_nesting", 1, MaxNestingLimit))

	result = result.Combine(validateEnum("render.target", string(cfg.Render.Target), func(s string) error {
		_, err := NormalizeTarget(s)
		return err
	}))
	result = result.Combine(validateEnum("logging.level", string(cfg.Logging.Level), func(s string) error {
		_, err := logLevelNormalizer.NormalizeWithError(s)
		return err
	}))
	result = result.Combine(validateEnum("logging.format", string(cfg.Logging.Format), func(s string) error {
		_, err := logFormatNormalizer.NormalizeWithError(s)
		return err
	}))

	names := make([]string, len(cfg.Transforms))
	for i, t := range cfg.Transforms {
		names[i] = t.Name
	}
	result = result.Combine(foundation.Check(names, foundation.Each("transforms", transformName)))

	if cfg.Watch.Debounce < 0 || cfg.Watch.Debounce > time.Minute {
		fe := foundation.NewValidationError("watch.debounce", "range", "must be between 0s and 1m")
		fe.Value = cfg.Watch.Debounce.String()
		result = result.Combine(foundation.Invalid(fe))
	}
	if cfg.Metrics.Path != "" && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		result = result.Combine(foundation.Invalid(
			foundation.NewValidationError("metrics.path", "format", "must start with /")))
	}

	return result.ToError()
}

// transformName requires a registered transform name.
func transformName(field string) foundation.Validator[string] {
	return func(name string) foundation.ValidationResult {
		if strings.TrimSpace(name) == "" {
			return foundation.NotEmpty(field)(name)
		}
		return foundation.OneOf(field, transform.Names())(name)
	}
}

func validateEnum(field, value string, normalize func(string) error) foundation.ValidationResult {
	if err := normalize(value); err != nil {
		fe := foundation.NewValidationError(field, "one_of", err.Error())
		fe.Value = value
		return foundation.Invalid(fe)
	}
	return foundation.Valid()
}
