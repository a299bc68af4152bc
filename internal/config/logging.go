package config

import (
	"log/slog"

	"git.home.luguber.info/inful/scc/internal/foundation/normalization"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = normalization.NewNormalizer("log level", map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelInfo)

func NormalizeLogLevel(raw string) LogLevel {
	return logLevelNormalizer.Normalize(raw)
}

// SlogLevel maps the level onto slog.
func (l LogLevel) SlogLevel() slog.Level {
	switch NormalizeLogLevel(string(l)) {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormatNormalizer = normalization.NewNormalizer("log format", map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)

func NormalizeLogFormat(raw string) LogFormat {
	return logFormatNormalizer.Normalize(raw)
}

// Target names an output dialect.
type Target string

const (
	TargetHTML     Target = "html"
	TargetJSX      Target = "jsx"
	TargetVue      Target = "vue"
	TargetMarkdown Target = "markdown"
)

var targetNormalizer = normalization.NewNormalizer("render target", map[string]Target{
	"html":     TargetHTML,
	"jsx":      TargetJSX,
	"tsx":      TargetJSX,
	"react":    TargetJSX,
	"vue":      TargetVue,
	"markdown": TargetMarkdown,
	"md":       TargetMarkdown,
}, TargetHTML)

// TargetNames lists every accepted target spelling, aliases included.
func TargetNames() []string {
	return targetNormalizer.ValidKeys()
}

// NormalizeTarget maps a target spelling such as "tsx" onto its canonical name.
func NormalizeTarget(raw string) (Target, error) {
	return targetNormalizer.NormalizeWithError(raw)
}
