package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/scc/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when no -c flag is given.
const DefaultPath = "scc.yaml"

// Config represents the scc configuration file.
type Config struct {
	Version    string            `yaml:"version,omitempty"`
	Parser     ParserConfig      `yaml:"parser"`
	Render     RenderConfig      `yaml:"render"`
	Transforms []TransformConfig `yaml:"transforms,omitempty"`
	Logging    LoggingConfig     `yaml:"logging"`
	Watch      WatchConfig       `yaml:"watch"`
	Cache      CacheConfig       `yaml:"cache"`
	Metrics    MetricsConfig     `yaml:"metrics"`
}

// ParserConfig controls how sources are read.
type ParserConfig struct {
	MaxNesting int `yaml:"max_nesting,omitempty"`
	// Normalize applies Unicode NFC before parsing. Defaults to true.
	Normalize *bool `yaml:"normalize,omitempty"`
}

// NormalizeEnabled reports whether NFC normalization is on.
func (p ParserConfig) NormalizeEnabled() bool {
	return p.Normalize == nil || *p.Normalize
}

// RenderConfig selects and tunes the output dialect.
type RenderConfig struct {
	Target Target     `yaml:"target,omitempty"`
	HTML   HTMLConfig `yaml:"html"`
	JSX    JSXConfig  `yaml:"jsx"`
}

// HTMLConfig holds options shared by the markup renderers.
type HTMLConfig struct {
	HeadingIDs  bool   `yaml:"heading_ids"`
	ClassPrefix string `yaml:"class_prefix,omitempty"`
}

// JSXConfig holds options of the JSX renderer.
type JSXConfig struct {
	ComponentName string `yaml:"component_name,omitempty"`
}

// TransformConfig names one transform in pipeline order with its options.
type TransformConfig struct {
	Name    string         `yaml:"name"`
	Options map[string]any `yaml:"options,omitempty"`
}

// UnmarshalYAML accepts either a bare name or a mapping.
func (t *TransformConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		t.Name = value.Value
		return nil
	}
	type plain TransformConfig
	return value.Decode((*plain)(t))
}

// LoggingConfig controls the slog handler installed by the CLI.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// WatchConfig controls `scc watch`.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce,omitempty"`
	// Addr serves the latest output and /metrics when set, e.g. "127.0.0.1:1314".
	Addr string `yaml:"addr,omitempty"`
}

// CacheConfig configures the SQLite render cache. An empty path disables it.
type CacheConfig struct {
	Path string `yaml:"path,omitempty"`
}

// MetricsConfig enables Prometheus instrumentation.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// Load reads the configuration at path. A missing file is not an error when
// optional is true; defaults are returned instead. Environment files are
// loaded first so ${VAR} references in the YAML resolve against them.
func Load(path string, optional bool) (*Config, error) {
	loadEnvFiles()

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse config").
				WithContext("path", path).
				Fatal().
				Build()
		}
	case optional && stderrors.Is(err, fs.ErrNotExist):
	case stderrors.Is(err, fs.ErrNotExist):
		return nil, errors.NewError(errors.CategoryNotFound, "configuration file not found").
			WithContext("path", path).
			Fatal().
			Build()
	default:
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read config").
			WithContext("path", path).
			Build()
	}

	applyEnvOverrides(cfg)
	if err := ApplyDefaults(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	_ = ApplyDefaults(cfg)
	return cfg
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ValidationError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", path)).Build()
	}

	example := Default()
	example.Transforms = []TransformConfig{
		{Name: "strip_first_heading"},
		{Name: "heading_offset", Options: map[string]any{"offset": 1}},
	}
	example.Cache.Path = ".scc/cache.db"

	data, err := yaml.Marshal(example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal example config").Build()
	}
	header := "# scc configuration\n# Values may reference environment variables as ${VAR}.\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config").
			WithContext("path", path).
			Build()
	}
	return nil
}
