package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/scc/internal/foundation/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("missing.yaml", true)
	require.NoError(t, err)

	assert.Equal(t, DefaultMaxNesting, cfg.Parser.MaxNesting)
	assert.True(t, cfg.Parser.NormalizeEnabled())
	assert.Equal(t, TargetHTML, cfg.Render.Target)
	assert.Equal(t, DefaultComponentName, cfg.Render.JSX.ComponentName)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.Equal(t, DefaultDebounce, cfg.Watch.Debounce)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Empty(t, cfg.Cache.Path)
}

func TestLoad_MissingRequiredFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load("missing.yaml", false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestLoad_File(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
parser:
  max_nesting: 8
  normalize: false
render:
  target: tsx
  html:
    heading_ids: true
    class_prefix: doc-
  jsx:
    component_name: Page
transforms:
  - strip_first_heading
  - name: heading_offset
    options:
      offset: 2
logging:
  level: debug
  format: json
watch:
  debounce: 150ms
  addr: 127.0.0.1:1314
cache:
  path: .scc/cache.db
metrics:
  enabled: true
`)
	cfg, err := Load(path, false)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Parser.MaxNesting)
	assert.False(t, cfg.Parser.NormalizeEnabled())
	assert.Equal(t, TargetJSX, cfg.Render.Target)
	assert.True(t, cfg.Render.HTML.HeadingIDs)
	assert.Equal(t, "doc-", cfg.Render.HTML.ClassPrefix)
	assert.Equal(t, "Page", cfg.Render.JSX.ComponentName)
	require.Len(t, cfg.Transforms, 2)
	assert.Equal(t, TransformConfig{Name: "strip_first_heading"}, cfg.Transforms[0])
	assert.Equal(t, "heading_offset", cfg.Transforms[1].Name)
	assert.Equal(t, 2, cfg.Transforms[1].Options["offset"])
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
	assert.Equal(t, 150*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, "127.0.0.1:1314", cfg.Watch.Addr)
	assert.Equal(t, ".scc/cache.db", cfg.Cache.Path)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_ExpandsEnvAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SCC_TEST_PREFIX=from-dotenv-\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("SCC_TEST_PREFIX") })

	path := writeConfig(t, "render:\n  html:\n    class_prefix: ${SCC_TEST_PREFIX}\n")
	cfg, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv-", cfg.Render.HTML.ClassPrefix)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvLogLevel, "ERROR")
	t.Setenv(EnvCachePath, "/tmp/scc.db")

	path := writeConfig(t, "logging:\n  level: debug\ncache:\n  path: other.db\n")
	cfg, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, LogLevel("ERROR"), cfg.Logging.Level)
	assert.Equal(t, slog.LevelError, cfg.Logging.Level.SlogLevel())
	assert.Equal(t, "/tmp/scc.db", cfg.Cache.Path)
}

func TestLoad_ValidationErrors(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
parser:
  max_nesting: 1000
render:
  target: pdf
logging:
  format: xml
transforms:
  - ""
  - heading_offset
  - shout
metrics:
  path: metrics
`)
	_, err := Load(path, false)
	require.Error(t, err)
	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, errors.CategoryConfig, classified.Category())

	fields, _ := classified.Context().Get("fields")
	assert.Equal(t, []string{"parser.max_nesting", "render.target", "logging.format", "transforms[0]", "transforms[2]", "metrics.path"}, fields)
	assert.Contains(t, classified.Message(), `invalid render target "pdf"`)
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, "parser: [unclosed\n")
	_, err := Load(path, false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestInit(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "scc.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path, false)
	require.NoError(t, err)
	require.Len(t, cfg.Transforms, 2)
	assert.Equal(t, 1, cfg.Transforms[1].Options["offset"])
	assert.Equal(t, DefaultDebounce, cfg.Watch.Debounce)

	err = Init(path, false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	require.NoError(t, Init(path, true))
}

func TestNormalizers(t *testing.T) {
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel(" Warning "))
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat("JSON"))

	assert.Equal(t, []string{"html", "jsx", "markdown", "md", "react", "tsx", "vue"}, TargetNames())

	target, err := NormalizeTarget("React")
	require.NoError(t, err)
	assert.Equal(t, TargetJSX, target)
	target, err = NormalizeTarget("")
	require.NoError(t, err)
	assert.Equal(t, TargetHTML, target)
}
