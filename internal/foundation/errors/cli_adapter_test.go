package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("invalid input").Build(), expected: 2},
		{name: "parse", err: ParseError("bad markup").Build(), expected: 3},
		{name: "not found", err: NewError(CategoryNotFound, "no such file").Build(), expected: 4},
		{name: "config", err: ConfigError("bad config").Build(), expected: 7},
		{name: "render", err: RenderError("unsupported node").Build(), expected: 11},
		{name: "filesystem", err: FileSystemError("write failed").Build(), expected: 11},
		{name: "internal", err: InternalError("bug").Build(), expected: 10},
		{name: "runtime", err: RuntimeError("watcher died").Build(), expected: 12},
		{name: "wrapped parse", err: fmt.Errorf("run: %w", ParseError("x").Build()), expected: 3},
		{name: "unclassified error", err: &customError{msg: "unknown error"}, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adapter.ExitCodeFor(tt.err)
			if got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{name: "nil error", err: nil, contains: ""},
		{
			name:     "internal error in non-verbose mode",
			err:      InternalError("internal issue").Build(),
			contains: "Internal error occurred",
		},
		{
			name:     "parse error shows position",
			err:      WrapError(stderrors.New("3:1: unterminated construct link"), CategoryParse, "parse failed").Build(),
			contains: "parse failed: 3:1: unterminated construct link",
		},
		{
			name:     "path context",
			err:      ConfigError("cannot read config").WithContext("path", "scc.yaml").Build(),
			contains: "cannot read config (scc.yaml)",
		},
		{
			name:     "unclassified error",
			err:      &customError{msg: "test error"},
			contains: "Error: test error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adapter.FormatError(tt.err)
			if tt.contains == "" && got != "" {
				t.Errorf("FormatError() = %q, want empty", got)
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("FormatError() = %q, want to contain %q", got, tt.contains)
			}
		})
	}
}

func TestCLIErrorAdapter_VerboseShowsFullError(t *testing.T) {
	adapter := NewCLIErrorAdapter(true, slog.Default())
	got := adapter.FormatError(InternalError("internal issue").Build())
	if got != "[internal:fatal] internal issue" {
		t.Errorf("FormatError() = %q", got)
	}
}

func TestCLIErrorAdapter_LogsContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	adapter := NewCLIErrorAdapter(false, logger)

	err := WrapError(stderrors.New("disk full"), CategoryFileSystem, "write output").
		WithContext("path", "out.html").
		Fatal().
		Build()
	if !adapter.shouldLog(err) {
		t.Fatal("fatal errors should be logged")
	}
	adapter.logError(err)

	out := buf.String()
	for _, want := range []string{"write output", "category=filesystem", "path=out.html", "retryable=true", `error="disk full"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
	if adapter.shouldLog(ParseError("x").Build()) {
		t.Error("non-fatal errors should not be logged in quiet mode")
	}
}

type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}
