package errors

import (
	"encoding/json"
	stdErrors "errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPErrorAdapter_StatusCodeFor(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: http.StatusOK},
		{name: "validation", err: ValidationError("invalid input").Build(), expected: http.StatusBadRequest},
		{name: "not found", err: NewError(CategoryNotFound, "missing").Build(), expected: http.StatusNotFound},
		{name: "parse", err: ParseError("bad markup").Build(), expected: http.StatusUnprocessableEntity},
		{name: "render", err: RenderError("no jsx form").Build(), expected: http.StatusUnprocessableEntity},
		{name: "filesystem", err: FileSystemError("read failed").Build(), expected: http.StatusInternalServerError},
		{name: "runtime", err: RuntimeError("stopping").Build(), expected: http.StatusServiceUnavailable},
		{name: "unclassified error", err: &customHTTPError{msg: "unknown error"}, expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adapter.StatusCodeFor(tt.err)
			if got != tt.expected {
				t.Errorf("StatusCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHTTPErrorAdapter_WriteErrorResponse(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.Default())

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{name: "nil error", err: nil, expectedStatus: http.StatusOK},
		{
			name:           "parse error",
			err:            ParseError("parse failed").WithContext("path", "a.md").Build(),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "parse",
		},
		{
			name:           "plain error",
			err:            stdErrors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/preview", nil)
			rec := httptest.NewRecorder()

			adapter.WriteErrorResponse(rec, req, tt.err)

			if rec.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.expectedStatus)
			}
			if tt.err == nil {
				return
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			var resp HTTPErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid JSON body: %v", err)
			}
			if resp.Code != tt.expectedCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.expectedCode)
			}
		})
	}
}

func TestHTTPErrorAdapter_FormatErrorResponse(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.Default())

	resp := adapter.FormatErrorResponse(ParseError("parse failed").WithContext("path", "a.md").Build())
	if resp.Error != "parse failed" {
		t.Errorf("Error = %q", resp.Error)
	}
	if !resp.Retryable {
		t.Error("user-action errors are reported as retryable")
	}
	if resp.Details["path"] != "a.md" {
		t.Errorf("Details = %v", resp.Details)
	}

	plain := adapter.FormatErrorResponse(&customHTTPError{msg: "x"})
	if plain.Error != "x" || plain.Code != "" {
		t.Errorf("unexpected plain payload %+v", plain)
	}
}

type customHTTPError struct {
	msg string
}

func (e *customHTTPError) Error() string {
	return e.msg
}
