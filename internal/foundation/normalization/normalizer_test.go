package normalization

import (
	"log/slog"
	"testing"
)

func levels() *Normalizer[slog.Level] {
	return NewNormalizer("log level", map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}, slog.LevelInfo)
}

func TestNormalizer_Normalize(t *testing.T) {
	n := levels()

	tests := []struct {
		name     string
		input    string
		expected slog.Level
	}{
		{"exact match", "debug", slog.LevelDebug},
		{"case insensitive", "ERROR", slog.LevelError},
		{"with spaces", "  warn  ", slog.LevelWarn},
		{"alias", "Warning", slog.LevelWarn},
		{"empty", "", slog.LevelInfo},
		{"invalid input", "loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizer_WithError(t *testing.T) {
	n := levels()

	got, err := n.NormalizeWithError(" DEBUG ")
	if err != nil || got != slog.LevelDebug {
		t.Errorf("NormalizeWithError(valid) = %v, %v", got, err)
	}

	got, err = n.NormalizeWithError("")
	if err != nil || got != slog.LevelInfo {
		t.Errorf("NormalizeWithError(empty) = %v, %v", got, err)
	}

	_, err = n.NormalizeWithError("loud")
	if err == nil {
		t.Fatal("NormalizeWithError(invalid) should return error")
	}
	want := `invalid log level "loud", valid options: [debug error info warn warning]`
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestNormalizer_ValidKeysIsCopy(t *testing.T) {
	n := levels()
	keys := n.ValidKeys()
	keys[0] = "changed"
	if n.ValidKeys()[0] != "debug" {
		t.Error("ValidKeys exposed internal slice")
	}
}
