package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPath       = "path"
	KeyTarget     = "target"
	KeyRunID      = "run_id"
	KeyDurationMS = "duration_ms"
	KeyBytes      = "bytes"
	KeyTransform  = "transform"
	KeyCacheHit   = "cache_hit"
	KeyEvent      = "event"
	KeyAddr       = "addr"
	KeyStatus     = "status"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Target(t string) slog.Attr       { return slog.String(KeyTarget, t) }
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Bytes(n int) slog.Attr           { return slog.Int(KeyBytes, n) }
func Transform(name string) slog.Attr { return slog.String(KeyTransform, name) }
func CacheHit(hit bool) slog.Attr     { return slog.Bool(KeyCacheHit, hit) }
func Event(op string) slog.Attr       { return slog.String(KeyEvent, op) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }

// Since reports the elapsed time from start in milliseconds.
func Since(start time.Time) slog.Attr {
	return DurationMS(float64(time.Since(start).Microseconds()) / 1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
