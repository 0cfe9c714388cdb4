package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyVersion    = "version"
	KeyRule       = "rule"
	KeySource     = "source"
	KeyDest       = "dest"
	KeyProfile    = "profile"
	KeyDocument   = "document"
	KeyPath       = "path"
	KeyRunID      = "run_id"
	KeyRequestID  = "request_id"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyUserAgent  = "user_agent"
	KeyRemoteAddr = "remote_addr"
	KeyDurationMS = "duration_ms"
	KeyFiles      = "files"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Version(v string) slog.Attr      { return slog.String(KeyVersion, v) }
func Rule(name string) slog.Attr      { return slog.String(KeyRule, name) }
func Source(p string) slog.Attr       { return slog.String(KeySource, p) }
func Dest(p string) slog.Attr         { return slog.String(KeyDest, p) }
func Profile(name string) slog.Attr   { return slog.String(KeyProfile, name) }
func Document(name string) slog.Attr  { return slog.String(KeyDocument, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func RequestID(id string) slog.Attr   { return slog.String(KeyRequestID, id) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func UserAgent(ua string) slog.Attr   { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(a string) slog.Attr   { return slog.String(KeyRemoteAddr, a) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Files(n int) slog.Attr           { return slog.Int(KeyFiles, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
