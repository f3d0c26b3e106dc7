package odbc

import "github.com/rs/zerolog"

// Logger is the narrow logging surface the core needs: one line per
// swallowed-error or policy-decision event (effective-version downgrade,
// close-path failures tolerated per spec §4.4 Close path, a handle kept
// alive after a failed Free per spec §4.2). Modeled as an interface
// rather than a concrete *zerolog.Logger field so a host application can
// substitute anything satisfying it without this package importing more
// than zerolog for the default.
type Logger interface {
	Warn(msg string, fields map[string]any)
	Debug(msg string, fields map[string]any)
}

// nopLogger is the default: a reusable library must never force output
// onto a host program (SPEC_FULL §2.3).
type nopLogger struct{}

func (nopLogger) Warn(string, map[string]any)  {}
func (nopLogger) Debug(string, map[string]any) {}

// ZerologAdapter wraps a zerolog.Logger to satisfy Logger, for callers
// who do want the core's diagnostics folded into their own structured
// log stream.
type ZerologAdapter struct {
	Base zerolog.Logger
}

func (z ZerologAdapter) Warn(msg string, fields map[string]any) {
	ev := z.Base.Warn()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

func (z ZerologAdapter) Debug(msg string, fields map[string]any) {
	ev := z.Base.Debug()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}
