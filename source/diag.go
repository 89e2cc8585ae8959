package source

import (
	"context"
	"log/slog"
)

// Severity grades a diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is a structured failure event emitted at the site where an
// adapter swallows an upstream error.
type Diagnostic struct {
	Severity Severity
	Source   string
	Op       string
	Category Category
	Message  string
	Err      error
}

// Reporter receives diagnostics. Report is called synchronously on the
// failing goroutine and must be safe for concurrent use.
type Reporter interface {
	Report(ctx context.Context, d Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context, d Diagnostic)

// Report calls f(ctx, d).
func (f ReporterFunc) Report(ctx context.Context, d Diagnostic) { f(ctx, d) }

// LogReporter writes diagnostics to logger.
func LogReporter(logger *slog.Logger) Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return ReporterFunc(func(ctx context.Context, d Diagnostic) {
		level := slog.LevelError
		if d.Severity == SeverityWarning {
			level = slog.LevelWarn
		}
		attrs := []slog.Attr{
			slog.String("source", d.Source),
			slog.String("op", d.Op),
			slog.String("category", string(d.Category)),
		}
		if d.Err != nil {
			attrs = append(attrs, slog.String("error", d.Err.Error()))
		}
		logger.LogAttrs(ctx, level, d.Message, attrs...)
	})
}

// MultiReporter fans each diagnostic out to every non-nil reporter.
func MultiReporter(reporters ...Reporter) Reporter {
	var rs []Reporter
	for _, r := range reporters {
		if r != nil {
			rs = append(rs, r)
		}
	}
	return ReporterFunc(func(ctx context.Context, d Diagnostic) {
		for _, r := range rs {
			r.Report(ctx, d)
		}
	})
}

// Discard drops every diagnostic.
var Discard Reporter = ReporterFunc(func(context.Context, Diagnostic) {})
