// Package obs records runs of the sentiment pipeline: a named root span per
// run, nested stage spans with entry parameters and duration metrics, and
// text/JSON artifacts written under a per-run directory.
package obs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"market-sentiment/internal/logger"
	"market-sentiment/internal/trace"
)

// Run is one pipeline invocation's observability scope. Not safe for
// concurrent use; each invocation owns its own Run.
type Run struct {
	name string
	dir  string
	span oteltrace.Span
	ctx  context.Context
}

// StartRun opens a run span and creates the artifact directory under
// baseDir. An empty baseDir disables artifact files (params, metrics and
// spans still work), which keeps tests and artifact-less deployments quiet.
func StartRun(ctx context.Context, baseDir, name string) (*Run, error) {
	ctx, span := trace.StartSpan(ctx, "run:"+name)

	var dir string
	if baseDir != "" {
		dir = filepath.Join(baseDir, fmt.Sprintf("%s-%s", time.Now().UTC().Format("20060102-150405"), sanitize(name)))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			span.End()
			return nil, fmt.Errorf("failed to create run directory: %w", err)
		}
	}

	logger.Info(ctx, "Run started", "run", name, "artifacts", dir)
	return &Run{name: name, dir: dir, span: span, ctx: ctx}, nil
}

// Context returns the context carrying the run span.
func (r *Run) Context() context.Context {
	return r.ctx
}

// Dir returns the artifact directory, empty when artifacts are disabled.
func (r *Run) Dir() string {
	return r.dir
}

// End closes the run span. Safe to defer; runs always close even when a
// stage fails.
func (r *Run) End() {
	r.span.End()
}

// Span opens a named stage span with string parameters attached on entry.
// The returned end function records the stage duration, marks the span
// failed when err is non-nil, and closes it. Callers defer it so the span
// closes before any error propagates.
func (r *Run) Span(ctx context.Context, name string, params map[string]string) (context.Context, func(err error)) {
	ctx, span := trace.StartSpan(ctx, name)
	attrs := make([]attribute.KeyValue, 0, len(params))
	for k, v := range params {
		attrs = append(attrs, attribute.String(name+"."+k, v))
	}
	span.SetAttributes(attrs...)

	start := time.Now()
	return ctx, func(err error) {
		span.SetAttributes(attribute.Int64(name+".duration_ms", time.Since(start).Milliseconds()))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "completed")
		}
		span.End()
	}
}

// LogParams attaches string parameters to the run span and the log stream.
func (r *Run) LogParams(params map[string]string) {
	attrs := make([]attribute.KeyValue, 0, len(params))
	fields := make([]any, 0, 2*len(params))
	for k, v := range params {
		attrs = append(attrs, attribute.String(k, v))
		fields = append(fields, k, v)
	}
	r.span.SetAttributes(attrs...)
	logger.Debug(r.ctx, "Run params", fields...)
}

// LogMetric records a numeric metric on the run span.
func (r *Run) LogMetric(name string, value float64) {
	r.span.SetAttributes(attribute.Float64(name, value))
	logger.Debug(r.ctx, "Run metric", "name", name, "value", value)
}

// LogText writes a text artifact at the given run-relative path.
func (r *Run) LogText(path, content string) error {
	return r.write(path, []byte(content))
}

// LogDict writes a JSON artifact at the given run-relative path.
func (r *Run) LogDict(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal artifact %s: %w", path, err)
	}
	return r.write(path, data)
}

func (r *Run) write(path string, data []byte) error {
	if r.dir == "" {
		return nil
	}
	full := filepath.Join(r.dir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", path, err)
	}
	return nil
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
