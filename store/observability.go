package store

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/arllen133/recipes/store"

const defaultSlowQueryThreshold = 200 * time.Millisecond

// observability is the per-session instrumentation state. Every field is
// optional; a zero value records nothing.
type observability struct {
	logger        *slog.Logger
	tracer        trace.Tracer
	instruments   *instruments
	slowThreshold time.Duration
	logQueries    bool
}

type instruments struct {
	count    metric.Int64Counter
	duration metric.Float64Histogram
	errors   metric.Int64Counter
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithLogger sets the logger for failed, slow and (optionally) all statements.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) { s.obs.logger = logger }
}

// WithTracer emits one client span per statement.
func WithTracer(tracer trace.Tracer) SessionOption {
	return func(s *Session) { s.obs.tracer = tracer }
}

// WithDefaultTracer uses the global OpenTelemetry tracer provider.
func WithDefaultTracer() SessionOption {
	return WithTracer(otel.Tracer(instrumentationName))
}

// WithMeter records statement counts, durations and failures.
func WithMeter(meter metric.Meter) SessionOption {
	return func(s *Session) { s.obs.instruments = newInstruments(meter) }
}

// WithDefaultMeter uses the global OpenTelemetry meter provider.
func WithDefaultMeter() SessionOption {
	return WithMeter(otel.Meter(instrumentationName))
}

// WithSlowQueryThreshold sets the duration above which a statement is
// logged as slow. Non-positive values keep the default.
func WithSlowQueryThreshold(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.obs.slowThreshold = d
		}
	}
}

// WithQueryLogging logs every statement with its SQL text at debug level.
func WithQueryLogging(enabled bool) SessionOption {
	return func(s *Session) { s.obs.logQueries = enabled }
}

func newInstruments(meter metric.Meter) *instruments {
	count, _ := meter.Int64Counter("store.query.count",
		metric.WithDescription("Total number of SQL statements executed"),
		metric.WithUnit("{query}"),
	)
	duration, _ := meter.Float64Histogram("store.query.duration",
		metric.WithDescription("Statement execution duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000),
	)
	failures, _ := meter.Int64Counter("store.query.errors",
		metric.WithDescription("Total number of failed SQL statements"),
		metric.WithUnit("{error}"),
	)
	return &instruments{count: count, duration: duration, errors: failures}
}

// statement is the instrumentation of one SQL statement in flight.
type statement struct {
	session   *Session
	operation string
	query     string
	span      trace.Span
	start     time.Time
}

// instrument opens a span for query and starts its clock. The returned
// statement must be finished with done.
func (s *Session) instrument(ctx context.Context, operation, query string) (context.Context, *statement) {
	st := &statement{
		session:   s,
		operation: operation,
		query:     query,
		span:      noop.Span{},
	}
	if s.obs.tracer != nil {
		ctx, st.span = s.obs.tracer.Start(ctx, "store."+operation,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("db.system", s.dialect.Name()),
				attribute.String("db.statement", query),
			),
		)
	}
	st.start = time.Now()
	return ctx, st
}

// done ends the span, records metrics and logs the outcome. sql.ErrNoRows
// is an empty result, not a failure.
func (st *statement) done(ctx context.Context, err error) {
	duration := time.Since(st.start)
	defer st.span.End()

	if errors.Is(err, sql.ErrNoRows) {
		err = nil
	}
	if err != nil {
		st.span.RecordError(err)
		st.span.SetStatus(codes.Error, err.Error())
	}

	obs := st.session.obs
	if m := obs.instruments; m != nil {
		attrs := metric.WithAttributes(
			attribute.String("db.operation", st.operation),
			attribute.String("db.system", st.session.dialect.Name()),
		)
		m.count.Add(ctx, 1, attrs)
		m.duration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
		if err != nil {
			m.errors.Add(ctx, 1, attrs)
		}
	}

	if obs.logger == nil {
		return
	}
	attrs := []slog.Attr{
		slog.String("operation", st.operation),
		slog.Duration("duration", duration),
	}
	if obs.logQueries {
		attrs = append(attrs, slog.String("query", st.query))
	}
	switch {
	case err != nil:
		obs.logger.LogAttrs(ctx, slog.LevelError, "query failed", append(attrs, slog.String("error", err.Error()))...)
	case duration > obs.slowThreshold:
		obs.logger.LogAttrs(ctx, slog.LevelWarn, "slow query", attrs...)
	case obs.logQueries:
		obs.logger.LogAttrs(ctx, slog.LevelDebug, "query executed", attrs...)
	}
}
