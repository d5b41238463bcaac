package driver

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("netrepair.driver")
	meter  = otel.Meter("netrepair.driver")
)

var (
	solveLatency metric.Float64Histogram
	solveTotal   metric.Int64Counter
	answersFound metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		solveLatency, err = meter.Float64Histogram(
			"solver_duration_seconds",
			metric.WithDescription("Duration of solver calls"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		solveTotal, err = meter.Int64Counter(
			"solver_runs_total",
			metric.WithDescription("Total number of solver calls"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		answersFound, err = meter.Int64Histogram(
			"solver_answers",
			metric.WithDescription("Number of answers printed per solver call"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func startSolveSpan(ctx context.Context, solver string, programBytes int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "solver.solve",
		trace.WithAttributes(
			attribute.String("solver.name", solver),
			attribute.Int("solver.program_bytes", programBytes),
		),
	)
}

func setSolveSpanResult(span trace.Span, out string, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetAttributes(
		attribute.Int("solver.answers", countAnswers(out)),
		attribute.String("solver.status", lastStatus(out)),
	)
}

func recordSolveMetrics(ctx context.Context, solver string, duration time.Duration, out string, err error) {
	if initMetrics() != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("solver", solver),
		attribute.Bool("success", err == nil),
	)
	solveLatency.Record(ctx, duration.Seconds(), attrs)
	solveTotal.Add(ctx, 1, attrs)
	if err == nil {
		answersFound.Record(ctx, int64(countAnswers(out)), metric.WithAttributes(
			attribute.String("solver", solver),
			attribute.String("status", lastStatus(out)),
		))
	}
}

func countAnswers(out string) int {
	return strings.Count(out, "Answer:")
}

func lastStatus(out string) string {
	status := "none"
	for _, line := range strings.Split(out, "\n") {
		switch s := strings.TrimSpace(line); s {
		case "SATISFIABLE", "UNSATISFIABLE", "OPTIMUM FOUND", "UNKNOWN":
			status = s
		}
	}
	return status
}
