// Package observability provides OpenTelemetry tracing and metrics helpers.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("okreq"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanHTTPRequest)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("okreq"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewClientMetrics(observability.Meter("okreq"))
//	metrics.RecordRequestEnd(ctx, "GET", 200, "h2", elapsed)
//
// Telemetry wraps both providers as a component.Component.
package observability
