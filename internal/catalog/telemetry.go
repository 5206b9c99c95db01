package catalog

import (
	"context"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "speedwaymoto.fr/storefront-web/catalog"

// Telemetry holds the tracer and instruments of catalog fetches.
type Telemetry struct {
	tracer        trace.Tracer
	fetchCount    metric.Int64Counter
	fetchErrors   metric.Int64Counter
	fetchDuration metric.Float64Histogram
	cacheHits     metric.Int64Counter
}

// NewTelemetry creates instruments from the given providers. Nil providers
// fall back to the otel globals.
func NewTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) *Telemetry {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName)
	t := &Telemetry{tracer: tp.Tracer(instrumentationName)}

	var err error
	t.fetchCount, err = meter.Int64Counter(
		"catalog.fetch.count",
		metric.WithDescription("Catalog documents fetched"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		t.fetchCount, _ = meter.Int64Counter("catalog.fetch.count")
	}
	t.fetchErrors, err = meter.Int64Counter(
		"catalog.fetch.errors",
		metric.WithDescription("Catalog fetches that failed"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		t.fetchErrors, _ = meter.Int64Counter("catalog.fetch.errors")
	}
	t.fetchDuration, err = meter.Float64Histogram(
		"catalog.fetch.duration",
		metric.WithDescription("Duration of catalog fetches in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		t.fetchDuration, _ = meter.Float64Histogram("catalog.fetch.duration")
	}
	t.cacheHits, err = meter.Int64Counter(
		"catalog.snapshot.hits",
		metric.WithDescription("Catalog lists served from the snapshot"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		t.cacheHits, _ = meter.Int64Counter("catalog.snapshot.hits")
	}
	return t
}

var defaultTelemetry = NewTelemetry(nil, nil)

// fetchSpan tracks one fetch across the trace span, the metrics and the
// response's Server-Timing header.
type fetchSpan struct {
	t      *Telemetry
	span   trace.Span
	timing *servertiming.Metric
	attrs  metric.MeasurementOption
	start  time.Time
}

func (t *Telemetry) startFetch(ctx context.Context, cat Category, mode string) (context.Context, *fetchSpan) {
	attrs := []attribute.KeyValue{
		attribute.String("catalog.category", string(cat)),
		attribute.String("catalog.mode", mode),
	}
	ctx, span := t.tracer.Start(ctx, "catalog.fetch", trace.WithAttributes(attrs...))
	fs := &fetchSpan{t: t, span: span, attrs: metric.WithAttributes(attrs...), start: time.Now()}
	if timing := servertiming.FromContext(ctx); timing != nil {
		fs.timing = timing.NewMetric("catalog-" + string(cat)).WithDesc("catalog fetch").Start()
	}
	return ctx, fs
}

func (fs *fetchSpan) end(ctx context.Context, records int, err error) {
	if fs.timing != nil {
		fs.timing.Stop()
	}
	ms := float64(time.Since(fs.start).Microseconds()) / 1000
	fs.t.fetchCount.Add(ctx, 1, fs.attrs)
	fs.t.fetchDuration.Record(ctx, ms, fs.attrs)
	if err != nil {
		fs.t.fetchErrors.Add(ctx, 1, fs.attrs)
		fs.span.RecordError(err)
		fs.span.SetStatus(codes.Error, err.Error())
	} else {
		fs.span.SetAttributes(attribute.Int("catalog.records", records))
		fs.span.SetStatus(codes.Ok, "")
	}
	fs.span.End()
}

func (t *Telemetry) snapshotHit(ctx context.Context, cat Category) {
	t.cacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("catalog.category", string(cat))))
}
