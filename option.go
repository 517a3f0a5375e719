package dvcodec

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// DefaultName is the instrumentation scope name used when WithName is not set.
var DefaultName = "dvcodec"

// options holds configuration for a Codec (unexported)
type options struct {
	fields         Fields
	name           string
	useNumber      bool
	metricsEnabled bool
	tracingEnabled bool
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	logger         *slog.Logger
}

func newOptions() *options {
	return &options{
		fields: DefaultFields(),
		name:   DefaultName,
		logger: slog.Default(),
	}
}

// Option option function for codec configuration
type Option func(*options)

// WithFields sets the discriminator and payload field names.
func WithFields(f Fields) Option {
	return func(o *options) {
		o.fields = f
	}
}

// WithFieldNames sets the discriminator and payload field names.
func WithFieldNames(discriminator, payload string) Option {
	return WithFields(Fields{Discriminator: discriminator, Payload: payload})
}

// WithName sets the instrumentation scope name for metrics and traces.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithUseNumber decodes JSON numbers in payloads as json.Number instead
// of float64.
func WithUseNumber(enabled bool) Option {
	return func(o *options) {
		o.useNumber = enabled
	}
}

// WithMetrics enables/disables OpenTelemetry metrics in EncodeContext
// and DecodeContext. Default is false.
func WithMetrics(enabled bool) Option {
	return func(o *options) {
		o.metricsEnabled = enabled
	}
}

// WithTracing enables/disables OpenTelemetry spans in EncodeContext
// and DecodeContext. Default is false.
func WithTracing(enabled bool) Option {
	return func(o *options) {
		o.tracingEnabled = enabled
	}
}

// WithMeterProvider sets the meter provider and enables metrics.
// The global provider is used otherwise.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		if mp != nil {
			o.meterProvider = mp
			o.metricsEnabled = true
		}
	}
}

// WithTracerProvider sets the tracer provider and enables tracing.
// The global provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		if tp != nil {
			o.tracerProvider = tp
			o.tracingEnabled = true
		}
	}
}

// WithLogger sets the logger for the codec
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func (o *options) meter() metric.Meter {
	mp := o.meterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	return mp.Meter(o.name)
}

func (o *options) tracer() trace.Tracer {
	tp := o.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(o.name)
}
