package dvcodec

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Metric instrument names.
const (
	MetricEncoded   = "dvcodec.encoded"
	MetricDecoded   = "dvcodec.decoded"
	MetricErrors    = "dvcodec.errors"
	MetricFrameSize = "dvcodec.frame.size"
)

// Attribute keys
const (
	attrOperation = "dvcodec.operation"
	attrFrame     = "dvcodec.frame"
	attrReason    = "dvcodec.reason"
	attrFields    = "dvcodec.fields"
)

type instruments struct {
	encoded   metric.Int64Counter
	decoded   metric.Int64Counter
	errors    metric.Int64Counter
	frameSize metric.Int64Histogram
}

func newInstruments(meter metric.Meter) (*instruments, error) {
	encoded, err := meter.Int64Counter(MetricEncoded,
		metric.WithDescription("Total number of values encoded"))
	if err != nil {
		return nil, err
	}
	decoded, err := meter.Int64Counter(MetricDecoded,
		metric.WithDescription("Total number of frames decoded"))
	if err != nil {
		return nil, err
	}
	errs, err := meter.Int64Counter(MetricErrors,
		metric.WithDescription("Total number of failed encode and decode calls"))
	if err != nil {
		return nil, err
	}
	frameSize, err := meter.Int64Histogram(MetricFrameSize,
		metric.WithDescription("Size of encoded and decoded frames"),
		metric.WithUnit("By"))
	if err != nil {
		return nil, err
	}
	return &instruments{
		encoded:   encoded,
		decoded:   decoded,
		errors:    errs,
		frameSize: frameSize,
	}, nil
}

// EncodeContext is Encode with metrics and tracing, when enabled.
func (c *Codec) EncodeContext(ctx context.Context, v Value) ([]byte, error) {
	kind := FrameJSON
	if v.Payload.IsBytes() {
		kind = FrameBinary
	}

	ctx, span := c.startSpan(ctx, "dvcodec.encode")
	data, err := c.Encode(v)
	c.record(ctx, span, "encode", kind, len(data), err)
	return data, err
}

// DecodeContext is Decode with metrics and tracing, when enabled.
func (c *Codec) DecodeContext(ctx context.Context, data []byte) (Value, error) {
	ctx, span := c.startSpan(ctx, "dvcodec.decode")
	v, err := c.Decode(data)
	var kind FrameKind
	if err == nil {
		kind = FrameJSON
		if v.Payload.IsBytes() {
			kind = FrameBinary
		}
	}
	c.record(ctx, span, "decode", kind, len(data), err)
	return v, err
}

func (c *Codec) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if c.tracer == nil {
		return ctx, nil
	}
	return c.tracer.Start(ctx, name,
		trace.WithAttributes(attribute.String(attrFields, c.fields.String())),
		trace.WithSpanKind(trace.SpanKindInternal))
}

func (c *Codec) record(ctx context.Context, span trace.Span, op string, kind FrameKind, size int, err error) {
	if span != nil {
		defer span.End()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.String(attrFrame, kind.String()), attribute.Int("dvcodec.size", size))
		}
	}
	if c.inst == nil {
		return
	}

	if err != nil {
		attrs := []attribute.KeyValue{attribute.String(attrOperation, op)}
		if reason := MalformedReason(err); reason != "" {
			attrs = append(attrs, attribute.String(attrReason, reason))
		} else if IsInvalidDiscriminator(err) {
			attrs = append(attrs, attribute.String(attrReason, "invalid discriminator"))
		} else {
			attrs = append(attrs, attribute.String(attrReason, "json"))
		}
		c.inst.errors.Add(ctx, 1, metric.WithAttributes(attrs...))
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrFrame, kind.String()))
	if op == "encode" {
		c.inst.encoded.Add(ctx, 1, attrs)
	} else {
		c.inst.decoded.Add(ctx, 1, attrs)
	}
	c.inst.frameSize.Record(ctx, int64(size), metric.WithAttributes(
		attribute.String(attrOperation, op), attribute.String(attrFrame, kind.String())))
}
