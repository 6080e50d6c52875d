package cache

import (
	"context"
	"errors"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "rezeptbox/internal/cache"

// TracedCache records a span around every read and write of the inner backend.
type TracedCache struct {
	inner  Cache
	tracer trace.Tracer
}

var _ Cache = (*TracedCache)(nil)
var _ Readyable = (*TracedCache)(nil)

func WithTracing(inner Cache, tp trace.TracerProvider) *TracedCache {
	return &TracedCache{inner: inner, tracer: tp.Tracer(tracerName)}
}

func (t *TracedCache) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	ctx, span := t.tracer.Start(ctx, "cache.Get", trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()
	rc, err := t.inner.Get(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		span.SetAttributes(attribute.Bool("cache.miss", true))
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return rc, err
}

func (t *TracedCache) Put(ctx context.Context, key string, value []byte) error {
	ctx, span := t.tracer.Start(ctx, "cache.Put", trace.WithAttributes(
		attribute.String("cache.key", key),
		attribute.Int("cache.bytes", len(value)),
	))
	defer span.End()
	err := t.inner.Put(ctx, key, value)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (t *TracedCache) Ready(ctx context.Context) error {
	ctx, span := t.tracer.Start(ctx, "cache.Ready")
	defer span.End()
	err := ready(ctx, t.inner)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
