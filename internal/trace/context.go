package trace

import "context"

type ctxKey struct{}

// carrier is the context value: the tracer and the innermost open span.
type carrier struct {
	t    Tracer
	span uint64
}

func carrierOf(ctx context.Context) carrier {
	if ctx != nil {
		if c, ok := ctx.Value(ctxKey{}).(carrier); ok {
			return c
		}
	}
	return carrier{t: Nop}
}

// WithTracer attaches t to ctx, resetting the current span.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, carrier{t: t})
}

// FromContext returns the attached tracer, or Nop.
func FromContext(ctx context.Context) Tracer {
	return carrierOf(ctx).t
}

// WithSpan makes span the parent of spans started from the returned context.
// Disabled spans leave ctx unchanged.
func WithSpan(ctx context.Context, span *Span) context.Context {
	if span.ID() == 0 {
		return ctx
	}
	c := carrierOf(ctx)
	c.span = span.ID()
	return context.WithValue(ctx, ctxKey{}, c)
}

// CurrentSpan returns the innermost span id attached to ctx, or zero.
func CurrentSpan(ctx context.Context) uint64 {
	return carrierOf(ctx).span
}
