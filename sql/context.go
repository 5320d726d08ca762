package sql

import (
	"context"

	opentracing "github.com/opentracing/opentracing-go"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

// Context carries the per-analysis state every pass receives: the
// standard context, a tracer for per-pass spans, a logger and the id
// and text of the query being analyzed.
type Context struct {
	context.Context
	id     uuid.UUID
	query  string
	tracer opentracing.Tracer
	logger *logrus.Entry
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithQuery sets the query text on the context.
func WithQuery(query string) ContextOption {
	return func(ctx *Context) {
		ctx.query = query
	}
}

// WithTracer sets the tracer used to create analysis spans.
func WithTracer(t opentracing.Tracer) ContextOption {
	return func(ctx *Context) {
		ctx.tracer = t
	}
}

// WithLogger sets the logger used by the analyzer.
func WithLogger(l *logrus.Entry) ContextOption {
	return func(ctx *Context) {
		ctx.logger = l
	}
}

// NewContext creates a Context from a parent context.Context.
func NewContext(ctx context.Context, opts ...ContextOption) *Context {
	c := &Context{
		Context: ctx,
		tracer:  opentracing.NoopTracer{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logrus.StandardLogger().WithField("query", c.query)
	}

	c.id = uuid.NewV4()

	return c
}

// NewEmptyContext returns a default Context, mostly useful in tests.
func NewEmptyContext() *Context {
	return NewContext(context.TODO())
}

// ID returns the unique id of the query being analyzed.
func (c *Context) ID() uuid.UUID { return c.id }

// Query returns the query text, if any was set.
func (c *Context) Query() string { return c.query }

// Logger returns the context logger.
func (c *Context) Logger() *logrus.Entry { return c.logger }

// WithContext returns a copy of this Context with the underlying
// context.Context replaced.
func (c *Context) WithContext(ctx context.Context) *Context {
	nc := *c
	nc.Context = ctx
	return &nc
}

// Span creates a new tracing span as a child of the current one, if
// any, and returns it along with a Context that carries it.
func (c *Context) Span(
	opName string,
	opts ...opentracing.StartSpanOption,
) (opentracing.Span, *Context) {
	parentSpan := opentracing.SpanFromContext(c.Context)
	if parentSpan != nil {
		opts = append(opts, opentracing.ChildOf(parentSpan.Context()))
	}
	span := c.tracer.StartSpan(opName, opts...)
	ctx := opentracing.ContextWithSpan(c.Context, span)

	return span, c.WithContext(ctx)
}
