package httpclient

import (
	"context"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/fireworksbench/fireworksbench/internal/metrics"
	"github.com/fireworksbench/fireworksbench/internal/tracing"
)

// Requester performs one HTTP attempt against the configured target.
type Requester struct {
	client    *http.Client
	builder   *RequestBuilder
	tracer    trace.Tracer
	propagate bool
}

// Option customizes a Requester.
type Option func(*Requester)

// WithTracing wraps every attempt in a client span from p.
func WithTracing(p *tracing.Provider) Option {
	return func(r *Requester) {
		if !p.Enabled() {
			return
		}
		r.tracer = p.Tracer()
		r.propagate = p.ShouldPropagate()
	}
}

func NewRequester(client *http.Client, builder *RequestBuilder, opts ...Option) *Requester {
	if client == nil {
		client = http.DefaultClient
	}
	r := &Requester{client: client, builder: builder}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do issues a single attempt and reads the response body to completion.
// Any HTTP status is a completed exchange; failures come back tagged with
// their metrics.ErrorKind.
func (r *Requester) Do(ctx context.Context) (status int, err error) {
	if r.tracer != nil {
		var span trace.Span
		ctx, span = tracing.StartAttemptSpan(ctx, r.tracer, r.builder.Method(), r.builder.Target())
		defer func() { tracing.EndSpan(span, status, err) }()
	}

	req, err := r.builder.Build(ctx)
	if err != nil {
		return 0, &metrics.RequestError{Kind: metrics.ErrorKindOther, Err: err}
	}
	if r.propagate {
		tracing.InjectHTTPHeaders(ctx, req.Header)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, metrics.Tag(err)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return 0, metrics.Tag(err)
	}
	return resp.StatusCode, nil
}
