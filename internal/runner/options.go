package runner

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/fireworksbench/fireworksbench/internal/metrics"
)

// Requester performs a single request attempt. A nil error means the
// exchange completed and status carries the HTTP status code.
type Requester interface {
	Do(ctx context.Context) (status int, err error)
}

// RequesterFunc adapts a function to Requester.
type RequesterFunc func(ctx context.Context) (int, error)

func (f RequesterFunc) Do(ctx context.Context) (int, error) { return f(ctx) }

// Options configure the Runner.
type Options struct {
	Target         string                      // reported in the start announcement
	Concurrency    int                         // number of workers
	Duration       time.Duration               // run length measured from Start
	QPS            int                         // per-worker requests per second (0 means unthrottled)
	Requester      Requester                   // single attempt executor (required)
	Retry          RetryPolicy                 // applied around every Requester call
	Store          *metrics.ResultStore        // shared outcome sink (created when nil)
	Logger         zerolog.Logger              // start and finish announcements
	LimiterFactory func(qps int) *rate.Limiter // optional injection for tests
	Now            func() time.Time            // optional clock for tests
}

func (o *Options) normalize() {
	if o.Concurrency <= 0 {
		o.Concurrency = 1
	}
	if o.QPS < 0 {
		o.QPS = 0
	}
	if o.Store == nil {
		o.Store = metrics.NewResultStore()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.LimiterFactory == nil {
		o.LimiterFactory = func(qps int) *rate.Limiter {
			if qps <= 0 {
				return nil
			}
			// Burst of one keeps successive starts at least 1/qps apart.
			return rate.NewLimiter(rate.Limit(qps), 1)
		}
	}
}
