package runner

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"golang.org/x/time/rate"

	"github.com/fireworksbench/fireworksbench/internal/metrics"
)

// Worker drives one sequential stream of requests until a deadline. Each
// iteration records exactly one outcome in the store.
type Worker struct {
	id        int
	requester Requester
	limiter   *rate.Limiter
	store     *metrics.ResultStore
	now       func() time.Time
}

// Run loops until deadline passes or ctx is cancelled. Request failures
// are recorded as data; only a failure of the loop itself is returned.
func (w *Worker) Run(ctx context.Context, deadline time.Time) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker %d: panic: %v\n%s", w.id, r, debug.Stack())
		}
	}()

	for w.now().Before(deadline) {
		if ctx.Err() != nil {
			return nil
		}
		if w.limiter != nil {
			if err := w.limiter.Wait(ctx); err != nil {
				return nil
			}
			if !w.now().Before(deadline) {
				return nil
			}
		}
		w.iterate(ctx)
	}
	return nil
}

func (w *Worker) iterate(ctx context.Context) {
	t0 := w.now()
	status, err := w.requester.Do(ctx)
	if err == nil {
		w.store.RecordResult(metrics.StatusGroup(status), w.now().Sub(t0).Seconds())
		return
	}
	if ctx.Err() != nil {
		// Interrupted, not a request outcome.
		return
	}
	tagged := metrics.Tag(err)
	w.store.RecordError(tagged.Kind, tagged.Error())
}
