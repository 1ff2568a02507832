package runner

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/fireworksbench/fireworksbench/internal/metrics"
)

// Runner starts a fixed pool of workers sharing one deadline and one store.
type Runner struct {
	opt Options
}

func New(opt Options) *Runner {
	opt.normalize()
	return &Runner{opt: opt}
}

// Store returns the ResultStore workers record into.
func (r *Runner) Store() *metrics.ResultStore {
	return r.opt.Store
}

// Run executes the test and returns its timing record. Start and End are
// always set once Run is entered. The first worker-fatal error is returned;
// outcomes recorded before it stay in the store.
func (r *Runner) Run(ctx context.Context) (metrics.RunRecord, error) {
	record := metrics.NewRunRecord()

	qps := "unthrottled"
	if r.opt.QPS > 0 {
		qps = strconv.Itoa(r.opt.QPS)
	}
	r.opt.Logger.Info().Str("run_id", record.ID).Msgf("Starting test: URL=%s, duration=%s, QPS=%s, concurrency=%d",
		r.opt.Target, r.opt.Duration, qps, r.opt.Concurrency)

	record.Start = r.opt.Now()
	deadline := record.Start.Add(r.opt.Duration)
	requester := WithRetry(r.opt.Requester, r.opt.Retry)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < r.opt.Concurrency; i++ {
		w := &Worker{
			id:        i,
			requester: requester,
			limiter:   r.opt.LimiterFactory(r.opt.QPS),
			store:     r.opt.Store,
			now:       r.opt.Now,
		}
		g.Go(func() error {
			return w.Run(gctx, deadline)
		})
	}
	err := g.Wait()

	record.End = r.opt.Now()
	if err != nil {
		r.opt.Logger.Error().Err(err).Msg("Test aborted")
		return record, err
	}
	r.opt.Logger.Info().Msg("Test finished")
	return record, nil
}
