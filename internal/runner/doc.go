// Package runner executes a load test: a fixed pool of workers issuing
// paced, retried requests until a shared deadline.
//
// Each [Worker] runs its iterations strictly in sequence. An iteration
// waits on the worker's own rate limiter (when a rate is configured), runs
// the retried attempt and records exactly one outcome in the shared
// [metrics.ResultStore]: a status group with its latency, or an error kind
// with its message. Latency is measured from the start of the iteration,
// so it includes retry delays and the full body read.
//
// The [Runner] starts the workers under an errgroup and waits for all of
// them:
//
//	r := runner.New(runner.Options{
//		Target:      cfg.TargetURL,
//		Concurrency: cfg.Concurrency,
//		Duration:    cfg.Duration,
//		QPS:         cfg.Rate(),
//		Requester:   requester,
//		Retry:       runner.NewRetryPolicy(cfg.Retries, cfg.RetryDelay, metrics.IsTransient),
//		Store:       store,
//		Logger:      logger,
//	})
//	record, err := r.Run(ctx)
//
// Requests in flight at the deadline are allowed to finish. Cancelling ctx
// stops every worker after its current iteration; an iteration cut short
// by cancellation records nothing.
package runner
