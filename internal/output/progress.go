package output

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/fireworksbench/fireworksbench/internal/metrics"
)

// ProgressReporter redraws a one-line summary of the store at a fixed interval.
type ProgressReporter struct {
	store    *metrics.ResultStore
	ticker   *time.Ticker
	done     chan struct{}
	finished chan struct{}
	writer   io.Writer
	active   int32
	start    time.Time
}

// NewProgressReporter creates a progress reporter that updates at the given interval.
func NewProgressReporter(store *metrics.ResultStore, interval time.Duration, writer io.Writer) *ProgressReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressReporter{
		store:    store,
		ticker:   time.NewTicker(interval),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		writer:   writer,
		start:    time.Now(),
	}
}

// Start begins displaying progress updates in a background goroutine.
func (p *ProgressReporter) Start() {
	if !atomic.CompareAndSwapInt32(&p.active, 0, 1) {
		return
	}
	go p.run()
}

// Stop halts progress updates and terminates the progress line.
func (p *ProgressReporter) Stop() {
	if atomic.CompareAndSwapInt32(&p.active, 1, 0) {
		close(p.done)
		p.ticker.Stop()
		<-p.finished
		fmt.Fprintln(p.writer)
	}
}

func (p *ProgressReporter) run() {
	defer close(p.finished)
	for {
		select {
		case <-p.ticker.C:
			fmt.Fprint(p.writer, p.line(time.Since(p.start)))
		case <-p.done:
			return
		}
	}
}

func (p *ProgressReporter) line(elapsed time.Duration) string {
	groups, kinds := p.store.Counts()
	var responses, errs int
	for _, n := range groups {
		responses += n
	}
	for _, n := range kinds {
		errs += n
	}
	rps := 0.0
	if elapsed > 0 {
		rps = float64(responses) / elapsed.Seconds()
	}
	return fmt.Sprintf("\rRequests: %d | 2XX: %d | Non-2XX: %d | Errors: %d | RPS: %.1f",
		responses+errs, groups[metrics.GroupSuccess], responses-groups[metrics.GroupSuccess], errs, rps)
}
