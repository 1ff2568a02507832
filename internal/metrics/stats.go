package metrics

import (
	"math"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/oklog/ulid/v2"
)

// RunRecord holds the wall-clock bounds of one test run.
// Start and End are written once by the runner.
type RunRecord struct {
	ID    string
	Start time.Time
	End   time.Time
}

// NewRunRecord returns a record with a fresh run ID and no timestamps.
func NewRunRecord() RunRecord {
	return RunRecord{ID: ulid.Make().String()}
}

// Elapsed returns End-Start, or 0 while either timestamp is unset.
func (r RunRecord) Elapsed() time.Duration {
	if r.Start.IsZero() || r.End.IsZero() {
		return 0
	}
	return r.End.Sub(r.Start)
}

// RunStats is the aggregate report of a run. Latencies and times are seconds.
type RunStats struct {
	RunID           string         `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	TotalRequests   int            `json:"total_requests" yaml:"total_requests"`
	TotalErrors     int            `json:"total_errors" yaml:"total_errors"`
	TotalCalls      int            `json:"total_calls" yaml:"total_calls"`
	SuccessfulCalls int            `json:"successful_calls" yaml:"successful_calls"`
	TotalTime       float64        `json:"total_time_s" yaml:"total_time_s"`
	RPS             float64        `json:"requests_per_sec" yaml:"requests_per_sec"`
	RPM             float64        `json:"requests_per_min" yaml:"requests_per_min"`
	AvgLatency      float64        `json:"avg_latency_s" yaml:"avg_latency_s"`
	MinLatency      float64        `json:"min_latency_s" yaml:"min_latency_s"`
	MaxLatency      float64        `json:"max_latency_s" yaml:"max_latency_s"`
	Amplitude       float64        `json:"amplitude_s" yaml:"amplitude_s"`
	StdDev          float64        `json:"stdev_s" yaml:"stdev_s"`
	P50Latency      float64        `json:"p50_latency_s" yaml:"p50_latency_s"`
	P90Latency      float64        `json:"p90_latency_s" yaml:"p90_latency_s"`
	P99Latency      float64        `json:"p99_latency_s" yaml:"p99_latency_s"`
	ErrorRate       float64        `json:"error_rate" yaml:"error_rate"`
	StatusGroups    map[string]int `json:"status_groups,omitempty" yaml:"status_groups,omitempty"`
	ErrorKinds      map[string]int `json:"error_kinds,omitempty" yaml:"error_kinds,omitempty"`
}

// Track latencies from 1µs up to one hour with 3 significant figures.
const (
	histLowestMicros  = 1
	histHighestMicros = 3_600_000_000
	histSigFigs       = 3
)

// Aggregate reduces a populated store and run record into RunStats.
// It reads the store but never mutates it.
func Aggregate(store *ResultStore, record RunRecord) RunStats {
	results := store.Results()
	errs := store.Errors()

	stats := RunStats{
		RunID:        record.ID,
		StatusGroups: make(map[string]int, len(results)),
		ErrorKinds:   make(map[string]int, len(errs)),
	}

	var all []float64
	for group, latencies := range results {
		stats.StatusGroups[group] = len(latencies)
		all = append(all, latencies...)
	}
	stats.TotalRequests = len(all)
	stats.SuccessfulCalls = len(results[GroupSuccess])

	for kind, messages := range errs {
		stats.ErrorKinds[string(kind)] = len(messages)
		stats.TotalErrors += len(messages)
	}

	stats.TotalCalls = stats.TotalRequests + stats.TotalErrors
	if stats.TotalCalls > 0 {
		stats.ErrorRate = float64(stats.TotalCalls-stats.SuccessfulCalls) / float64(stats.TotalCalls)
	}

	stats.TotalTime = record.Elapsed().Seconds()

	var sum float64
	for _, v := range all {
		sum += v
	}
	if len(all) == 0 || sum == 0 {
		return stats
	}

	if stats.TotalTime > 0 {
		stats.RPS = float64(len(all)) / stats.TotalTime
		stats.RPM = stats.RPS * 60
	}

	stats.AvgLatency = sum / float64(len(all))
	stats.MinLatency, stats.MaxLatency = all[0], all[0]
	for _, v := range all[1:] {
		stats.MinLatency = math.Min(stats.MinLatency, v)
		stats.MaxLatency = math.Max(stats.MaxLatency, v)
	}
	stats.Amplitude = stats.MaxLatency - stats.MinLatency

	var sq float64
	for _, v := range all {
		d := v - stats.AvgLatency
		sq += d * d
	}
	// Population deviation over completed requests only; errors carry no latency.
	stats.StdDev = math.Sqrt(sq / float64(stats.TotalRequests))

	stats.P50Latency, stats.P90Latency, stats.P99Latency = percentiles(all)
	return stats
}

func percentiles(latencies []float64) (p50, p90, p99 float64) {
	h := hdrhistogram.New(histLowestMicros, histHighestMicros, histSigFigs)
	for _, v := range latencies {
		us := int64(v * 1e6)
		if us < h.LowestTrackableValue() {
			us = h.LowestTrackableValue()
		}
		if us > h.HighestTrackableValue() {
			us = h.HighestTrackableValue()
		}
		_ = h.RecordValue(us)
	}
	if h.TotalCount() == 0 {
		return 0, 0, 0
	}
	toSeconds := func(q float64) float64 {
		return float64(h.ValueAtQuantile(q)) / 1e6
	}
	return toSeconds(50), toSeconds(90), toSeconds(99)
}
