package metrics

import (
	"fmt"
	"sync"
)

// GroupSuccess is the status group counted as a successful call.
const GroupSuccess = "2XX"

// StatusGroup buckets an HTTP status code by its leading digit (404 -> "4XX").
func StatusGroup(code int) string {
	return fmt.Sprintf("%dXX", code/100)
}

// ResultStore accumulates per-request outcomes from all workers.
//
// Completed responses and failed requests live in two separately locked
// mappings so the success path and the error path never contend.
type ResultStore struct {
	resultsMu sync.Mutex
	results   map[string][]float64

	errorsMu sync.Mutex
	errors   map[ErrorKind][]string
}

// NewResultStore returns an empty store.
func NewResultStore() *ResultStore {
	return &ResultStore{
		results: make(map[string][]float64),
		errors:  make(map[ErrorKind][]string),
	}
}

// RecordResult appends a completed request latency (seconds) to its status group.
func (s *ResultStore) RecordResult(group string, latency float64) {
	s.resultsMu.Lock()
	s.results[group] = append(s.results[group], latency)
	s.resultsMu.Unlock()
}

// RecordError appends the message of a request that failed after retries.
func (s *ResultStore) RecordError(kind ErrorKind, message string) {
	s.errorsMu.Lock()
	s.errors[kind] = append(s.errors[kind], message)
	s.errorsMu.Unlock()
}

// Results returns a copy of the latency samples keyed by status group.
func (s *ResultStore) Results() map[string][]float64 {
	s.resultsMu.Lock()
	defer s.resultsMu.Unlock()

	out := make(map[string][]float64, len(s.results))
	for group, latencies := range s.results {
		out[group] = append([]float64(nil), latencies...)
	}
	return out
}

// Errors returns a copy of the error messages keyed by error kind.
func (s *ResultStore) Errors() map[ErrorKind][]string {
	s.errorsMu.Lock()
	defer s.errorsMu.Unlock()

	out := make(map[ErrorKind][]string, len(s.errors))
	for kind, messages := range s.errors {
		out[kind] = append([]string(nil), messages...)
	}
	return out
}

// Counts reports how many entries each label holds without copying samples.
// It is safe to call while workers are still recording.
func (s *ResultStore) Counts() (results map[string]int, errs map[ErrorKind]int) {
	s.resultsMu.Lock()
	results = make(map[string]int, len(s.results))
	for group, latencies := range s.results {
		results[group] = len(latencies)
	}
	s.resultsMu.Unlock()

	s.errorsMu.Lock()
	errs = make(map[ErrorKind]int, len(s.errors))
	for kind, messages := range s.errors {
		errs[kind] = len(messages)
	}
	s.errorsMu.Unlock()

	return results, errs
}
