// Package metrics records per-request outcomes of a load test and reduces
// them into a single report.
//
// # ResultStore
//
// Workers write into a shared [ResultStore]:
//
//	store := metrics.NewResultStore()
//	store.RecordResult(metrics.StatusGroup(resp.StatusCode), latency.Seconds())
//	store.RecordError(metrics.KindOf(err), err.Error())
//
// Completed responses are grouped by status group ("2XX", "4XX", ...) and
// failed requests by [ErrorKind]. Each mapping has its own lock.
//
// # Error kinds
//
// Failures are filed under a closed set of categories ([ErrorKindTransport],
// [ErrorKindTimeout], [ErrorKindProtocol], [ErrorKindOther]). [Tag] attaches
// the category where the error is caught; transport and timeout failures
// are transient and eligible for retry.
//
// # Aggregation
//
// [Aggregate] is a pure reduction of a store and its [RunRecord]:
//
//	stats := metrics.Aggregate(store, record)
//
// Every non-2XX outcome, including 4XX and 5XX responses, counts toward
// [RunStats.ErrorRate]. Latency statistics are zero when nothing completed.
package metrics
