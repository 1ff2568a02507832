// Package httpclient builds and issues the HTTP attempts of a load test.
//
// A [RequestBuilder] is created once per run from the validated config and
// yields an identical request for every attempt: method, canonical
// headers and, for POST, PUT and PATCH, the JSON payload with a default
// application/json Content-Type. Request bodies are replayable through
// GetBody.
//
// [NewClient] returns a client whose Timeout bounds a whole attempt,
// including the body read, with connection pooling sized for many workers
// hitting one host.
//
// A [Requester] performs one attempt:
//
//	requester := httpclient.NewRequester(client, builder, httpclient.WithTracing(provider))
//	status, err := requester.Do(ctx)
//
// Errors returned by Do are *metrics.RequestError values so callers can
// decide on retries by kind.
package httpclient
