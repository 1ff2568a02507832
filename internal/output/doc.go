// Package output renders run results: the logged summary, JSON and YAML
// reports, and the live progress line.
package output
