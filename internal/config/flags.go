package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fireworksbench [flags] <url>",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
// Durations are strings so both bare seconds ("60", "0.5") and Go
// durations ("1m") are accepted.
func configureFlags(flags *pflag.FlagSet) {
	// Load control flags
	flags.StringP("duration", "d", "60", "Test duration in seconds or as a Go duration (e.g. 30s, 1m)")
	flags.IntP("qps", "q", 0, "Requests per second for each worker (unset means unthrottled)")
	flags.IntP("concurrency", "c", DefaultConcurrency, "Number of concurrent workers")

	// Request flags
	flags.StringP("method", "X", DefaultMethod, "HTTP method: GET, POST, PUT, DELETE or PATCH")
	flags.String("headers", "", `Request headers as a JSON object (e.g. '{"Authorization":"Bearer x"}')`)
	flags.String("payload", "", "Request payload as a JSON object, sent for POST, PUT and PATCH")
	flags.String("timeout", "10", "Per-request timeout in seconds or as a Go duration")
	flags.Int("retries", DefaultRetries, "Retry attempts per request on transient failures")
	flags.String("retry-delay", "1", "Fixed delay between retry attempts")

	// Output flags
	flags.StringP("output", "o", DefaultOutput, "Log file the run is appended to")
	flags.Bool("json", false, "Print the final report as JSON on stdout")
	flags.String("report-file", "", "Write the final report to a .json or .yaml file")
	flags.Bool("progress", false, "Show a live progress line on stderr")
	flags.String("metrics-addr", "", "Serve Prometheus metrics on this address during the run (e.g. :9090)")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")

	// Tracing flags
	flags.String("tracing-endpoint", "", "OTLP collector endpoint; enables tracing of each attempt")
	flags.String("tracing-protocol", "grpc", "OTLP protocol: grpc or http")
	flags.Bool("tracing-insecure", false, "Disable TLS for the OTLP exporter")
	flags.Float64("tracing-sample-rate", 1.0, "Fraction of attempts to sample (0.0 - 1.0)")
}

// displayHelp prints the help message for a command.
func displayHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usage: %s\n\nFlags:\n", cmd.UseLine())
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// applyFlagOverrides applies command-line flag values to the config,
// overriding values from the config file.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("duration") {
		val, err := fs.GetString("duration")
		if err != nil {
			return err
		}
		dur, err := asDuration(val)
		if err != nil {
			return fmt.Errorf("duration: %w", err)
		}
		cfg.Duration = dur
	}
	if fs.Changed("qps") {
		val, err := fs.GetInt("qps")
		if err != nil {
			return err
		}
		cfg.QPS = &val
	}
	if fs.Changed("concurrency") {
		val, err := fs.GetInt("concurrency")
		if err != nil {
			return err
		}
		cfg.Concurrency = val
	}
	if fs.Changed("method") {
		val, err := fs.GetString("method")
		if err != nil {
			return err
		}
		cfg.Method = val
	}
	if fs.Changed("headers") {
		val, err := fs.GetString("headers")
		if err != nil {
			return err
		}
		hdrs, err := parseHeaders(val)
		if err != nil {
			return fmt.Errorf("headers: %w", err)
		}
		for k, v := range hdrs {
			cfg.Headers[k] = v
		}
	}
	if fs.Changed("payload") {
		val, err := fs.GetString("payload")
		if err != nil {
			return err
		}
		payload, err := parsePayload(val)
		if err != nil {
			return fmt.Errorf("payload: %w", err)
		}
		cfg.Payload = payload
	}
	if fs.Changed("timeout") {
		val, err := fs.GetString("timeout")
		if err != nil {
			return err
		}
		dur, err := asDuration(val)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		cfg.Timeout = dur
	}
	if fs.Changed("retries") {
		val, err := fs.GetInt("retries")
		if err != nil {
			return err
		}
		cfg.Retries = val
	}
	if fs.Changed("retry-delay") {
		val, err := fs.GetString("retry-delay")
		if err != nil {
			return err
		}
		dur, err := asDuration(val)
		if err != nil {
			return fmt.Errorf("retry-delay: %w", err)
		}
		cfg.RetryDelay = dur
	}
	if fs.Changed("output") {
		val, err := fs.GetString("output")
		if err != nil {
			return err
		}
		cfg.Output = strings.TrimSpace(val)
	}
	if fs.Changed("json") {
		val, err := fs.GetBool("json")
		if err != nil {
			return err
		}
		cfg.JSONOutput = val
	}
	if fs.Changed("report-file") {
		val, err := fs.GetString("report-file")
		if err != nil {
			return err
		}
		cfg.ReportFile = strings.TrimSpace(val)
	}
	if fs.Changed("progress") {
		val, err := fs.GetBool("progress")
		if err != nil {
			return err
		}
		cfg.Progress = val
	}
	if fs.Changed("metrics-addr") {
		val, err := fs.GetString("metrics-addr")
		if err != nil {
			return err
		}
		cfg.MetricsAddr = strings.TrimSpace(val)
	}
	if fs.Changed("tracing-endpoint") {
		val, err := fs.GetString("tracing-endpoint")
		if err != nil {
			return err
		}
		cfg.Tracing.Endpoint = strings.TrimSpace(val)
	}
	if fs.Changed("tracing-protocol") {
		val, err := fs.GetString("tracing-protocol")
		if err != nil {
			return err
		}
		cfg.Tracing.Protocol = strings.ToLower(strings.TrimSpace(val))
	}
	if fs.Changed("tracing-insecure") {
		val, err := fs.GetBool("tracing-insecure")
		if err != nil {
			return err
		}
		cfg.Tracing.Insecure = val
	}
	if fs.Changed("tracing-sample-rate") {
		val, err := fs.GetFloat64("tracing-sample-rate")
		if err != nil {
			return err
		}
		cfg.Tracing.SampleRate = val
	}
	return nil
}
