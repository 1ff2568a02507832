package config

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	DefaultDuration    = 60 * time.Second
	DefaultConcurrency = 10
	DefaultMethod      = http.MethodGet
	DefaultTimeout     = 10 * time.Second
	DefaultRetries     = 3
	DefaultRetryDelay  = time.Second
	DefaultOutput      = "fireworksbench_results.log"
)

// SupportedMethods lists the HTTP methods a test may use.
var SupportedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
	http.MethodPatch,
}

// Config is the immutable description of one load test run.
type Config struct {
	TargetURL   string            `mapstructure:"target"`
	Duration    time.Duration     `mapstructure:"duration"`
	QPS         *int              `mapstructure:"qps"` // nil means unthrottled
	Concurrency int               `mapstructure:"concurrency"`
	Method      string            `mapstructure:"method"`
	Headers     map[string]string `mapstructure:"headers"`
	Payload     json.RawMessage   `mapstructure:"payload"`
	Timeout     time.Duration     `mapstructure:"timeout"`
	Retries     int               `mapstructure:"retries"`
	RetryDelay  time.Duration     `mapstructure:"retry_delay"`
	Output      string            `mapstructure:"output"`
	JSONOutput  bool              `mapstructure:"json_output"`
	ReportFile  string            `mapstructure:"report_file"`
	Progress    bool              `mapstructure:"progress"`
	MetricsAddr string            `mapstructure:"metrics_addr"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
	ConfigFile  string            `mapstructure:"-"`
}

// TracingConfig controls OpenTelemetry export of per-attempt spans.
type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Protocol    string  `mapstructure:"protocol"` // "grpc" or "http"
	Insecure    bool    `mapstructure:"insecure"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	ServiceName string  `mapstructure:"service_name"`
	Propagate   bool    `mapstructure:"propagate"`
}

// Enabled reports whether spans should be created at all.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.Endpoint) != "" || os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != ""
}

// Defaults returns a Config populated with the documented defaults.
func Defaults() *Config {
	return &Config{
		Duration:    DefaultDuration,
		Concurrency: DefaultConcurrency,
		Method:      DefaultMethod,
		Headers:     map[string]string{},
		Timeout:     DefaultTimeout,
		Retries:     DefaultRetries,
		RetryDelay:  DefaultRetryDelay,
		Output:      DefaultOutput,
		Tracing: TracingConfig{
			Protocol:   "grpc",
			SampleRate: 1.0,
			Propagate:  true,
		},
	}
}

// Throttled reports whether requests are paced to a target rate.
func (c Config) Throttled() bool {
	return c.QPS != nil && *c.QPS > 0
}

// PacingInterval is the minimum spacing between two request starts of one
// worker, or 0 when unthrottled.
func (c Config) PacingInterval() time.Duration {
	if !c.Throttled() {
		return 0
	}
	return time.Second / time.Duration(*c.QPS)
}

// Rate returns the configured queries per second, 0 when unthrottled.
func (c Config) Rate() int {
	if c.QPS == nil {
		return 0
	}
	return *c.QPS
}

// ValidationError lists every config field that failed its constraint.
type ValidationError struct {
	issues []FieldIssue
}

// FieldIssue is a single failed constraint.
type FieldIssue struct {
	Field   string
	Message string
}

func (i FieldIssue) String() string {
	return i.Field + " " + i.Message
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.issues))
	for i, issue := range e.issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

// Issues returns the human-readable issue lines.
func (e ValidationError) Issues() []string {
	out := make([]string, len(e.issues))
	for i, issue := range e.issues {
		out[i] = issue.String()
	}
	return out
}

// Fields returns the names of the offending fields in order.
func (e ValidationError) Fields() []string {
	out := make([]string, len(e.issues))
	for i, issue := range e.issues {
		out[i] = issue.Field
	}
	return out
}

func (e *ValidationError) add(field, format string, args ...interface{}) {
	e.issues = append(e.issues, FieldIssue{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate checks every field and returns a ValidationError naming all
// offending fields. High-load settings produce warnings on stderr.
func (c Config) Validate() error {
	return c.validate(os.Stderr)
}

func (c Config) validate(warnings io.Writer) error {
	var verr ValidationError

	target := strings.TrimSpace(c.TargetURL)
	if target == "" {
		verr.add("target", "is required (use --help for usage information)")
	} else if u, err := url.Parse(target); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		verr.add("target", "must be an absolute http(s) URL, got %q", target)
	}

	if c.Duration <= 0 {
		verr.add("duration", "must be > 0")
	}
	if c.QPS != nil && *c.QPS <= 0 {
		verr.add("qps", "must be > 0 when set")
	}
	if c.Concurrency <= 0 {
		verr.add("concurrency", "must be > 0")
	}
	if c.Timeout <= 0 {
		verr.add("timeout", "must be > 0")
	}
	if c.Retries < 0 {
		verr.add("retries", "must be >= 0")
	}
	if c.RetryDelay < 0 {
		verr.add("retry_delay", "must be >= 0")
	}
	if !isSupportedMethod(c.Method) {
		verr.add("method", "must be one of %s, got %q", strings.Join(SupportedMethods, ", "), c.Method)
	}
	for key, value := range c.Headers {
		if strings.TrimSpace(key) == "" || strings.ContainsAny(key, "\r\n") {
			verr.add("headers", "invalid header key %q", key)
		} else if strings.ContainsAny(value, "\r\n") {
			verr.add("headers", "invalid header value for %s", http.CanonicalHeaderKey(key))
		}
	}
	if len(c.Payload) > 0 && !json.Valid(c.Payload) {
		verr.add("payload", "must be valid JSON")
	}
	if strings.TrimSpace(c.Output) == "" {
		verr.add("output", "is required")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		verr.add("tracing.sample_rate", "must be between 0.0 and 1.0, got %g", c.Tracing.SampleRate)
	}
	if p := strings.ToLower(c.Tracing.Protocol); p != "" && p != "grpc" && p != "http" {
		verr.add("tracing.protocol", "must be grpc or http, got %q", c.Tracing.Protocol)
	}

	if warnings != nil {
		if c.Rate() > 1000 {
			fmt.Fprintf(warnings, "WARNING: High rate configured (%d QPS per worker). Ensure you have authorization to test the target system.\n", c.Rate())
		}
		if c.Concurrency > 500 {
			fmt.Fprintf(warnings, "WARNING: High concurrency configured (%d workers). Ensure you have authorization to test the target system.\n", c.Concurrency)
		}
	}

	if len(verr.issues) > 0 {
		return verr
	}
	return nil
}

func isSupportedMethod(method string) bool {
	for _, m := range SupportedMethods {
		if method == m {
			return true
		}
	}
	return false
}

// MethodAllowsBody reports whether a payload is sent for method.
func MethodAllowsBody(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}
