package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fireworksbench/fireworksbench/internal/config"
)

func intPtr(v int) *int { return &v }

func validConfig() config.Config {
	cfg := config.Defaults()
	cfg.TargetURL = "http://localhost:8080/health"
	return *cfg
}

func TestParseFlagsDefaults(t *testing.T) {
	loader := config.NewLoader()

	cfg, err := loader.Load([]string{"http://localhost:8080"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.TargetURL != "http://localhost:8080" {
		t.Errorf("TargetURL = %q, want http://localhost:8080", cfg.TargetURL)
	}
	if cfg.Method != "GET" {
		t.Errorf("Method = %q, want GET", cfg.Method)
	}
	if cfg.Duration != 60*time.Second {
		t.Errorf("Duration = %s, want 60s", cfg.Duration)
	}
	if cfg.QPS != nil {
		t.Errorf("QPS = %d, want unset", *cfg.QPS)
	}
	if cfg.Concurrency != 10 {
		t.Errorf("Concurrency = %d, want 10", cfg.Concurrency)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %s, want 10s", cfg.Timeout)
	}
	if cfg.Retries != 3 {
		t.Errorf("Retries = %d, want 3", cfg.Retries)
	}
	if cfg.RetryDelay != time.Second {
		t.Errorf("RetryDelay = %s, want 1s", cfg.RetryDelay)
	}
	if cfg.Output != config.DefaultOutput {
		t.Errorf("Output = %q, want %q", cfg.Output, config.DefaultOutput)
	}
	if cfg.JSONOutput {
		t.Errorf("JSONOutput = true, want false")
	}
	if len(cfg.Headers) != 0 {
		t.Errorf("Headers len = %d, want 0", len(cfg.Headers))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoadNoArgsRequestsHelp(t *testing.T) {
	_, err := config.NewLoader().Load(nil)
	if !errors.Is(err, config.ErrHelpRequested) {
		t.Fatalf("expected ErrHelpRequested, got %v", err)
	}
}

func TestLoadConfigFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{
		"target": "https://api.example.com",
		"method": "PUT",
		"headers": {"Content-Type": "application/json"},
		"payload": "{\"fooBar\":\"baz\"}",
		"concurrency": 12,
		"qps": 100,
		"duration": "2m",
		"timeout": 45,
		"retries": 5,
		"output": "run.log",
		"jsonOutput": true
	}`), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	loader := config.NewLoader()
	cfg, err := loader.Load([]string{"--config", path, "--method", "PATCH", "--headers", `{"Authorization":"Bearer token"}`})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.TargetURL != "https://api.example.com" {
		t.Errorf("TargetURL = %q, want https://api.example.com", cfg.TargetURL)
	}
	if cfg.Method != "PATCH" {
		t.Errorf("Method = %q, want PATCH", cfg.Method)
	}
	if cfg.Headers["Content-Type"] != "application/json" {
		t.Errorf("Headers[Content-Type] = %q, want application/json", cfg.Headers["Content-Type"])
	}
	if cfg.Headers["Authorization"] != "Bearer token" {
		t.Errorf("Headers[Authorization] = %q, want Bearer token", cfg.Headers["Authorization"])
	}
	if string(cfg.Payload) != `{"fooBar":"baz"}` {
		t.Errorf("Payload = %s, want {\"fooBar\":\"baz\"}", cfg.Payload)
	}
	if cfg.Concurrency != 12 {
		t.Errorf("Concurrency = %d, want 12", cfg.Concurrency)
	}
	if cfg.QPS == nil || *cfg.QPS != 100 {
		t.Errorf("QPS = %v, want 100", cfg.QPS)
	}
	if cfg.Duration != 2*time.Minute {
		t.Errorf("Duration = %s, want 2m", cfg.Duration)
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("Timeout = %s, want 45s", cfg.Timeout)
	}
	if cfg.Retries != 5 {
		t.Errorf("Retries = %d, want 5", cfg.Retries)
	}
	if cfg.Output != "run.log" {
		t.Errorf("Output = %q, want run.log", cfg.Output)
	}
	if !cfg.JSONOutput {
		t.Errorf("JSONOutput = false, want true")
	}
}

func TestLoadConfigFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := strings.Join([]string{
		"target: https://service.example.com",
		"method: POST",
		"headers:",
		"  X-Env: staging",
		"payload:",
		"  name: widget",
		"concurrency: 4",
		"qps: 20",
		"duration: 30s",
		"timeout: 15s",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	loader := config.NewLoader()
	cfg, err := loader.Load([]string{"--config", path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.TargetURL != "https://service.example.com" {
		t.Errorf("TargetURL = %q, want https://service.example.com", cfg.TargetURL)
	}
	if cfg.Method != "POST" {
		t.Errorf("Method = %q, want POST", cfg.Method)
	}
	if cfg.Headers["X-Env"] != "staging" {
		t.Errorf("Headers[X-Env] = %q, want staging", cfg.Headers["X-Env"])
	}
	if string(cfg.Payload) != `{"name":"widget"}` {
		t.Errorf("Payload = %s", cfg.Payload)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want 4", cfg.Concurrency)
	}
	if cfg.QPS == nil || *cfg.QPS != 20 {
		t.Errorf("QPS = %v, want 20", cfg.QPS)
	}
	if cfg.Duration != 30*time.Second {
		t.Errorf("Duration = %s, want 30s", cfg.Duration)
	}
	if cfg.Timeout != 15*time.Second {
		t.Errorf("Timeout = %s, want 15s", cfg.Timeout)
	}
}

func TestPositionalOverridesConfigTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("target: http://from-file.example\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	cfg, err := config.NewLoader().Load([]string{"--config", path, "http://from-cli.example"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TargetURL != "http://from-cli.example" {
		t.Errorf("TargetURL = %q, want http://from-cli.example", cfg.TargetURL)
	}
}

func TestValidateRejectsNonPositiveFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{"negative duration", func(c *config.Config) { c.Duration = -time.Second }, "duration"},
		{"zero duration", func(c *config.Config) { c.Duration = 0 }, "duration"},
		{"zero qps", func(c *config.Config) { c.QPS = intPtr(0) }, "qps"},
		{"negative qps", func(c *config.Config) { c.QPS = intPtr(-3) }, "qps"},
		{"zero concurrency", func(c *config.Config) { c.Concurrency = 0 }, "concurrency"},
		{"zero timeout", func(c *config.Config) { c.Timeout = 0 }, "timeout"},
		{"negative timeout", func(c *config.Config) { c.Timeout = -time.Millisecond }, "timeout"},
		{"negative retries", func(c *config.Config) { c.Retries = -1 }, "retries"},
		{"unsupported method", func(c *config.Config) { c.Method = "TRACE" }, "method"},
		{"missing target", func(c *config.Config) { c.TargetURL = "" }, "target"},
		{"relative target", func(c *config.Config) { c.TargetURL = "/health" }, "target"},
		{"invalid payload", func(c *config.Config) { c.Payload = []byte("{nope") }, "payload"},
		{"header injection", func(c *config.Config) { c.Headers = map[string]string{"X-A": "b\r\nX-Evil: 1"} }, "headers"},
		{"sample rate", func(c *config.Config) { c.Tracing.SampleRate = 1.5 }, "tracing.sample_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			var verr config.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			fields := verr.Fields()
			if len(fields) != 1 || fields[0] != tt.field {
				t.Fatalf("Fields() = %v, want [%s]", fields, tt.field)
			}
		})
	}
}

func TestValidateListsEveryOffendingField(t *testing.T) {
	cfg := validConfig()
	cfg.Duration = -1
	cfg.QPS = intPtr(0)
	cfg.Concurrency = 0
	cfg.Timeout = 0

	err := cfg.Validate()
	var verr config.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := []string{"duration", "qps", "concurrency", "timeout"}
	got := verr.Fields()
	if len(got) != len(want) {
		t.Fatalf("Fields() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Fields()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	for _, issue := range verr.Issues() {
		if !strings.Contains(err.Error(), issue) {
			t.Errorf("error %q does not mention %q", err.Error(), issue)
		}
	}
}

func TestUnsetQPSIsUnthrottled(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Throttled() || cfg.PacingInterval() != 0 || cfg.Rate() != 0 {
		t.Fatalf("expected unthrottled config, got interval %s", cfg.PacingInterval())
	}

	cfg.QPS = intPtr(4)
	if !cfg.Throttled() || cfg.PacingInterval() != 250*time.Millisecond {
		t.Fatalf("PacingInterval() = %s, want 250ms", cfg.PacingInterval())
	}
}

func TestMethodAllowsBody(t *testing.T) {
	for method, want := range map[string]bool{
		"GET": false, "DELETE": false, "POST": true, "PUT": true, "patch": true,
	} {
		if got := config.MethodAllowsBody(method); got != want {
			t.Errorf("MethodAllowsBody(%s) = %v, want %v", method, got, want)
		}
	}
}
