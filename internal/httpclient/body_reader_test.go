package httpclient

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/fireworksbench/fireworksbench/internal/config"
)

func TestNewBodySource(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		if _, err := NewBodySource(nil); err == nil {
			t.Error("NewBodySource(nil) error = nil, want error")
		}
	})

	t.Run("no payload", func(t *testing.T) {
		source, err := NewBodySource(&config.Config{Method: "POST"})
		if err != nil {
			t.Fatalf("NewBodySource() error = %v", err)
		}
		if n, ok := source.ContentLength(); !ok || n != 0 {
			t.Errorf("ContentLength() = %d, %v; want 0, true", n, ok)
		}
	})

	t.Run("payload ignored for GET", func(t *testing.T) {
		source, err := NewBodySource(&config.Config{Method: "GET", Payload: json.RawMessage(`{"a":1}`)})
		if err != nil {
			t.Fatalf("NewBodySource() error = %v", err)
		}
		if _, ok := source.(emptyBodySource); !ok {
			t.Errorf("source = %T, want emptyBodySource", source)
		}
	})

	t.Run("payload replays", func(t *testing.T) {
		payload := json.RawMessage(`{"name":"widget"}`)
		cfg := &config.Config{Method: "PATCH", Payload: payload}
		source, err := NewBodySource(cfg)
		if err != nil {
			t.Fatalf("NewBodySource() error = %v", err)
		}
		cfg.Payload[2] = 'X'

		if n, ok := source.ContentLength(); !ok || n != int64(len(payload)) {
			t.Errorf("ContentLength() = %d, %v; want %d, true", n, ok, len(payload))
		}
		for i := 0; i < 2; i++ {
			rc, err := source.NewReader()
			if err != nil {
				t.Fatalf("NewReader() error = %v", err)
			}
			got, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if string(got) != `{"name":"widget"}` {
				t.Errorf("read #%d = %q", i+1, got)
			}
		}
	})
}
