package httpclient

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/fireworksbench/fireworksbench/internal/config"
)

// BodySource yields a fresh request body per attempt so retries can replay it.
type BodySource interface {
	NewReader() (io.ReadCloser, error)
	ContentLength() (int64, bool)
}

// NewBodySource returns the JSON payload source for methods that carry a
// body and an empty source otherwise.
func NewBodySource(cfg *config.Config) (BodySource, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if len(cfg.Payload) == 0 || !config.MethodAllowsBody(cfg.Method) {
		return emptyBodySource{}, nil
	}
	data := make([]byte, len(cfg.Payload))
	copy(data, cfg.Payload)
	return &inlineBodySource{data: data}, nil
}

type inlineBodySource struct {
	data []byte
}

func (s *inlineBodySource) NewReader() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

func (s *inlineBodySource) ContentLength() (int64, bool) {
	return int64(len(s.data)), true
}

type emptyBodySource struct{}

func (emptyBodySource) NewReader() (io.ReadCloser, error) {
	return http.NoBody, nil
}

func (emptyBodySource) ContentLength() (int64, bool) {
	return 0, true
}
