package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// parseHeaders decodes a JSON object of header names to values. Non-string
// values are kept in their JSON text form.
func parseHeaders(raw string) (map[string]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]string{}, nil
	}
	if !gjson.Valid(raw) {
		return nil, errors.New("invalid JSON")
	}
	parsed := gjson.Parse(raw)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("expected a JSON object, got %s", parsed.Type)
	}

	headers := map[string]string{}
	var iterErr error
	parsed.ForEach(func(key, value gjson.Result) bool {
		name := strings.TrimSpace(key.String())
		if name == "" {
			iterErr = errors.New("header key cannot be empty")
			return false
		}
		if value.IsObject() || value.IsArray() {
			iterErr = fmt.Errorf("header %q must be a scalar value", name)
			return false
		}
		headers[http.CanonicalHeaderKey(name)] = value.String()
		return true
	})
	if iterErr != nil {
		return nil, iterErr
	}
	return headers, nil
}

// parsePayload validates that raw is a JSON object and returns it compacted.
func parsePayload(raw string) (json.RawMessage, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if !gjson.Valid(raw) {
		return nil, errors.New("invalid JSON")
	}
	if parsed := gjson.Parse(raw); !parsed.IsObject() {
		return nil, fmt.Errorf("expected a JSON object, got %s", parsed.Type)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(raw)); err != nil {
		return nil, err
	}
	return json.RawMessage(buf.Bytes()), nil
}

// jsonCompatible rewrites YAML-decoded maps (map[interface{}]interface{})
// into shapes encoding/json can marshal.
func jsonCompatible(value interface{}) interface{} {
	switch v := value.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, val := range v {
			out[fmt.Sprint(key)] = jsonCompatible(val)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, val := range v {
			out[key] = jsonCompatible(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = jsonCompatible(item)
		}
		return out
	default:
		return v
	}
}
