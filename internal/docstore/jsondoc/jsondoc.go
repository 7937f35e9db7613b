// Package jsondoc encodes document fields as JSON for backends that store
// documents in a text or JSONB column. Timestamps are tagged so they decode
// back to time.Time instead of strings.
package jsondoc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mmynk/ekkora/internal/docstore"
)

const timeKey = "$time"

// Encode serializes fields. ServerTimestamp values must already be resolved.
func Encode(fields docstore.Fields) ([]byte, error) {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		enc, err := encodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		out[k] = enc
	}
	return json.Marshal(out)
}

// Decode parses data produced by Encode. Numbers decode as float64.
func Decode(data []byte) (docstore.Fields, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	fields := make(docstore.Fields, len(raw))
	for k, v := range raw {
		dec, err := decodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		fields[k] = dec
	}
	return fields, nil
}

func encodeValue(v any) (any, error) {
	switch val := v.(type) {
	case time.Time:
		return map[string]any{timeKey: val.UTC().Format(time.RFC3339Nano)}, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			enc, err := encodeValue(inner)
			if err != nil {
				return nil, err
			}
			out[k] = enc
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			enc, err := encodeValue(inner)
			if err != nil {
				return nil, err
			}
			out[i] = enc
		}
		return out, nil
	default:
		if docstore.IsServerTimestamp(v) {
			return nil, fmt.Errorf("unresolved server timestamp")
		}
		return v, nil
	}
}

func decodeValue(v any) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		if s, ok := val[timeKey].(string); ok && len(val) == 1 {
			t, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return nil, fmt.Errorf("bad timestamp %q: %w", s, err)
			}
			return t, nil
		}
		out := make(map[string]any, len(val))
		for k, inner := range val {
			dec, err := decodeValue(inner)
			if err != nil {
				return nil, err
			}
			out[k] = dec
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			dec, err := decodeValue(inner)
			if err != nil {
				return nil, err
			}
			out[i] = dec
		}
		return out, nil
	default:
		return v, nil
	}
}
