package backend

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// collection returns the raw elements of the array stored under the first
// present key of an object body, or of the body itself when no keys are given
func collection(raw json.RawMessage, keys ...string) ([]json.RawMessage, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}

	var items []json.RawMessage
	if len(keys) == 0 {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%w: body is not an array", ErrMalformedResponse)
		}
		return items, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("%w: body is not an object", ErrMalformedResponse)
	}
	for _, k := range keys {
		v, ok := obj[k]
		if !ok || string(v) == "null" {
			continue
		}
		if err := json.Unmarshal(v, &items); err != nil {
			return nil, fmt.Errorf("%w: %s is not an array", ErrMalformedResponse, k)
		}
		return items, nil
	}
	return nil, fmt.Errorf("%w: none of %v present", ErrMalformedResponse, keys)
}

// decodeList reads a collection for display. A missing or non-array
// collection degrades to an empty slice, and elements that do not decode are
// skipped; both are logged.
func decodeList[T any](endpoint string, raw json.RawMessage, keys ...string) []T {
	out := []T{}
	items, err := collection(raw, keys...)
	if err != nil {
		zap.S().Warnw("unusable collection response", "endpoint", endpoint, "keys", keys, "error", err)
		return out
	}

	for i, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			zap.S().Warnw("skipping malformed element", "endpoint", endpoint, "index", i, "error", err)
			continue
		}
		out = append(out, v)
	}
	return out
}

// decodeListStrict reads a collection that a decision depends on. Any
// missing collection or undecodable element fails with ErrMalformedResponse.
func decodeListStrict[T any](endpoint string, raw json.RawMessage, keys ...string) ([]T, error) {
	items, err := collection(raw, keys...)
	if err != nil {
		zap.S().Errorw("unusable collection response", "endpoint", endpoint, "keys", keys, "error", err)
		return nil, err
	}

	out := make([]T, 0, len(items))
	for i, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			zap.S().Errorw("malformed collection element", "endpoint", endpoint, "index", i, "error", err)
			return nil, fmt.Errorf("%w: element %d: %v", ErrMalformedResponse, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// decodeObject reads the object stored under the first present key, falling
// back to the body itself
func decodeObject[T any](raw json.RawMessage, keys ...string) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, ErrMalformedResponse
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return v, ErrMalformedResponse
	}
	body := raw
	for _, k := range keys {
		if inner, ok := obj[k]; ok && len(inner) > 0 && inner[0] == '{' {
			body = inner
			break
		}
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return v, ErrMalformedResponse
	}
	return v, nil
}
