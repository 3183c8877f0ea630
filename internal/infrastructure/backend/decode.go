package backend

import (
	"bytes"
	"fmt"
	"strconv"

	"cabinet-portal/internal/domain/repository"

	"github.com/goccy/go-json"
)

var errMalformed = fmt.Errorf("%w: malformed body", repository.ErrUnexpectedStatus)

// The backend answers either with the bare value or wraps it under a key
// ({"medecins": [...]}, {"user": {...}}, {"count": 3}). The decoders below accept both.

func isNull(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func decodeList[T any](raw []byte, keys ...string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		return []T{}, nil
	}

	if raw[0] == '[' {
		out := []T{}
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("%w: %v", errMalformed, err)
		}
		return out, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	for _, key := range append(keys, "data", "items", "results") {
		if inner, ok := envelope[key]; ok {
			if isNull(inner) {
				return []T{}, nil
			}
			if bytes.TrimSpace(inner)[0] == '[' {
				return decodeList[T](inner)
			}
		}
	}
	return nil, fmt.Errorf("%w: expected a list", errMalformed)
}

// decodeObject returns nil when the body or the wrapped value is null.
func decodeObject[T any](raw []byte, keys ...string) (*T, error) {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		return nil, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	for _, key := range append(keys, "data") {
		inner, ok := envelope[key]
		if !ok {
			continue
		}
		if isNull(inner) {
			return nil, nil
		}
		if bytes.TrimSpace(inner)[0] == '{' {
			raw = inner
			break
		}
	}

	out := new(T)
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	return out, nil
}

func decodeCount(raw []byte, keys ...string) (int64, error) {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		return 0, nil
	}

	scalar := string(bytes.Trim(raw, `"`))
	if n, err := strconv.ParseInt(scalar, 10, 64); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(scalar, 64); err == nil {
		return int64(f), nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return 0, fmt.Errorf("%w: %v", errMalformed, err)
	}
	for _, key := range append(keys, "count", "total") {
		if inner, ok := envelope[key]; ok {
			return decodeCount(inner)
		}
	}
	return 0, fmt.Errorf("%w: expected a count", errMalformed)
}
