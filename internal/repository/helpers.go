package repository

import (
	"encoding/json"
	"fmt"
	"time"
)

// timeLayout is the RFC3339 format for storing times in SQLite
const timeLayout = time.RFC3339

// formatTime returns the current time formatted as RFC3339
func formatTime() string {
	return time.Now().UTC().Format(timeLayout)
}

// toObject encodes v and decodes it back as a JSON object
func toObject(v any) (map[string]json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil || obj == nil {
		return nil, ErrInvalidPatch
	}
	return obj, nil
}

// merge overlays every top-level field of patch onto record, keeping the id
func merge[T any](record T, patch any) (T, error) {
	var out T

	base, err := toObject(record)
	if err != nil {
		return out, err
	}
	overlay, err := toObject(patch)
	if err != nil {
		return out, err
	}

	for k, v := range overlay {
		if k == "id" {
			continue
		}
		base[k] = v
	}

	b, err := json.Marshal(base)
	if err != nil {
		return out, fmt.Errorf("failed to encode merged record: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("failed to apply patch: %w", err)
	}
	return out, nil
}
