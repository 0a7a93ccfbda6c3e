package repository

import (
	"context"
	"encoding/json"
	"fmt"
)

// Document is a Singleton kept as one JSON value under key
type Document[T any] struct {
	kv  KV
	key string
}

// NewDocument creates a singleton store at key
func NewDocument[T any](kv KV, key string) *Document[T] {
	return &Document[T]{kv: kv, key: key}
}

func (d *Document[T]) Load(ctx context.Context) (T, bool, error) {
	var value T
	raw, ok, err := d.kv.Get(ctx, d.key)
	if err != nil {
		return value, false, fmt.Errorf("failed to read %s: %w", d.key, err)
	}
	if !ok || raw == "" || raw == "null" {
		return value, false, nil
	}
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return value, false, fmt.Errorf("%w: %s: %v", ErrInvalidData, d.key, err)
	}
	return value, true, nil
}

func (d *Document[T]) Save(ctx context.Context, value T) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", d.key, err)
	}
	if err := d.kv.Set(ctx, d.key, string(b)); err != nil {
		return fmt.Errorf("failed to write %s: %w", d.key, err)
	}
	return nil
}

func (d *Document[T]) Clear(ctx context.Context) error {
	if err := d.kv.Delete(ctx, d.key); err != nil {
		return fmt.Errorf("failed to clear %s: %w", d.key, err)
	}
	return nil
}
