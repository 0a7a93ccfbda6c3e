package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Sequence is a Counter stored as a decimal string under key
type Sequence struct {
	kv  KV
	key string
}

// NewSequence creates a counter at key
func NewSequence(kv KV, key string) *Sequence {
	return &Sequence{kv: kv, key: key}
}

func (s *Sequence) Next(ctx context.Context, floor int) (int, error) {
	current, err := s.current(ctx)
	if err != nil {
		return 0, err
	}
	if floor > current {
		current = floor
	}
	next := current + 1

	if err := s.kv.Set(ctx, s.key, strconv.Itoa(next)); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", s.key, err)
	}
	return next, nil
}

func (s *Sequence) Reset(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to reset %s: %w", s.key, err)
	}
	return nil
}

func (s *Sequence) current(ctx context.Context) (int, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", s.key, err)
	}
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s: %q", ErrInvalidData, s.key, raw)
	}
	return n, nil
}
