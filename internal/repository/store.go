package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Record is the pointer constraint for stored types
type Record[T any] interface {
	*T
	GetID() string
	SetID(id string)
}

// Store is a Collection kept as one JSON array under key. Every mutation
// rewrites the whole array.
type Store[T any, PT Record[T]] struct {
	kv    KV
	key   string
	newID func() string
}

// NewStore creates a store for the collection at key
func NewStore[T any, PT Record[T]](kv KV, key string) *Store[T, PT] {
	return &Store[T, PT]{kv: kv, key: key, newID: uuid.NewString}
}

// Load returns the collection. A missing key is an empty collection.
func (s *Store[T, PT]) Load(ctx context.Context) ([]T, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.key, err)
	}
	if !ok || raw == "" {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidData, s.key, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// Save overwrites the collection
func (s *Store[T, PT]) Save(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.key, err)
	}
	if err := s.kv.Set(ctx, s.key, string(b)); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.key, err)
	}
	return nil
}

// Insert assigns a fresh id to record and appends it
func (s *Store[T, PT]) Insert(ctx context.Context, record T) ([]T, error) {
	records, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	PT(&record).SetID(s.newID())
	records = append(records, record)

	if err := s.Save(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

// Update shallow-merges patch into the record with id. An unknown id leaves
// the collection untouched and writes nothing.
func (s *Store[T, PT]) Update(ctx context.Context, id string, patch any) ([]T, error) {
	records, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	idx := s.indexOf(records, id)
	if idx < 0 {
		return records, nil
	}

	merged, err := merge(records[idx], patch)
	if err != nil {
		return nil, err
	}
	PT(&merged).SetID(id)
	records[idx] = merged

	if err := s.Save(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

// Remove drops the record with id. Unknown ids are a no-op.
func (s *Store[T, PT]) Remove(ctx context.Context, id string) ([]T, error) {
	records, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	idx := s.indexOf(records, id)
	if idx < 0 {
		return records, nil
	}
	records = append(records[:idx], records[idx+1:]...)

	if err := s.Save(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

// Get looks up one record by id
func (s *Store[T, PT]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	records, err := s.Load(ctx)
	if err != nil {
		return zero, false, err
	}
	idx := s.indexOf(records, id)
	if idx < 0 {
		return zero, false, nil
	}
	return records[idx], true, nil
}

func (s *Store[T, PT]) indexOf(records []T, id string) int {
	for i := range records {
		if PT(&records[i]).GetID() == id {
			return i
		}
	}
	return -1
}
