package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/andy/swiftbill/internal/domain"
	"github.com/andy/swiftbill/internal/repository"
)

// ItemService manages the item/service catalog
type ItemService interface {
	List(ctx context.Context) ([]domain.Item, error)
	Get(ctx context.Context, id string) (domain.Item, error)
	Search(ctx context.Context, term string) ([]domain.Item, error)
	Create(ctx context.Context, in domain.ItemInput) (domain.Item, error)
	Update(ctx context.Context, id string, in domain.ItemInput) (domain.Item, error)
	Delete(ctx context.Context, id string) error
}

type itemService struct {
	itemRepo repository.ItemRepository
	logger   *slog.Logger
}

// NewItemService creates a new item service
func NewItemService(itemRepo repository.ItemRepository, logger *slog.Logger) ItemService {
	return &itemService{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

func (s *itemService) List(ctx context.Context) ([]domain.Item, error) {
	return s.itemRepo.Load(ctx)
}

func (s *itemService) Get(ctx context.Context, id string) (domain.Item, error) {
	item, ok, err := s.itemRepo.Get(ctx, id)
	if err != nil {
		return domain.Item{}, err
	}
	if !ok {
		return domain.Item{}, fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	return item, nil
}

func (s *itemService) Search(ctx context.Context, term string) ([]domain.Item, error) {
	items, err := s.itemRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.Item, 0, len(items))
	for _, it := range items {
		if it.Matches(term) {
			matches = append(matches, it)
		}
	}
	return matches, nil
}

func (s *itemService) Create(ctx context.Context, in domain.ItemInput) (domain.Item, error) {
	if err := in.Validate().Err(); err != nil {
		return domain.Item{}, err
	}

	items, err := s.itemRepo.Insert(ctx, domain.NewItem(in))
	if err != nil {
		return domain.Item{}, fmt.Errorf("failed to create item: %w", err)
	}

	created := items[len(items)-1]
	s.logger.Info("item created", "id", created.ID, "name", created.Name)
	return created, nil
}

func (s *itemService) Update(ctx context.Context, id string, in domain.ItemInput) (domain.Item, error) {
	if err := in.Validate().Err(); err != nil {
		return domain.Item{}, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return domain.Item{}, err
	}

	items, err := s.itemRepo.Update(ctx, id, domain.NewItem(in))
	if err != nil {
		return domain.Item{}, fmt.Errorf("failed to update item: %w", err)
	}

	for _, it := range items {
		if it.ID == id {
			s.logger.Info("item updated", "id", id)
			return it, nil
		}
	}
	return domain.Item{}, fmt.Errorf("item %s: %w", id, ErrNotFound)
}

func (s *itemService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if _, err := s.itemRepo.Remove(ctx, id); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	s.logger.Info("item deleted", "id", id)
	return nil
}
