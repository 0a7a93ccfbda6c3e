package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/andy/swiftbill/internal/domain"
	"github.com/andy/swiftbill/internal/repository"
)

// ClientService manages the client list
type ClientService interface {
	List(ctx context.Context) ([]domain.Client, error)
	Get(ctx context.Context, id string) (domain.Client, error)

	// Search matches name, email and contact person, case-insensitively
	Search(ctx context.Context, term string) ([]domain.Client, error)

	// Create validates the input and appends a new client
	Create(ctx context.Context, in domain.ClientInput) (domain.Client, error)

	// Update validates the input and merges it into the client with id
	Update(ctx context.Context, id string, in domain.ClientInput) (domain.Client, error)

	// Delete removes the client. Invoices that reference it are left alone.
	Delete(ctx context.Context, id string) error
}

type clientService struct {
	clientRepo repository.ClientRepository
	logger     *slog.Logger
}

// NewClientService creates a new client service
func NewClientService(clientRepo repository.ClientRepository, logger *slog.Logger) ClientService {
	return &clientService{
		clientRepo: clientRepo,
		logger:     logger,
	}
}

func (s *clientService) List(ctx context.Context) ([]domain.Client, error) {
	return s.clientRepo.Load(ctx)
}

func (s *clientService) Get(ctx context.Context, id string) (domain.Client, error) {
	client, ok, err := s.clientRepo.Get(ctx, id)
	if err != nil {
		return domain.Client{}, err
	}
	if !ok {
		return domain.Client{}, fmt.Errorf("client %s: %w", id, ErrNotFound)
	}
	return client, nil
}

func (s *clientService) Search(ctx context.Context, term string) ([]domain.Client, error) {
	clients, err := s.clientRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.Client, 0, len(clients))
	for _, c := range clients {
		if c.Matches(term) {
			matches = append(matches, c)
		}
	}
	return matches, nil
}

func (s *clientService) Create(ctx context.Context, in domain.ClientInput) (domain.Client, error) {
	if err := in.Validate().Err(); err != nil {
		return domain.Client{}, err
	}

	clients, err := s.clientRepo.Insert(ctx, domain.NewClient(in))
	if err != nil {
		return domain.Client{}, fmt.Errorf("failed to create client: %w", err)
	}

	created := clients[len(clients)-1]
	s.logger.Info("client created", "id", created.ID, "name", created.Name)
	return created, nil
}

func (s *clientService) Update(ctx context.Context, id string, in domain.ClientInput) (domain.Client, error) {
	if err := in.Validate().Err(); err != nil {
		return domain.Client{}, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return domain.Client{}, err
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	clients, err := s.clientRepo.Update(ctx, id, in)
	if err != nil {
		return domain.Client{}, fmt.Errorf("failed to update client: %w", err)
	}

	for _, c := range clients {
		if c.ID == id {
			s.logger.Info("client updated", "id", id)
			return c, nil
		}
	}
	return domain.Client{}, fmt.Errorf("client %s: %w", id, ErrNotFound)
}

func (s *clientService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if _, err := s.clientRepo.Remove(ctx, id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	s.logger.Info("client deleted", "id", id)
	return nil
}
