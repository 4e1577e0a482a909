package service

import (
	"context"
	"errors"
	"time"

	"github.com/clinicware/clinic-backoffice/internal/core/domain"
	"github.com/clinicware/clinic-backoffice/internal/core/ports"
)

var (
	errItemName     = errors.New("item name is required")
	errItemQuantity = errors.New("item quantity cannot be negative")
)

// ItemService implements inventory management on top of an ItemRepository.
type ItemService struct {
	repo ports.ItemRepository
	now  func() time.Time
}

func NewItemService(repo ports.ItemRepository) *ItemService {
	return &ItemService{repo: repo, now: time.Now}
}

func (s *ItemService) Create(ctx context.Context, i *domain.Item) (*domain.Item, error) {
	if err := validateItem(i); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	i.CreatedAt = now
	i.UpdatedAt = now
	return s.repo.Create(ctx, i)
}

func (s *ItemService) List(ctx context.Context) ([]domain.Item, error) {
	return s.repo.List(ctx)
}

func (s *ItemService) Update(ctx context.Context, i *domain.Item) (*domain.Item, error) {
	if err := validateItem(i); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByID(ctx, i.ID)
	if err != nil {
		return nil, err
	}
	existing.Name = i.Name
	existing.Quantity = i.Quantity
	existing.Price = i.Price
	existing.BranchID = i.BranchID
	existing.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, existing)
}

func (s *ItemService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validateItem(i *domain.Item) error {
	if i.Name == "" {
		return errItemName
	}
	if i.Quantity < 0 {
		return errItemQuantity
	}
	return nil
}

var _ ports.ItemService = (*ItemService)(nil)
