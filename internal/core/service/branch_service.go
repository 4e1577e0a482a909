package service

import (
	"context"
	"errors"
	"time"

	"github.com/clinicware/clinic-backoffice/internal/core/domain"
	"github.com/clinicware/clinic-backoffice/internal/core/ports"
)

var errBranchName = errors.New("branch name is required")

// BranchService implements branch management on top of a BranchRepository.
type BranchService struct {
	repo ports.BranchRepository
	now  func() time.Time
}

func NewBranchService(repo ports.BranchRepository) *BranchService {
	return &BranchService{repo: repo, now: time.Now}
}

func (s *BranchService) Create(ctx context.Context, name, address, phone string) (*domain.Branch, error) {
	if name == "" {
		return nil, errBranchName
	}
	now := s.now().UTC()
	return s.repo.Create(ctx, &domain.Branch{
		Name:      name,
		Address:   address,
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *BranchService) Get(ctx context.Context, id string) (*domain.Branch, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *BranchService) List(ctx context.Context) ([]domain.Branch, error) {
	return s.repo.List(ctx)
}

func (s *BranchService) Update(ctx context.Context, b *domain.Branch) (*domain.Branch, error) {
	if b.Name == "" {
		return nil, errBranchName
	}
	existing, err := s.repo.FindByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	existing.Name = b.Name
	existing.Address = b.Address
	existing.Phone = b.Phone
	existing.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, existing)
}

func (s *BranchService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

var _ ports.BranchService = (*BranchService)(nil)
