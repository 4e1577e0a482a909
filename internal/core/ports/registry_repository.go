package ports

import (
	"context"

	"github.com/clinicware/clinic-backoffice/internal/core/domain"
)

// BranchRepository defines persistence operations for clinic branches.
type BranchRepository interface {
	Create(ctx context.Context, b *domain.Branch) (*domain.Branch, error)
	FindByID(ctx context.Context, id string) (*domain.Branch, error)
	List(ctx context.Context) ([]domain.Branch, error)
	Update(ctx context.Context, b *domain.Branch) (*domain.Branch, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// ItemRepository defines persistence operations for inventory items.
type ItemRepository interface {
	Create(ctx context.Context, i *domain.Item) (*domain.Item, error)
	FindByID(ctx context.Context, id string) (*domain.Item, error)
	List(ctx context.Context) ([]domain.Item, error)
	Update(ctx context.Context, i *domain.Item) (*domain.Item, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// PatientRepository defines persistence operations for patient records.
type PatientRepository interface {
	Create(ctx context.Context, p *domain.Patient) (*domain.Patient, error)
	FindByID(ctx context.Context, id string) (*domain.Patient, error)
	// List returns patients, optionally filtered by a partial name match.
	List(ctx context.Context, search string) ([]domain.Patient, error)
	Update(ctx context.Context, p *domain.Patient) (*domain.Patient, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
