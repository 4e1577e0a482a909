package ports

import (
	"context"

	"github.com/clinicware/clinic-backoffice/internal/core/domain"
)

// BranchService defines use-case operations for branch management.
type BranchService interface {
	Create(ctx context.Context, name, address, phone string) (*domain.Branch, error)
	Get(ctx context.Context, id string) (*domain.Branch, error)
	List(ctx context.Context) ([]domain.Branch, error)
	Update(ctx context.Context, b *domain.Branch) (*domain.Branch, error)
	Delete(ctx context.Context, id string) error
}

// ItemService defines use-case operations for inventory.
type ItemService interface {
	Create(ctx context.Context, i *domain.Item) (*domain.Item, error)
	List(ctx context.Context) ([]domain.Item, error)
	Update(ctx context.Context, i *domain.Item) (*domain.Item, error)
	Delete(ctx context.Context, id string) error
}

// PatientService defines use-case operations for patient records.
type PatientService interface {
	Create(ctx context.Context, p *domain.Patient) (*domain.Patient, error)
	Get(ctx context.Context, id string) (*domain.Patient, error)
	List(ctx context.Context, search string) ([]domain.Patient, error)
	Update(ctx context.Context, p *domain.Patient) (*domain.Patient, error)
	Delete(ctx context.Context, id string) error
}

// ReportService aggregates counts for the owner dashboard.
type ReportService interface {
	Summary(ctx context.Context) (*domain.ReportSummary, error)
}
