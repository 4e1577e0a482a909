package service

import (
	"context"
	"errors"
	"time"

	"github.com/clinicware/clinic-backoffice/internal/core/domain"
	"github.com/clinicware/clinic-backoffice/internal/core/ports"
)

var errPatientName = errors.New("patient first and last name are required")

// PatientService implements patient record management on top of a
// PatientRepository.
type PatientService struct {
	repo ports.PatientRepository
	now  func() time.Time
}

func NewPatientService(repo ports.PatientRepository) *PatientService {
	return &PatientService{repo: repo, now: time.Now}
}

func (s *PatientService) Create(ctx context.Context, p *domain.Patient) (*domain.Patient, error) {
	if p.FirstName == "" || p.LastName == "" {
		return nil, errPatientName
	}
	now := s.now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.repo.Create(ctx, p)
}

func (s *PatientService) Get(ctx context.Context, id string) (*domain.Patient, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *PatientService) List(ctx context.Context, search string) ([]domain.Patient, error) {
	return s.repo.List(ctx, search)
}

func (s *PatientService) Update(ctx context.Context, p *domain.Patient) (*domain.Patient, error) {
	if p.FirstName == "" || p.LastName == "" {
		return nil, errPatientName
	}
	existing, err := s.repo.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	existing.FirstName = p.FirstName
	existing.LastName = p.LastName
	existing.Email = p.Email
	existing.Phone = p.Phone
	existing.Address = p.Address
	existing.BranchID = p.BranchID
	existing.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, existing)
}

func (s *PatientService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

var _ ports.PatientService = (*PatientService)(nil)
