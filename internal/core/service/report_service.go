package service

import (
	"context"
	"fmt"

	"github.com/clinicware/clinic-backoffice/internal/core/domain"
	"github.com/clinicware/clinic-backoffice/internal/core/ports"
)

// ReportService aggregates back-office counts for the owner dashboard.
type ReportService struct {
	users    ports.UserDirectory
	branches ports.BranchRepository
	items    ports.ItemRepository
	patients ports.PatientRepository
}

func NewReportService(users ports.UserDirectory, branches ports.BranchRepository, items ports.ItemRepository, patients ports.PatientRepository) *ReportService {
	return &ReportService{users: users, branches: branches, items: items, patients: patients}
}

func (s *ReportService) Summary(ctx context.Context) (*domain.ReportSummary, error) {
	var (
		summary domain.ReportSummary
		err     error
	)
	if summary.Users, err = s.users.Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if summary.Branches, err = s.branches.Count(ctx); err != nil {
		return nil, fmt.Errorf("count branches: %w", err)
	}
	if summary.Items, err = s.items.Count(ctx); err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}
	if summary.Patients, err = s.patients.Count(ctx); err != nil {
		return nil, fmt.Errorf("count patients: %w", err)
	}
	return &summary, nil
}

var _ ports.ReportService = (*ReportService)(nil)
