package service

import (
	"context"

	"github.com/studentflow/studentflow-backend/internal/model"
	"github.com/studentflow/studentflow-backend/internal/repository"
	"github.com/studentflow/studentflow-backend/internal/stats"
)

// ReportService aggregates statistics over the collection.
type ReportService struct {
	studentRepo *repository.StudentRepository
}

// NewReportService creates a new ReportService.
func NewReportService(studentRepo *repository.StudentRepository) *ReportService {
	return &ReportService{studentRepo: studentRepo}
}

// Statistics computes the report, optionally scoped to a department.
func (s *ReportService) Statistics(ctx context.Context, department string) (model.Report, error) {
	records, err := s.studentRepo.List(ctx)
	if err != nil {
		return model.Report{}, err
	}
	return stats.Compute(records, department), nil
}
