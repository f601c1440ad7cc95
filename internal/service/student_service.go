package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/studentflow/studentflow-backend/internal/model"
	"github.com/studentflow/studentflow-backend/internal/query"
	"github.com/studentflow/studentflow-backend/internal/repository"
	"github.com/studentflow/studentflow-backend/internal/validator"
)

// ErrInvalidSortKey is returned when a list request names an unknown column.
var ErrInvalidSortKey = errors.New("invalid sort key")

// StudentService handles student business logic.
type StudentService struct {
	studentRepo *repository.StudentRepository
	engine      *query.Engine
	log         zerolog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(studentRepo *repository.StudentRepository, engine *query.Engine, log zerolog.Logger) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		engine:      engine,
		log:         log.With().Str("component", "student_service").Logger(),
	}
}

// List runs the query pipeline over the whole collection.
func (s *StudentService) List(ctx context.Context, state model.QueryState) (query.Result, error) {
	if state.SortKey != "" && !query.IsSortKey(state.SortKey) {
		return query.Result{}, fmt.Errorf("%w: %q", ErrInvalidSortKey, state.SortKey)
	}
	if state.SortDir != "" && state.SortDir != model.SortAsc && state.SortDir != model.SortDesc {
		return query.Result{}, fmt.Errorf("%w: direction %q", ErrInvalidSortKey, state.SortDir)
	}

	records, err := s.studentRepo.List(ctx)
	if err != nil {
		return query.Result{}, err
	}
	return s.engine.Run(records, state), nil
}

// Branches lists the distinct branches present in the collection.
func (s *StudentService) Branches(ctx context.Context) ([]string, error) {
	records, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.Branches(records), nil
}

// GetByID retrieves a student by ID.
func (s *StudentService) GetByID(ctx context.Context, id string) (*model.StudentRecord, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// Create validates the input and stores a new student under a fresh ID.
// Validation failures are returned as validator.FieldErrors.
func (s *StudentService) Create(ctx context.Context, in model.StudentInput) (*model.StudentRecord, error) {
	record, fields := validator.ValidateStudent(in)
	if fields != nil {
		return nil, fields
	}

	if err := s.studentRepo.Create(ctx, &record); err != nil {
		return nil, err
	}

	s.log.Info().Str("id", record.ID).Str("roll_no", record.RollNo).Msg("Student created")
	return &record, nil
}

// Update replaces every editable field of an existing student.
func (s *StudentService) Update(ctx context.Context, id string, in model.StudentInput) (*model.StudentRecord, error) {
	if _, err := s.studentRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.save(ctx, id, in)
}

// Patch merges the supplied fields into the stored student, then validates
// the result as a whole.
func (s *StudentService) Patch(ctx context.Context, id string, patch model.StudentPatch) (*model.StudentRecord, error) {
	current, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, id, patch.Apply(*current))
}

func (s *StudentService) save(ctx context.Context, id string, in model.StudentInput) (*model.StudentRecord, error) {
	record, fields := validator.ValidateStudent(in)
	if fields != nil {
		return nil, fields
	}
	record.ID = id

	if err := s.studentRepo.Update(ctx, &record); err != nil {
		return nil, err
	}

	s.log.Info().Str("id", id).Msg("Student updated")
	return &record, nil
}

// Delete removes a student by ID.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("id", id).Msg("Student deleted")
	return nil
}
