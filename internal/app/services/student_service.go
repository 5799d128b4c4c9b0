package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/yigit/certdesk/internal/app/models"
	"github.com/yigit/certdesk/internal/app/repositories"
	"github.com/yigit/certdesk/internal/pkg/apperrors"
	"github.com/yigit/certdesk/internal/pkg/helpers"
)

// StudentService defines the register administration operations
type StudentService interface {
	GetStudent(ctx context.Context, grn string) (*models.StudentRecord, error)
	ListStudents(ctx context.Context, page, size int) ([]*models.StudentRecord, int64, error)
	CreateStudent(ctx context.Context, rec *models.StudentRecord) (*models.StudentRecord, error)
	UpdateStudent(ctx context.Context, grn string, fields map[string]string) (*models.StudentRecord, error)
	DeleteStudent(ctx context.Context, grn string) error
	SetFrozen(ctx context.Context, grn string, frozen bool) error
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	students repositories.StudentStore
	validate *validator.Validate
	log      zerolog.Logger
}

// NewStudentService creates a new student service instance
func NewStudentService(students repositories.StudentStore, log zerolog.Logger) StudentService {
	return &studentServiceImpl{
		students: students,
		validate: validator.New(),
		log:      log,
	}
}

// validateStudent checks the required register fields
func (s *studentServiceImpl) validateStudent(rec *models.StudentRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: student is nil", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(rec.GRN) == "" {
		return apperrors.ErrMissingGRN
	}
	if err := s.validate.Struct(rec); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}
	return nil
}

func (s *studentServiceImpl) GetStudent(ctx context.Context, grn string) (*models.StudentRecord, error) {
	return s.students.Get(ctx, grn)
}

func (s *studentServiceImpl) ListStudents(ctx context.Context, page, size int) ([]*models.StudentRecord, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	return s.students.List(ctx, offset, limit)
}

func (s *studentServiceImpl) CreateStudent(ctx context.Context, rec *models.StudentRecord) (*models.StudentRecord, error) {
	if err := s.validateStudent(rec); err != nil {
		return nil, err
	}

	// counters and the frozen flag are owned by issuance and freezing
	fresh := &models.StudentRecord{}
	for _, f := range models.Fields {
		f.Set(fresh, f.Get(rec))
	}

	created, err := s.students.Insert(ctx, fresh)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("grn", created.GRN).Msg("Student created")
	return created, nil
}

func (s *studentServiceImpl) UpdateStudent(ctx context.Context, grn string, fields map[string]string) (*models.StudentRecord, error) {
	patch := models.StudentPatch{Fields: fields}
	if len(patch.Columns()) == 0 {
		return nil, apperrors.NewBadRequestError("no editable fields in update")
	}
	if name, ok := fields["name"]; ok && strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}

	updated, err := s.students.Update(ctx, grn, patch)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("grn", grn).Int("fields", len(patch.Columns())).Msg("Student updated")
	return updated, nil
}

func (s *studentServiceImpl) DeleteStudent(ctx context.Context, grn string) error {
	if err := s.students.Delete(ctx, grn); err != nil {
		return err
	}
	s.log.Info().Str("grn", grn).Msg("Student deleted")
	return nil
}

func (s *studentServiceImpl) SetFrozen(ctx context.Context, grn string, frozen bool) error {
	if err := s.students.SetFrozen(ctx, grn, frozen); err != nil {
		return err
	}
	s.log.Info().Str("grn", grn).Bool("frozen", frozen).Msg("Student freeze flag changed")
	return nil
}
