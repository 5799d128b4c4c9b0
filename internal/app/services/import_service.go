package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/certdesk/internal/app/importer"
	"github.com/yigit/certdesk/internal/app/models"
	"github.com/yigit/certdesk/internal/app/repositories"
	"github.com/yigit/certdesk/internal/pkg/apperrors"
)

// ImportService defines the bulk import and duplicate reconciliation operations
type ImportService interface {
	// Import inserts new records and reports every row whose GRN already exists.
	Import(ctx context.Context, rows []map[string]string) (*models.ImportResult, error)
	// ImportFile parses a roster file and imports its rows.
	ImportFile(ctx context.Context, path string) (*models.ImportResult, error)
	// ResolveDuplicates applies the operator's decision for each duplicate.
	ResolveDuplicates(ctx context.Context, list []models.Duplicate) (*models.ResolutionResult, error)
}

// importServiceImpl implements the ImportService interface
type importServiceImpl struct {
	students repositories.StudentStore
	mapper   *importer.Mapper
	log      zerolog.Logger
	now      Clock
}

// NewImportService creates a new import service instance; a nil clock uses time.Now
func NewImportService(students repositories.StudentStore, mapper *importer.Mapper, log zerolog.Logger, now Clock) ImportService {
	if now == nil {
		now = time.Now
	}
	return &importServiceImpl{
		students: students,
		mapper:   mapper,
		log:      log,
		now:      now,
	}
}

func (s *importServiceImpl) Import(ctx context.Context, rows []map[string]string) (*models.ImportResult, error) {
	result := &models.ImportResult{
		BatchID:    uuid.NewString(),
		Status:     models.ImportCompleted,
		Duplicates: []models.Duplicate{},
	}
	log := s.log.With().Str("batchID", result.BatchID).Logger()

	for i, raw := range rows {
		rowNum := i + 1
		rec, ok := s.mapper.MapRow(raw)
		if !ok {
			continue
		}
		if strings.TrimSpace(rec.GRN) == "" {
			result.Rejected = append(result.Rejected, models.RejectedRow{Row: rowNum, Reason: apperrors.ErrMissingGRN.Error()})
			continue
		}

		existing, err := s.students.Get(ctx, rec.GRN)
		switch {
		case err == nil:
			result.Duplicates = append(result.Duplicates, models.Duplicate{
				GRN:      rec.GRN,
				Row:      rowNum,
				Incoming: rec,
				Existing: *existing,
			})
		case errors.Is(err, apperrors.ErrStudentNotFound):
			if _, err := s.students.Insert(ctx, &rec); err != nil {
				log.Error().Err(err).Str("grn", rec.GRN).Int("row", rowNum).Msg("Import stopped on insert failure")
				return result, err
			}
			result.ImportedCount++
		default:
			log.Error().Err(err).Str("grn", rec.GRN).Int("row", rowNum).Msg("Import stopped on lookup failure")
			return result, err
		}
	}

	if len(result.Duplicates) > 0 {
		result.Status = models.ImportDuplicatesPending
	}

	log.Info().
		Int("rows", len(rows)).
		Int("imported", result.ImportedCount).
		Int("duplicates", len(result.Duplicates)).
		Int("rejected", len(result.Rejected)).
		Msg("Import batch classified")
	return result, nil
}

func (s *importServiceImpl) ImportFile(ctx context.Context, path string) (*models.ImportResult, error) {
	parser, err := importer.ParserFor(path)
	if err != nil {
		return nil, err
	}
	rows, err := parser.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrBadRequest, err)
	}
	return s.Import(ctx, rows)
}

func (s *importServiceImpl) ResolveDuplicates(ctx context.Context, list []models.Duplicate) (*models.ResolutionResult, error) {
	result := &models.ResolutionResult{}

	for _, d := range list {
		if d.Action.Normalize() != models.ActionReplace {
			result.SkippedCount++
			continue
		}

		grn := d.GRN
		if grn == "" {
			grn = d.Incoming.GRN
		}
		incoming := d.Incoming
		incoming.GRN = grn

		err := s.replace(ctx, &incoming)
		switch {
		case err == nil:
			result.ImportedCount++
		case errors.Is(err, apperrors.ErrStudentFrozen):
			result.Frozen = append(result.Frozen, grn)
		default:
			s.log.Error().Err(err).Str("grn", grn).Msg("Duplicate resolution stopped")
			return result, err
		}
	}

	s.log.Info().
		Int("imported", result.ImportedCount).
		Int("skipped", result.SkippedCount).
		Int("frozen", len(result.Frozen)).
		Msg("Duplicates resolved")
	return result, nil
}

// replace overwrites the stored text fields, or inserts the record when it was deleted since
// the import pass.
func (s *importServiceImpl) replace(ctx context.Context, incoming *models.StudentRecord) error {
	_, err := s.students.Update(ctx, incoming.GRN, models.ReplacePatch(incoming, s.now().UTC()))
	if errors.Is(err, apperrors.ErrStudentNotFound) {
		_, err = s.students.Insert(ctx, incoming)
	}
	return err
}
