package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/certdesk/internal/app/models"
	"github.com/yigit/certdesk/internal/db"
	"github.com/yigit/certdesk/internal/pkg/apperrors"
	"github.com/yigit/certdesk/internal/pkg/dberrors"
	"github.com/yigit/certdesk/internal/pkg/logger"
)

const studentsPrimaryKey = "students_pkey"

var generatedCountColumns = map[models.CertificateType]string{
	models.CertificateLeave:    "leave_generated_count",
	models.CertificateBonafide: "bonafide_generated_count",
}

// studentColumns lists every column in scan order.
var studentColumns = func() []string {
	cols := make([]string, 0, len(models.Fields)+5)
	for _, f := range models.Fields {
		cols = append(cols, f.Column)
	}
	return append(cols, "leave_generated_count", "bonafide_generated_count", "frozen", "created_at", "last_updated")
}()

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner) (*models.StudentRecord, error) {
	rec := &models.StudentRecord{}
	dest := make([]any, 0, len(studentColumns))
	for _, f := range models.Fields {
		dest = append(dest, f.Ptr(rec))
	}
	dest = append(dest, &rec.LeaveGeneratedCount, &rec.BonafideGeneratedCount, &rec.Frozen, &rec.CreatedAt, &rec.LastUpdated)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return rec, nil
}

// StudentRepository stores the general register in Postgres
type StudentRepository struct {
	database *db.PostgresDB
	sb       squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(database *db.PostgresDB) *StudentRepository {
	return &StudentRepository{
		database: database,
		sb:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Get retrieves a student by GRN
func (r *StudentRepository) Get(ctx context.Context, grn string) (*models.StudentRecord, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"grn": grn}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	rec, err := scanStudent(r.database.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Str("grn", grn).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student: %w", err)
	}
	return rec, nil
}

// Insert creates a student record
func (r *StudentRepository) Insert(ctx context.Context, rec *models.StudentRecord) (*models.StudentRecord, error) {
	now := time.Now().UTC()
	values := make([]interface{}, 0, len(studentColumns))
	for _, f := range models.Fields {
		values = append(values, f.Get(rec))
	}
	values = append(values, rec.LeaveGeneratedCount, rec.BonafideGeneratedCount, rec.Frozen, now, now)

	sql, args, err := r.sb.Insert("students").
		Columns(studentColumns...).
		Values(values...).
		Suffix("RETURNING " + strings.Join(studentColumns, ", ")).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building insert student SQL")
		return nil, fmt.Errorf("failed to build insert student query: %w", err)
	}

	created, err := scanStudent(r.database.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, studentsPrimaryKey) {
			return nil, apperrors.ErrStudentAlreadyExists
		}
		logger.Error().Err(err).Str("grn", rec.GRN).Msg("Error executing insert student query")
		return nil, fmt.Errorf("error inserting student: %w", err)
	}
	return created, nil
}

// lockWritable locks the row and fails when it is missing or frozen.
func (r *StudentRepository) lockWritable(ctx context.Context, tx pgx.Tx, grn string) error {
	sql, args, err := r.sb.Select("frozen").
		From("students").
		Where(squirrel.Eq{"grn": grn}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build lock student query: %w", err)
	}

	var frozen bool
	if err := tx.QueryRow(ctx, sql, args...).Scan(&frozen); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrStudentNotFound
		}
		return fmt.Errorf("error locking student: %w", err)
	}
	if frozen {
		return apperrors.ErrStudentFrozen
	}
	return nil
}

// Update applies a partial update in its own transaction
func (r *StudentRepository) Update(ctx context.Context, grn string, patch models.StudentPatch) (*models.StudentRecord, error) {
	lastUpdated := time.Now().UTC()
	if patch.LastUpdated != nil {
		lastUpdated = *patch.LastUpdated
	}

	setMap := map[string]interface{}{"last_updated": lastUpdated}
	for _, f := range patch.Columns() {
		setMap[f.Column] = patch.Fields[f.Name]
	}

	sql, args, err := r.sb.Update("students").
		SetMap(setMap).
		Where(squirrel.Eq{"grn": grn}).
		Suffix("RETURNING " + strings.Join(studentColumns, ", ")).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update student SQL")
		return nil, fmt.Errorf("failed to build update student query: %w", err)
	}

	var updated *models.StudentRecord
	err = r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := r.lockWritable(ctx, tx, grn); err != nil {
			return err
		}
		rec, err := scanStudent(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			return fmt.Errorf("error updating student: %w", err)
		}
		updated = rec
		return nil
	})
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrStudentNotFound, apperrors.ErrStudentFrozen) {
			logger.Error().Err(err).Str("grn", grn).Msg("Error executing update student query")
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a student record
func (r *StudentRepository) Delete(ctx context.Context, grn string) error {
	sql, args, err := r.sb.Delete("students").
		Where(squirrel.Eq{"grn": grn}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete student SQL")
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := r.lockWritable(ctx, tx, grn); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Str("grn", grn).Msg("Error executing delete student query")
			return fmt.Errorf("error deleting student: %w", err)
		}
		return nil
	})
}

// ListAll returns the whole register ordered by GRN
func (r *StudentRepository) ListAll(ctx context.Context) ([]*models.StudentRecord, error) {
	return r.query(ctx, r.sb.Select(studentColumns...).From("students").OrderBy("grn ASC"))
}

// List returns one page of the register and the total number of records
func (r *StudentRepository) List(ctx context.Context, offset uint64, limit int) ([]*models.StudentRecord, int64, error) {
	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("students").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count students query: %w", err)
	}

	var total int64
	if err := r.database.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting students")
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}

	items, err := r.query(ctx, r.sb.Select(studentColumns...).
		From("students").
		OrderBy("grn ASC").
		Offset(offset).
		Limit(uint64(limit)))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *StudentRepository) query(ctx context.Context, q squirrel.SelectBuilder) ([]*models.StudentRecord, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list students SQL")
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.database.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.StudentRecord{}
	for rows.Next() {
		rec, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student row during list")
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, rec)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating student rows")
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}
	return students, nil
}

// IncrementGeneratedCount bumps the issuance count for one certificate type
func (r *StudentRepository) IncrementGeneratedCount(ctx context.Context, grn string, t models.CertificateType) error {
	column, ok := generatedCountColumns[t]
	if !ok {
		return fmt.Errorf("%w: %q", apperrors.ErrUnknownCertificateType, t)
	}

	sql, args, err := r.sb.Update("students").
		Set(column, squirrel.Expr(column+" + 1")).
		Where(squirrel.Eq{"grn": grn}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build increment count query: %w", err)
	}

	cmdTag, err := r.database.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("grn", grn).Str("certificateType", t.String()).Msg("Error incrementing generated count")
		return fmt.Errorf("error incrementing generated count: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// SetFrozen locks or unlocks a record for editing
func (r *StudentRepository) SetFrozen(ctx context.Context, grn string, frozen bool) error {
	sql, args, err := r.sb.Update("students").
		Set("frozen", frozen).
		Set("last_updated", time.Now().UTC()).
		Where(squirrel.Eq{"grn": grn}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build freeze query: %w", err)
	}

	cmdTag, err := r.database.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("grn", grn).Bool("frozen", frozen).Msg("Error updating frozen flag")
		return fmt.Errorf("error updating frozen flag: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}
