package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/certdesk/internal/app/models"
	"github.com/yigit/certdesk/internal/db"
	"github.com/yigit/certdesk/internal/pkg/apperrors"
	"github.com/yigit/certdesk/internal/pkg/logger"
)

// CounterRepository stores certificate number sequences in Postgres
type CounterRepository struct {
	database *db.PostgresDB
	sb       squirrel.StatementBuilderType
}

// NewCounterRepository creates a new CounterRepository
func NewCounterRepository(database *db.PostgresDB) *CounterRepository {
	return &CounterRepository{
		database: database,
		sb:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func counterNotSeeded(t models.CertificateType) error {
	return apperrors.NewResourceNotFoundError(fmt.Sprintf("certificate counter %q is not seeded", t))
}

// GetNext returns the number the next official certificate of type t will carry
func (r *CounterRepository) GetNext(ctx context.Context, t models.CertificateType) (int, error) {
	sql, args, err := r.sb.Select("next_number").
		From("certificate_counters").
		Where(squirrel.Eq{"type": string(t)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build get counter query: %w", err)
	}

	var next int
	if err := r.database.Pool.QueryRow(ctx, sql, args...).Scan(&next); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, counterNotSeeded(t)
		}
		logger.Error().Err(err).Str("certificateType", t.String()).Msg("Error reading certificate counter")
		return 0, fmt.Errorf("error reading certificate counter: %w", err)
	}
	return next, nil
}

// Increment consumes the current number of type t
func (r *CounterRepository) Increment(ctx context.Context, t models.CertificateType) error {
	sql, args, err := r.sb.Update("certificate_counters").
		Set("next_number", squirrel.Expr("next_number + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"type": string(t)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build increment counter query: %w", err)
	}

	cmdTag, err := r.database.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("certificateType", t.String()).Msg("Error incrementing certificate counter")
		return fmt.Errorf("error incrementing certificate counter: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return counterNotSeeded(t)
	}
	return nil
}

// EnsureSeed inserts the counter unless it exists; an existing counter is never reset
func (r *CounterRepository) EnsureSeed(ctx context.Context, t models.CertificateType, seed int) error {
	sql, args, err := r.sb.Insert("certificate_counters").
		Columns("type", "next_number").
		Values(string(t), seed).
		Suffix("ON CONFLICT (type) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build seed counter query: %w", err)
	}

	if _, err := r.database.Pool.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("certificateType", t.String()).Msg("Error seeding certificate counter")
		return fmt.Errorf("error seeding certificate counter: %w", err)
	}
	return nil
}

// All returns every counter ordered by type
func (r *CounterRepository) All(ctx context.Context) ([]models.CertificateCounter, error) {
	sql, args, err := r.sb.Select("type", "next_number").
		From("certificate_counters").
		OrderBy("type ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list counters query: %w", err)
	}

	rows, err := r.database.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying counters: %w", err)
	}
	defer rows.Close()

	counters := []models.CertificateCounter{}
	for rows.Next() {
		var c models.CertificateCounter
		var t string
		if err := rows.Scan(&t, &c.NextNumber); err != nil {
			return nil, fmt.Errorf("error scanning counter row: %w", err)
		}
		c.Type = models.CertificateType(t)
		counters = append(counters, c)
	}
	return counters, rows.Err()
}
