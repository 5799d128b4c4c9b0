// Package repositories persists student records and certificate counters.
package repositories

import (
	"context"

	"github.com/yigit/certdesk/internal/app/models"
	"github.com/yigit/certdesk/internal/db"
)

// StudentStore is the general register. Lookups match the GRN exactly, without trimming or
// case folding. Mutations of frozen records fail with apperrors.ErrStudentFrozen.
type StudentStore interface {
	Get(ctx context.Context, grn string) (*models.StudentRecord, error)
	Insert(ctx context.Context, rec *models.StudentRecord) (*models.StudentRecord, error)
	Update(ctx context.Context, grn string, patch models.StudentPatch) (*models.StudentRecord, error)
	Delete(ctx context.Context, grn string) error
	ListAll(ctx context.Context) ([]*models.StudentRecord, error)
	List(ctx context.Context, offset uint64, limit int) ([]*models.StudentRecord, int64, error)
	// IncrementGeneratedCount bumps the official issuance count of one certificate type.
	// It is a side effect of issuance, not an edit, and is allowed on frozen records.
	IncrementGeneratedCount(ctx context.Context, grn string, t models.CertificateType) error
	SetFrozen(ctx context.Context, grn string, frozen bool) error
}

// CounterStore holds one certificate number sequence per type.
type CounterStore interface {
	GetNext(ctx context.Context, t models.CertificateType) (int, error)
	Increment(ctx context.Context, t models.CertificateType) error
	// EnsureSeed creates the counter with seed as its next number unless it already exists.
	EnsureSeed(ctx context.Context, t models.CertificateType, seed int) error
	All(ctx context.Context) ([]models.CertificateCounter, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository *StudentRepository
	CounterRepository *CounterRepository
}

// NewRepositories initializes the Postgres repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		StudentRepository: NewStudentRepository(database),
		CounterRepository: NewCounterRepository(database),
	}
}
